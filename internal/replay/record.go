package replay

import (
	"encoding/json"
	"fmt"

	"github.com/l1jgo/bombarena/internal/host"
	"github.com/l1jgo/bombarena/internal/world"
)

// Record turns a live match's input journal into a timeline that replays
// it exactly.
func Record(m *host.Match, name string) (*Timeline, error) {
	journal := m.Journal()
	tl := &Timeline{
		Name:    name,
		Game:    m.GameID,
		Seed:    m.Seed,
		Players: append([]string(nil), m.Players...),
		Options: make(map[string]string, len(m.Options)),
		Inputs:  make([]InputEntry, 0, len(journal)),
	}
	for k, v := range m.Options {
		tl.Options[k] = v
	}
	for i, a := range journal {
		in, err := inputMap(a.Raw)
		if err != nil {
			return nil, fmt.Errorf("replay: record input %d: %w", i, err)
		}
		tl.Inputs = append(tl.Inputs, InputEntry{Tick: a.Tick, Player: a.Player, Input: in})
	}
	return tl, nil
}

func inputMap(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case world.Input:
		out := map[string]any{"type": v.Kind.String()}
		if v.Kind == world.InputMove {
			out["direction"] = v.Direction.String()
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case []byte:
		return decodeInput(v)
	case json.RawMessage:
		return decodeInput(v)
	case string:
		return decodeInput([]byte(v))
	default:
		return nil, fmt.Errorf("unsupported input type %T", raw)
	}
}

func decodeInput(raw []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
