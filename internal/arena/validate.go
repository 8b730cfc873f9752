package arena

import (
	"encoding/json"
	"fmt"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

// ValidateInput turns an untrusted value into a world.Input. Accepted
// shapes: world.Input, map[string]any, map[string]string, and JSON as
// []byte, json.RawMessage or string.
func (m *Module) ValidateInput(raw any) game.Validation {
	switch v := raw.(type) {
	case nil:
		return game.Reject("input is empty")
	case world.Input:
		return validateKind(v.Kind.String(), v.Direction.String(), v.Kind == world.InputMove)
	case map[string]any:
		return validateMap(v)
	case map[string]string:
		conv := make(map[string]any, len(v))
		for k, s := range v {
			conv[k] = s
		}
		return validateMap(conv)
	case json.RawMessage:
		return validateJSON(v)
	case []byte:
		return validateJSON(v)
	case string:
		return validateJSON([]byte(v))
	default:
		return game.Reject(fmt.Sprintf("unsupported input type %T", raw))
	}
}

func validateJSON(b []byte) game.Validation {
	var obj map[string]any
	if err := json.Unmarshal(b, &obj); err != nil {
		return game.Reject("input is not a JSON object")
	}
	return validateMap(obj)
}

func validateMap(obj map[string]any) game.Validation {
	if obj == nil {
		return game.Reject("input is empty")
	}
	kind, ok := obj["type"].(string)
	if !ok {
		return game.Reject(`missing string field "type"`)
	}
	dir, _ := obj["direction"].(string)
	_, hasDir := obj["direction"]
	return validateKind(kind, dir, hasDir)
}

func validateKind(kind, dir string, hasDir bool) game.Validation {
	switch kind {
	case "move":
		if !hasDir {
			return game.Reject(`move requires "direction"`)
		}
		d, ok := component.ParseDirection(dir)
		if !ok {
			return game.Reject(fmt.Sprintf("unknown direction %q", dir))
		}
		return game.Accept(world.Input{Kind: world.InputMove, Direction: d})
	case "stop":
		return game.Accept(world.Input{Kind: world.InputStop})
	case "place_bomb":
		return game.Accept(world.Input{Kind: world.InputPlaceBomb})
	case "detonate":
		return game.Accept(world.Input{Kind: world.InputDetonate})
	case "throw":
		return game.Accept(world.Input{Kind: world.InputThrow})
	default:
		return game.Reject(fmt.Sprintf("unknown input type %q", kind))
	}
}
