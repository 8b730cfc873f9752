package arena

import (
	"sort"

	"github.com/l1jgo/bombarena/internal/component"
	"github.com/l1jgo/bombarena/internal/game"
	"github.com/l1jgo/bombarena/internal/world"
)

// buildResults ranks alive players first, then by elimination tick with the
// latest first, then by original player order. Ranks are unique and
// score = players - rank, so a two-player match scores 1 and 0.
func buildResults(s *world.State) *game.Results {
	players := make([]*component.Player, 0, len(s.PlayerEntities()))
	for _, id := range s.PlayerEntities() {
		p, _ := s.Player(id)
		players = append(players, p)
	}
	sort.SliceStable(players, func(i, j int) bool {
		a, b := players[i], players[j]
		if a.Alive != b.Alive {
			return a.Alive
		}
		if !a.Alive && *a.EliminatedAtTick != *b.EliminatedAtTick {
			return *a.EliminatedAtTick > *b.EliminatedAtTick
		}
		return a.Order < b.Order
	})

	n := len(players)
	res := &game.Results{
		Reason:   string(s.EndReason),
		WinnerID: s.Winner,
		Ticks:    s.Tick,
		Entries:  make([]game.Result, n),
	}
	for i, p := range players {
		var elim *uint64
		if p.EliminatedAtTick != nil {
			t := *p.EliminatedAtTick
			elim = &t
		}
		res.Entries[i] = game.Result{
			PlayerID:         p.PlayerID,
			Rank:             i + 1,
			Score:            n - (i + 1),
			Alive:            p.Alive,
			EliminatedAtTick: elim,
		}
	}
	return res
}
