package host

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/l1jgo/bombarena/internal/game"
)

// RunAll runs every match concurrently. The first failure cancels the rest.
// Results are returned in the order of matches.
func RunAll(ctx context.Context, matches []*Match) ([]*game.Results, error) {
	g, ctx := errgroup.WithContext(ctx)
	out := make([]*game.Results, len(matches))
	for i, m := range matches {
		g.Go(func() error {
			res, err := m.Run(ctx)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, nil
}
