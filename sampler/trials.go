package sampler

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BuildFunc creates the sampler for one trial.
type BuildFunc func(trial int) (*Sampler, error)

// RunTrials runs independent samplers concurrently, at most parallelism at a
// time (unbounded when parallelism < 1). Results are indexed by trial. The
// first failure cancels the trials that have not finished.
func RunTrials(ctx context.Context, trials, parallelism int, build BuildFunc) ([]*Result, error) {
	results := make([]*Result, trials)
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i := range trials {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := build(i)
			if err != nil {
				return fmt.Errorf("sampler: trial %d: %w", i, err)
			}
			res, err := s.Run(ctx)
			if err != nil {
				return fmt.Errorf("sampler: trial %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
