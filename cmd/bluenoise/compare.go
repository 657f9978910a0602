package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/viant/bluenoise/sampler"
	"github.com/viant/bluenoise/spatial"
)

var compareKinds = []sampler.IndexKind{sampler.IndexBruteForce, sampler.IndexKdTree}

type kindReport struct {
	kind          sampler.IndexKind
	elapsed       time.Duration
	queries       int
	minSeparation float64
}

type comparison struct {
	trials int
	agreed int
	kinds  []kindReport
}

// compareIndexes runs every trial once per index kind with the same
// generator seed. Both indexes answer identically, so each pair of runs must
// produce the same points.
func compareIndexes(ctx context.Context, cfg sampler.Config, trials, parallelism int, randSeed uint64) (*comparison, error) {
	if trials < 1 {
		return nil, fmt.Errorf("trials must be positive, got %d", trials)
	}
	metric := cfg.Distance.Function()
	seeds := make([]uint64, trials)
	for i := range seeds {
		seeds[i] = seedFor(randSeed, i)
	}
	results, err := sampler.RunTrials(ctx, trials*len(compareKinds), parallelism, func(trial int) (*sampler.Sampler, error) {
		kind := compareKinds[trial%len(compareKinds)]
		idx, err := sampler.NewIndex(kind, cfg.TargetCount, metric)
		if err != nil {
			return nil, err
		}
		return sampler.New(idx, cfg, sampler.WithRandSeed(seeds[trial/len(compareKinds)]))
	})
	if err != nil {
		return nil, err
	}

	report := &comparison{trials: trials, kinds: make([]kindReport, len(compareKinds))}
	for k, kind := range compareKinds {
		report.kinds[k].kind = kind
	}
	for i, res := range results {
		k := &report.kinds[i%len(compareKinds)]
		k.elapsed += res.Stats.Elapsed
		k.queries += res.Stats.Queries
		k.minSeparation += float64(res.MinSeparation(spatial.Euclidean)) / float64(trials)
	}
	for t := 0; t < trials; t++ {
		pair := results[t*len(compareKinds) : (t+1)*len(compareKinds)]
		if slices.Equal(pair[0].Points, pair[1].Points) {
			report.agreed++
		}
	}
	return report, nil
}

func (c *comparison) write(w io.Writer) {
	for _, k := range c.kinds {
		fmt.Fprintf(w, "%-7s trials=%d queries=%d elapsed=%s mean_min_separation=%.4f\n",
			k.kind, c.trials, k.queries, k.elapsed, k.minSeparation)
	}
	fmt.Fprintf(w, "agreement %d/%d\n", c.agreed, c.trials)
}
