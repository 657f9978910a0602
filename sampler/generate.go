package sampler

import (
	"context"
	"fmt"
)

// Generate builds the index described by cfg and runs a sampler over it.
func Generate(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idx, err := NewIndex(cfg.Index, cfg.TargetCount, cfg.Distance.Function())
	if err != nil {
		return nil, fmt.Errorf("sampler: new index: %w", err)
	}
	s, err := New(idx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx)
}
