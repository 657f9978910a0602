package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/viant/bluenoise/index"
	"github.com/viant/bluenoise/spatial"
	"github.com/viant/bluenoise/store"
)

// State is the sampler lifecycle state.
type State uint8

const (
	Empty State = iota
	Seeded
	Sampling
	Done
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Seeded:
		return "seeded"
	case Sampling:
		return "sampling"
	case Done:
		return "done"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ErrInvalidState is returned when Seed or Next is called out of order.
var ErrInvalidState = errors.New("sampler: invalid state")

type options struct {
	store  store.Store
	rng    *rand.Rand
	logger *slog.Logger
}

// Option configures a Sampler.
type Option func(*options)

// WithStore places every accepted point in s under its index id.
func WithStore(s store.Store) Option {
	return func(o *options) { o.store = s }
}

// WithRand sets the candidate generator.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithRandSeed uses a PCG generator with a fixed seed, making runs reproducible.
func WithRandSeed(seed uint64) Option {
	return func(o *options) { o.rng = rand.New(rand.NewPCG(seed, seed)) }
}

// WithLogger sets the logger; by default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Sampler runs best-candidate sampling over an index it owns.
// It is not safe for concurrent use.
type Sampler struct {
	cfg    Config
	index  index.Index
	store  store.Store
	rng    *rand.Rand
	logger *slog.Logger

	state  State
	points []spatial.Point
	ids    []int
	stats  Stats
}

// New creates a sampler over the empty index idx.
func New(idx index.Index, cfg Config, opts ...Option) (*Sampler, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrInvalidConfig)
	}
	if idx.Len() != 0 {
		return nil, fmt.Errorf("%w: index already holds %d points", ErrInvalidConfig, idx.Len())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return &Sampler{
		cfg:    cfg,
		index:  idx,
		store:  o.store,
		rng:    o.rng,
		logger: o.logger,
		points: make([]spatial.Point, 0, cfg.TargetCount),
		ids:    make([]int, 0, cfg.TargetCount),
	}, nil
}

// State returns the current lifecycle state.
func (s *Sampler) State() State { return s.state }

// Len returns the number of accepted points.
func (s *Sampler) Len() int { return len(s.points) }

// Stats returns the counters collected so far.
func (s *Sampler) Stats() Stats { return s.stats }

// Seed inserts the configured seed point.
func (s *Sampler) Seed(ctx context.Context) error {
	if s.state != Empty {
		return fmt.Errorf("%w: seed in state %s", ErrInvalidState, s.state)
	}
	if err := s.accept(ctx, s.cfg.Seed); err != nil {
		return err
	}
	s.logger.Debug("seed placed", "position", s.cfg.Seed.String())
	return nil
}

// Next fills the next slot with the candidate farthest from all accepted
// points and returns it.
func (s *Sampler) Next(ctx context.Context) (spatial.Point, error) {
	if s.state != Seeded && s.state != Sampling {
		return spatial.Point{}, fmt.Errorf("%w: next in state %s", ErrInvalidState, s.state)
	}
	slot := len(s.points)
	batch := slot*s.cfg.SampleMultiplier + 1

	var best spatial.Point
	bestDistance := float32(math.Inf(-1))
	for range batch {
		candidate := s.candidate()
		nearest, ok := s.index.FindNearest(candidate)
		s.stats.Queries++
		if !ok {
			return spatial.Point{}, fmt.Errorf("sampler: slot %d: empty index", slot)
		}
		if nearest.Distance > bestDistance {
			best, bestDistance = candidate, nearest.Distance
		}
	}
	if err := s.accept(ctx, best); err != nil {
		return spatial.Point{}, err
	}
	s.logger.Debug("slot filled", "slot", slot, "candidates", batch, "distance", bestDistance)
	return best, nil
}

// Run seeds the sampler if needed and fills the remaining slots.
func (s *Sampler) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	if s.state == Empty {
		if err := s.Seed(ctx); err != nil {
			return nil, err
		}
	}
	for s.state != Done {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sampler: interrupted at %d points: %w", len(s.points), err)
		}
		if _, err := s.Next(ctx); err != nil {
			return nil, err
		}
	}
	if err := s.index.Build(); err != nil {
		return nil, fmt.Errorf("sampler: build index: %w", err)
	}
	s.stats.Elapsed += time.Since(started)
	s.logger.Info("sampling completed",
		"points", s.stats.Points,
		"queries", s.stats.Queries,
		"multiplier", s.cfg.SampleMultiplier,
		"elapsed", s.stats.Elapsed)
	return s.result(), nil
}

func (s *Sampler) accept(ctx context.Context, p spatial.Point) error {
	id, err := s.index.Insert(p)
	if err != nil {
		return fmt.Errorf("sampler: insert %v: %w", p, err)
	}
	if s.store != nil {
		if err := s.store.Place(ctx, id, p); err != nil {
			return fmt.Errorf("sampler: place %d: %w", id, err)
		}
	}
	s.points = append(s.points, p)
	s.ids = append(s.ids, id)
	s.stats.Points++
	switch {
	case len(s.points) >= s.cfg.TargetCount:
		s.state = Done
	case s.state == Empty:
		s.state = Seeded
	default:
		s.state = Sampling
	}
	return nil
}

// candidate draws a point uniformly over the region cylinder: uniform over
// the disc in the x/z plane, uniform in [-height/2, height/2) on y.
func (s *Sampler) candidate() spatial.Point {
	r := float64(s.cfg.RegionRadius) * math.Sqrt(s.rng.Float64())
	theta := 2 * math.Pi * s.rng.Float64()
	y := (s.rng.Float32() - 0.5) * s.cfg.RegionHeight
	return spatial.NewPoint(float32(r*math.Cos(theta)), y, float32(r*math.Sin(theta)))
}

func (s *Sampler) result() *Result {
	return &Result{
		Points: append([]spatial.Point(nil), s.points...),
		IDs:    append([]int(nil), s.ids...),
		Stats:  s.stats,
	}
}
