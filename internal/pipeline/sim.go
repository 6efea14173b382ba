// internal/pipeline/sim.go
package pipeline

import (
	"context"
	"errors"

	"repsim/internal/engine"
	"repsim/internal/rng"
)

// Replicate is the outcome of one seeded run.
type Replicate struct {
	Index  int
	Seed   uint64
	Result engine.Result
	Draws  uint64
	Err    error // run-level failure (retry or iteration cap); nil on success
}

// Simulator is the minimal capability the pipeline needs.
// Any engine factory (including fakes in tests) can satisfy this.
type Simulator interface {
	Simulate(ctx context.Context, index int, seed uint64) (Replicate, error)
}

// Engines builds a fresh engine per replicate from a shared config.
type Engines struct {
	Config    engine.Config
	Threshold float64
}

// Simulate runs one replicate. Engine failures are recorded on the
// Replicate; only cancellation and invalid configuration abort the sweep.
func (s Engines) Simulate(ctx context.Context, index int, seed uint64) (Replicate, error) {
	cfg := s.Config
	cfg.Observer = func(engine.IterationStats) error { return ctx.Err() }
	eng, err := engine.New(cfg)
	if err != nil {
		return Replicate{}, err
	}
	stream := rng.New(seed)
	res, err := eng.Run(s.Threshold, stream)
	rep := Replicate{Index: index, Seed: seed, Result: res, Draws: stream.Draws()}
	switch {
	case err == nil:
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return rep, ctx.Err()
	case errors.Is(err, engine.ErrThreshold):
		return rep, err
	default:
		rep.Err = err
	}
	return rep, nil
}
