// internal/engine/run.go
package engine

import (
	"fmt"

	"repsim/internal/phase"
	"repsim/internal/rng"
)

// Gate advances the G→S gate until it opens and returns the number of
// draws it took, counting the one that opened it.
func (e *Engine) Gate(threshold float64, src rng.Source) (int, error) {
	if threshold < 0 || threshold >= 1 {
		return 0, fmt.Errorf("%w (got %g)", ErrThreshold, threshold)
	}
	if e.gate.Phase() == phase.Synthesis {
		return e.gate.Iterations() + 1, nil
	}
	for !e.gate.Advance(src, threshold) {
	}
	return e.gate.Iterations() + 1, nil
}

// Step runs one replicating iteration: fire origins while quota remains
// and a gap exists, grow every fork once, refund quota for merges.
func (e *Engine) Step(src rng.Source) (IterationStats, error) {
	if e.gate.Phase() != phase.Synthesis {
		return IterationStats{}, ErrGating
	}
	st := IterationStats{Iteration: e.iter + 1}
	for e.quota > 0 {
		ok, err := e.sampler.SampleAndPlace(e.track, src)
		if err != nil {
			return st, fmt.Errorf("iteration %d: %w", st.Iteration, err)
		}
		if !ok {
			break
		}
		e.quota--
		st.Placed++
	}
	st.Merges = e.track.GrowAndMerge(e.cfg.Rate)
	e.quota += st.Merges
	e.iter++
	e.fired += st.Placed
	e.merges += st.Merges

	st.Quota = e.quota
	st.Replicated = e.track.Replicated()
	st.Unreplicated = e.cfg.GenomeLength - st.Replicated
	st.Gaps = len(e.track.UnreplicatedRuns(nil))
	st.ActiveForks = e.track.ActiveForks()
	return st, nil
}

// Run gates into S phase and replicates until the track is complete.
// The stream is consumed in a fixed order, so equal seeds give equal results.
func (e *Engine) Run(threshold float64, src rng.Source) (Result, error) {
	warm, err := e.Gate(threshold, src)
	if err != nil {
		return Result{}, err
	}
	for !e.track.IsComplete() {
		if e.cfg.MaxIterations > 0 && e.iter >= e.cfg.MaxIterations {
			return e.result(warm), fmt.Errorf("%w (%d)", ErrIterationCap, e.cfg.MaxIterations)
		}
		st, err := e.Step(src)
		if err != nil {
			return e.result(warm), err
		}
		if e.cfg.Observer != nil {
			if oerr := e.cfg.Observer(st); oerr != nil {
				return e.result(warm), fmt.Errorf("%w at iteration %d: %w", ErrAborted, st.Iteration, oerr)
			}
		}
	}
	return e.result(warm), nil
}

func (e *Engine) result(warm int) Result {
	return Result{
		Track:        e.track.Slots(),
		Segments:     e.track.Runs(nil),
		Iterations:   e.iter,
		WarmupDraws:  warm,
		OriginsFired: e.fired,
		Merges:       e.merges,
		Complete:     e.track.IsComplete(),
	}
}
