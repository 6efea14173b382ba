// internal/engine/engine.go
package engine

import (
	"errors"
	"fmt"

	"repsim/internal/origin"
	"repsim/internal/phase"
	"repsim/internal/track"
)

var (
	ErrConfig       = errors.New("engine: invalid config")
	ErrThreshold    = errors.New("engine: threshold must be in [0,1)")
	ErrGating       = errors.New("engine: still in G phase")
	ErrIterationCap = errors.New("engine: iteration cap reached")
	ErrAborted      = errors.New("engine: aborted by observer")
)

// Config holds replication parameters for one chromosome.
type Config struct {
	GenomeLength    int
	MaxForks        int
	Rate            int     // positions each fork advances per iteration
	FireProbability float64 // 0 = origin.DefaultFireProbability
	MaxAttempts     int     // per-placement candidate cap (0 = origin.DefaultMaxAttempts)
	MaxIterations   int     // 0 = unbounded
	Layout          string  // track.KindArray (default) or track.KindIntervals

	// Observer, if set, sees every replicating iteration. Returning an error
	// stops Run; this is where a host checks for cancellation.
	Observer func(IterationStats) error
}

// Engine owns the track, quota and phase of a single simulation.
type Engine struct {
	cfg     Config
	track   track.Layout
	sampler *origin.Sampler
	gate    phase.Gate

	quota  int
	iter   int
	fired  int
	merges int
}

// New validates c and returns an engine in G phase with an unreplicated track.
func New(c Config) (*Engine, error) {
	if c.GenomeLength <= 0 || c.MaxForks <= 0 || c.Rate <= 0 {
		return nil, fmt.Errorf("%w: genome length, max forks and rate must be > 0 (got %d, %d, %d)",
			ErrConfig, c.GenomeLength, c.MaxForks, c.Rate)
	}
	if c.FireProbability < 0 || c.FireProbability > 1 {
		return nil, fmt.Errorf("%w: fire probability %g not in (0,1]", ErrConfig, c.FireProbability)
	}
	tr, err := track.NewLayout(c.Layout, c.GenomeLength, c.MaxForks)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return &Engine{
		cfg:     c,
		track:   tr,
		sampler: origin.New(c.FireProbability, c.MaxAttempts),
		quota:   c.MaxForks,
	}, nil
}

// Contains reports whether pos is replicated; errors wrap track.ErrDomain.
func (e *Engine) Contains(pos int) (bool, error) { return e.track.Contains(pos) }

func (e *Engine) IsComplete() bool { return e.track.IsComplete() }
func (e *Engine) Phase() phase.Phase { return e.gate.Phase() }
func (e *Engine) Quota() int { return e.quota }
func (e *Engine) Iterations() int { return e.iter }
func (e *Engine) Config() Config { return e.cfg }
func (e *Engine) Snapshot() []int { return e.track.Slots() }
func (e *Engine) Segments() []track.Run { return e.track.Runs(nil) }
