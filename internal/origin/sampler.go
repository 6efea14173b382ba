// internal/origin/sampler.go
package origin

import (
	"errors"
	"fmt"

	"repsim/internal/rng"
	"repsim/internal/track"
)

const (
	// DefaultFireProbability is the chance a drawn candidate actually fires.
	DefaultFireProbability = 0.1
	// DefaultMaxAttempts bounds the accept/reject loop of one placement.
	DefaultMaxAttempts = 1_000_000
)

// ErrRetryCap is returned when no candidate fired within MaxAttempts draws.
var ErrRetryCap = errors.New("origin: retry cap reached")

// Placer is the part of a track the sampler needs.
type Placer interface {
	UnreplicatedRuns(dst []track.Run) []track.Run
	InsertOrigin(pos int) error
}

// Sampler places origins uniformly over unreplicated positions: a gap is
// drawn with weight equal to its length, then an offset inside it, and the
// candidate fires with probability FireProbability.
type Sampler struct {
	FireProbability float64
	MaxAttempts     int

	attempts int
	gaps     []track.Run
}

// New returns a Sampler; non-positive arguments select the defaults.
func New(fireProb float64, maxAttempts int) *Sampler {
	if fireProb <= 0 {
		fireProb = DefaultFireProbability
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Sampler{FireProbability: fireProb, MaxAttempts: maxAttempts}
}

// Attempts returns the candidates drawn by the last SampleAndPlace call.
func (s *Sampler) Attempts() int { return s.attempts }

// SampleAndPlace fires one origin. It returns false, nil without drawing
// when nothing is left to replicate.
func (s *Sampler) SampleAndPlace(t Placer, src rng.Source) (bool, error) {
	s.attempts = 0
	for s.attempts < s.MaxAttempts {
		// weights are recomputed for every candidate
		s.gaps = t.UnreplicatedRuns(s.gaps[:0])
		if len(s.gaps) == 0 {
			return false, nil
		}
		s.attempts++
		g := s.gaps[weightedIndex(s.gaps, src)]
		pos := g.Start + src.IntN(g.Len)
		if src.Float64() <= 1-s.FireProbability {
			continue
		}
		if err := t.InsertOrigin(pos); err != nil {
			return false, fmt.Errorf("origin: place at %d: %w", pos, err)
		}
		return true, nil
	}
	return false, fmt.Errorf("%w (%d attempts, p=%g)", ErrRetryCap, s.attempts, s.FireProbability)
}

// weightedIndex picks a gap with probability proportional to its length.
func weightedIndex(gaps []track.Run, src rng.Source) int {
	total := 0
	for _, g := range gaps {
		total += g.Len
	}
	r := src.IntN(total)
	for i, g := range gaps {
		if r < g.Len {
			return i
		}
		r -= g.Len
	}
	return len(gaps) - 1
}
