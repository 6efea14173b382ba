// internal/track/layout.go
package track

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned for positions outside [0, genome length).
	ErrDomain = errors.New("position outside genome")
	// ErrReplicated is returned when an origin is placed on replicated DNA.
	ErrReplicated = errors.New("position already replicated")
	// ErrInvalid is returned for non-positive genome lengths or fork caps.
	ErrInvalid = errors.New("invalid track parameters")
)

// Layout kinds.
const (
	KindArray     = "array"
	KindIntervals = "intervals"
)

// Run is one maximal stretch of same-status positions.
type Run struct {
	Start      int
	Len        int
	Replicated bool
}

// End returns the exclusive end coordinate.
func (r Run) End() int { return r.Start + r.Len }

// Layout is the contract shared by the parity-array and interval-set
// representations. Both must agree slot-for-slot under the same operations.
type Layout interface {
	Len() int
	MaxForks() int
	Contains(pos int) (bool, error)
	IsComplete() bool
	InsertOrigin(pos int) error
	GrowAndMerge(rate int) int

	// UnreplicatedRuns appends the non-empty gaps in position order to dst.
	UnreplicatedRuns(dst []Run) []Run
	// Runs appends every non-empty segment in position order to dst.
	Runs(dst []Run) []Run
	// Slots returns the parity layout: even indices replicated, odd unreplicated.
	Slots() []int

	Replicated() int
	Unreplicated() int
	ActiveForks() int
	Check() error
}

// NewLayout builds an empty (fully unreplicated) track of the given kind.
// An empty kind selects the array layout.
func NewLayout(kind string, length, maxForks int) (Layout, error) {
	switch kind {
	case "", KindArray:
		return New(length, maxForks)
	case KindIntervals:
		return NewIntervals(length, maxForks)
	default:
		return nil, fmt.Errorf("%w: unknown layout %q", ErrInvalid, kind)
	}
}

// Capacity is the slot count needed for maxForks never-merged origins.
func Capacity(maxForks int) int { return 2*maxForks + 3 }

func validate(length, maxForks int) error {
	if length <= 0 {
		return fmt.Errorf("%w: genome length %d must be > 0", ErrInvalid, length)
	}
	if maxForks <= 0 {
		return fmt.Errorf("%w: max forks %d must be > 0", ErrInvalid, maxForks)
	}
	return nil
}

func domainError(pos, length int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrDomain, pos, length)
}
