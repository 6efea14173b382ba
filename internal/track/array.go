// internal/track/array.go
package track

import (
	"fmt"
)

// Track is the fixed-capacity parity layout. slots[0] is the leading
// replicated run (possibly empty), slots[1] the first gap, and so on.
// The sum of all slots is always the genome length.
type Track struct {
	length   int
	maxForks int
	slots    []int
}

// New returns a fully unreplicated Track with capacity 2*maxForks+3.
func New(length, maxForks int) (*Track, error) {
	if err := validate(length, maxForks); err != nil {
		return nil, err
	}
	slots := make([]int, Capacity(maxForks))
	slots[1] = length
	return &Track{length: length, maxForks: maxForks, slots: slots}, nil
}

func (t *Track) Len() int      { return t.length }
func (t *Track) MaxForks() int { return t.maxForks }

// locate returns the index of the slot containing pos and the cumulative
// end of that slot. pos must already be in range.
func (t *Track) locate(pos int) (idx, end int) {
	for i, v := range t.slots {
		end += v
		if pos < end {
			return i, end
		}
	}
	panic(fmt.Sprintf("track: position %d past end %d (slots sum drifted)", pos, end))
}

// Contains reports whether pos has been replicated.
func (t *Track) Contains(pos int) (bool, error) {
	if pos < 0 || pos >= t.length {
		return false, domainError(pos, t.length)
	}
	idx, _ := t.locate(pos)
	return idx%2 == 0, nil
}

// IsComplete reports whether every gap slot is empty.
func (t *Track) IsComplete() bool {
	for i := 1; i < len(t.slots); i += 2 {
		if t.slots[i] != 0 {
			return false
		}
	}
	return true
}

// InsertOrigin splits the gap containing pos into
// (left remainder, 1 replicated position, right remainder).
// Running out of slots is a caller bug and panics.
func (t *Track) InsertOrigin(pos int) error {
	if pos < 0 || pos >= t.length {
		return domainError(pos, t.length)
	}
	idx, end := t.locate(pos)
	if idx%2 == 0 {
		return fmt.Errorf("%w: %d", ErrReplicated, pos)
	}
	s := t.slots
	n := len(s)
	if s[n-1] != 0 || s[n-2] != 0 {
		panic(fmt.Sprintf("track: capacity %d exhausted inserting origin at %d", n, pos))
	}
	left := pos - (end - s[idx])
	right := end - 1 - pos
	copy(s[idx+2:], s[idx:n-2])
	s[idx] = left
	s[idx+1] = 1
	s[idx+2] = right
	return nil
}

// GrowAndMerge moves up to rate positions from every gap into each occupied
// neighbor, left first, and coalesces neighbors whose gap is used up.
// Gaps are visited right to left so shifts never touch unvisited slots.
// It returns the number of merges.
func (t *Track) GrowAndMerge(rate int) int {
	if rate < 0 {
		rate = 0
	}
	s := t.slots
	merges := 0
	for i := len(s) - 2; i >= 1; i -= 2 {
		leftOcc := s[i-1] > 0
		rightOcc := s[i+1] > 0

		if s[i] > 0 {
			if leftOcc {
				m := min(s[i], rate)
				s[i-1] += m
				s[i] -= m
			}
			if rightOcc && s[i] > 0 {
				m := min(s[i], rate)
				s[i+1] += m
				s[i] -= m
			}
		}

		if s[i] == 0 && leftOcc && rightOcc {
			s[i-1] += s[i+1]
			t.collapse(i)
			merges++
		}
	}
	// A gap that reached coordinate 0 leaves an empty leading pair.
	if s[0] == 0 && s[1] == 0 {
		t.collapse(0)
	}
	return merges
}

// collapse drops slots i and i+1, shifting the tail left and zero-filling.
func (t *Track) collapse(i int) {
	s := t.slots
	n := len(s)
	copy(s[i:], s[i+2:])
	s[n-2] = 0
	s[n-1] = 0
}

func (t *Track) UnreplicatedRuns(dst []Run) []Run {
	start := 0
	for i, v := range t.slots {
		if i%2 == 1 && v > 0 {
			dst = append(dst, Run{Start: start, Len: v})
		}
		start += v
	}
	return dst
}

func (t *Track) Runs(dst []Run) []Run {
	start := 0
	for i, v := range t.slots {
		if v == 0 {
			continue
		}
		repl := i%2 == 0
		// Adjacent same-status runs only happen transiently around empty
		// slots; report them as one segment.
		if k := len(dst) - 1; k >= 0 && dst[k].Replicated == repl && dst[k].End() == start {
			dst[k].Len += v
		} else {
			dst = append(dst, Run{Start: start, Len: v, Replicated: repl})
		}
		start += v
	}
	return dst
}

func (t *Track) Slots() []int {
	out := make([]int, len(t.slots))
	copy(out, t.slots)
	return out
}

func (t *Track) Replicated() int {
	n := 0
	for i := 0; i < len(t.slots); i += 2 {
		n += t.slots[i]
	}
	return n
}

func (t *Track) Unreplicated() int { return t.length - t.Replicated() }

// ActiveForks counts fork tips: sides of non-empty gaps that border
// replicated DNA.
func (t *Track) ActiveForks() int {
	s := t.slots
	n := 0
	for i := 1; i < len(s)-1; i += 2 {
		if s[i] == 0 {
			continue
		}
		if s[i-1] > 0 {
			n++
		}
		if s[i+1] > 0 {
			n++
		}
	}
	return n
}

// Check verifies conservation and capacity.
func (t *Track) Check() error {
	if len(t.slots) != Capacity(t.maxForks) {
		return fmt.Errorf("track: %d slots, want %d", len(t.slots), Capacity(t.maxForks))
	}
	sum := 0
	for i, v := range t.slots {
		if v < 0 {
			return fmt.Errorf("track: slot %d negative (%d)", i, v)
		}
		sum += v
	}
	if sum != t.length {
		return fmt.Errorf("track: slots sum to %d, want %d", sum, t.length)
	}
	return nil
}
