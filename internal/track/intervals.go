// internal/track/intervals.go
package track

import (
	"fmt"
	"sort"
)

// span is a half-open unreplicated interval [lo, hi). Empty spans are kept
// until the next GrowAndMerge so merge accounting matches the array layout.
type span struct{ lo, hi int }

func (s span) len() int { return s.hi - s.lo }

// Intervals stores the unreplicated complement as sorted disjoint spans.
// It trades the array's slot shifting for slice splicing and answers
// Contains by binary search.
type Intervals struct {
	length   int
	maxForks int
	gaps     []span
}

// NewIntervals returns a fully unreplicated interval-set track.
func NewIntervals(length, maxForks int) (*Intervals, error) {
	if err := validate(length, maxForks); err != nil {
		return nil, err
	}
	gaps := make([]span, 1, maxForks+1)
	gaps[0] = span{0, length}
	return &Intervals{length: length, maxForks: maxForks, gaps: gaps}, nil
}

func (t *Intervals) Len() int      { return t.length }
func (t *Intervals) MaxForks() int { return t.maxForks }

// find returns the index of the gap containing pos, or -1.
func (t *Intervals) find(pos int) int {
	i := sort.Search(len(t.gaps), func(i int) bool { return t.gaps[i].hi > pos })
	if i < len(t.gaps) && t.gaps[i].lo <= pos {
		return i
	}
	return -1
}

func (t *Intervals) Contains(pos int) (bool, error) {
	if pos < 0 || pos >= t.length {
		return false, domainError(pos, t.length)
	}
	return t.find(pos) < 0, nil
}

func (t *Intervals) IsComplete() bool {
	for _, g := range t.gaps {
		if g.len() > 0 {
			return false
		}
	}
	return true
}

func (t *Intervals) InsertOrigin(pos int) error {
	if pos < 0 || pos >= t.length {
		return domainError(pos, t.length)
	}
	i := t.find(pos)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrReplicated, pos)
	}
	used := len(t.gaps)
	if last := t.gaps[used-1]; last.len() == 0 && last.hi == t.length {
		// an exhausted trailing gap is padding in the array layout
		t.gaps = t.gaps[:used-1]
		used--
	}
	if used >= t.maxForks+1 {
		panic(fmt.Sprintf("track: interval capacity %d exhausted inserting origin at %d", t.maxForks+1, pos))
	}
	g := t.gaps[i]
	t.gaps = append(t.gaps, span{})
	copy(t.gaps[i+2:], t.gaps[i+1:])
	t.gaps[i] = span{g.lo, pos}
	t.gaps[i+1] = span{pos + 1, g.hi}
	return nil
}

// GrowAndMerge mirrors Track.GrowAndMerge: a gap has a left neighbor unless
// it starts at 0 and a right neighbor unless it ends at the genome length.
func (t *Intervals) GrowAndMerge(rate int) int {
	if rate < 0 {
		rate = 0
	}
	merges := 0
	for i := len(t.gaps) - 1; i >= 0; i-- {
		g := &t.gaps[i]
		hasLeft := g.lo > 0
		hasRight := g.hi < t.length

		if g.len() > 0 {
			if hasLeft {
				g.lo += min(g.len(), rate)
			}
			if hasRight && g.len() > 0 {
				g.hi -= min(g.len(), rate)
			}
		}
		if g.len() > 0 {
			continue
		}
		if hasLeft && hasRight {
			merges++
		}
		t.gaps = append(t.gaps[:i], t.gaps[i+1:]...)
	}
	return merges
}

func (t *Intervals) UnreplicatedRuns(dst []Run) []Run {
	for _, g := range t.gaps {
		if g.len() > 0 {
			dst = append(dst, Run{Start: g.lo, Len: g.len()})
		}
	}
	return dst
}

func (t *Intervals) Runs(dst []Run) []Run {
	at := 0
	for _, g := range t.gaps {
		if g.len() == 0 {
			continue
		}
		if g.lo > at {
			dst = append(dst, Run{Start: at, Len: g.lo - at, Replicated: true})
		}
		dst = append(dst, Run{Start: g.lo, Len: g.len()})
		at = g.hi
	}
	if at < t.length {
		dst = append(dst, Run{Start: at, Len: t.length - at, Replicated: true})
	}
	return dst
}

// Slots reconstructs the parity layout the array representation would hold.
func (t *Intervals) Slots() []int {
	out := make([]int, Capacity(t.maxForks))
	at, k := 0, 0
	for _, g := range t.gaps {
		out[k] = g.lo - at
		out[k+1] = g.len()
		at = g.hi
		k += 2
	}
	out[k] = t.length - at
	return out
}

func (t *Intervals) Unreplicated() int {
	n := 0
	for _, g := range t.gaps {
		n += g.len()
	}
	return n
}

func (t *Intervals) Replicated() int { return t.length - t.Unreplicated() }

func (t *Intervals) ActiveForks() int {
	n := 0
	for _, g := range t.gaps {
		if g.len() == 0 {
			continue
		}
		if g.lo > 0 {
			n++
		}
		if g.hi < t.length {
			n++
		}
	}
	return n
}

func (t *Intervals) Check() error {
	if len(t.gaps) > t.maxForks+1 {
		return fmt.Errorf("track: %d gaps exceed capacity %d", len(t.gaps), t.maxForks+1)
	}
	prev := 0
	for i, g := range t.gaps {
		if g.lo < prev || g.hi < g.lo || g.hi > t.length {
			return fmt.Errorf("track: gap %d [%d,%d) out of order", i, g.lo, g.hi)
		}
		prev = g.hi
	}
	return nil
}
