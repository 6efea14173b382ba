package origin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repsim/internal/rng"
	"repsim/internal/track"
)

// script replays fixed draws and records how many were taken.
type script struct {
	ints   []int
	floats []float64
	n      int
}

func (s *script) IntN(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	s.n++
	return v % n
}

func (s *script) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	s.n++
	return v
}

func TestNoGapReturnsFalseWithoutDrawing(t *testing.T) {
	tr, err := track.New(10, 1)
	require.NoError(t, err)
	require.NoError(t, tr.InsertOrigin(0))
	for !tr.IsComplete() {
		tr.GrowAndMerge(5)
	}
	src := &script{}
	ok, err := New(0, 0).SampleAndPlace(tr, src)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, src.n)
}

func TestWeightedPickThenOffset(t *testing.T) {
	tr, err := track.New(11, 2)
	require.NoError(t, err)
	require.NoError(t, tr.InsertOrigin(2)) // gaps [0,2) and [3,11)

	// 5 of total 10 lands in the second gap; offset 4 -> position 7
	src := &script{ints: []int{5, 4}, floats: []float64{0.95}}
	s := New(0.1, 10)
	ok, err := s.SampleAndPlace(tr, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, s.Attempts())
	assert.Equal(t, []int{0, 2, 1, 4, 1, 3, 0}, tr.Slots())
}

func TestRejectedCandidatesAreRedrawn(t *testing.T) {
	tr, err := track.New(100, 1)
	require.NoError(t, err)
	src := &script{
		ints:   []int{0, 10, 0, 20, 0, 30},
		floats: []float64{0.5, 0.9, 0.91},
	}
	s := New(0.1, 10)
	ok, err := s.SampleAndPlace(tr, src)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, s.Attempts())
	got, err := tr.Contains(30)
	require.NoError(t, err)
	assert.True(t, got, "third candidate should have fired")
	assert.Equal(t, 9, src.n)
}

func TestRetryCap(t *testing.T) {
	tr, err := track.New(100, 1)
	require.NoError(t, err)
	src := &script{
		ints:   []int{0, 1, 0, 2, 0, 3},
		floats: []float64{0.1, 0.2, 0.3},
	}
	ok, err := New(0.1, 3).SampleAndPlace(tr, src)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, ErrRetryCap), "got %v", err)
	assert.Equal(t, []int{0, 100, 0, 0, 0}, tr.Slots())
}

func TestCertainFireNeverRejects(t *testing.T) {
	tr, err := track.New(1000, 4)
	require.NoError(t, err)
	src := rng.New(9)
	s := New(1, 1)
	for i := 0; i < 4; i++ {
		ok, err := s.SampleAndPlace(tr, src)
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 4, tr.Replicated())
}

func TestWeightsFollowGapLength(t *testing.T) {
	gaps := []track.Run{{Start: 0, Len: 9}, {Start: 10, Len: 90}}
	src := rng.New(1701)
	const n = 50000
	small := 0
	for i := 0; i < n; i++ {
		if weightedIndex(gaps, src) == 0 {
			small++
		}
	}
	frac := float64(small) / n
	assert.InDelta(t, 9.0/99.0, frac, 0.01)
}
