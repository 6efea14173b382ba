package phase

import (
	"math"
	"testing"

	"repsim/internal/rng"
)

type fixed []float64

func (f *fixed) Float64() float64 {
	v := (*f)[0]
	*f = (*f)[1:]
	return v
}

func (f *fixed) IntN(int) int { panic("gate must not draw integers") }

func TestAdvanceTransitionsOnce(t *testing.T) {
	src := &fixed{0.2, 0.9, 0.95}
	var g Gate
	if g.Phase() != Growth {
		t.Fatalf("initial phase %v", g.Phase())
	}
	// 0.2 and 0.9 do not exceed 0.9
	if g.Advance(src, 0.9) || g.Advance(src, 0.9) {
		t.Fatal("transitioned too early")
	}
	if !g.Advance(src, 0.9) {
		t.Fatal("0.95 > 0.9 should transition")
	}
	if g.Phase() != Synthesis || g.Iterations() != 2 {
		t.Fatalf("phase=%v iterations=%d", g.Phase(), g.Iterations())
	}
	// terminal: no further draws
	for i := 0; i < 3; i++ {
		if !g.Advance(src, 0.9) {
			t.Fatal("reverted to G")
		}
	}
	if len(*src) != 0 || g.Iterations() != 2 {
		t.Fatalf("left=%d iterations=%d", len(*src), g.Iterations())
	}
}

func TestZeroThresholdLeavesOnFirstPositiveDraw(t *testing.T) {
	src := &fixed{0, 0.5}
	var g Gate
	if g.Advance(src, 0) {
		t.Fatal("draw of exactly 0 must not exceed threshold 0")
	}
	if !g.Advance(src, 0) {
		t.Fatal("0.5 > 0 should transition")
	}
}

func TestWaitingTimeIsGeometric(t *testing.T) {
	const (
		trials    = 20000
		threshold = 0.9
	)
	src := rng.New(1701)
	total := 0
	for i := 0; i < trials; i++ {
		var g Gate
		for !g.Advance(src, threshold) {
		}
		total += g.Iterations()
	}
	// failures before success: mean threshold/(1-threshold) = 9
	mean := float64(total) / trials
	if math.Abs(mean-9) > 0.5 {
		t.Fatalf("mean failed draws %.2f, want about 9", mean)
	}
}

func TestString(t *testing.T) {
	if Growth.String() != "G" || Synthesis.String() != "S" || Phase(7).String() != "?" {
		t.Fatal("unexpected phase names")
	}
}
