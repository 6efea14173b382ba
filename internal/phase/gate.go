// internal/phase/gate.go
package phase

import "repsim/internal/rng"

// Phase is the cell-cycle state relevant to replication.
type Phase uint8

const (
	Growth Phase = iota
	Synthesis
)

func (p Phase) String() string {
	switch p {
	case Growth:
		return "G"
	case Synthesis:
		return "S"
	default:
		return "?"
	}
}

// Gate models the wait in G phase as a geometric trial: each Advance draws
// once and leaves G when the draw exceeds the threshold. S is terminal.
type Gate struct {
	phase Phase
	iters int
}

// Phase returns the current phase.
func (g *Gate) Phase() Phase { return g.phase }

// Iterations returns how many draws failed to trigger the transition.
func (g *Gate) Iterations() int { return g.iters }

// Advance reports whether the cell is in S after this call. In S it returns
// true without consuming a draw.
func (g *Gate) Advance(src rng.Source, threshold float64) bool {
	if g.phase == Synthesis {
		return true
	}
	if src.Float64() > threshold {
		g.phase = Synthesis
		return true
	}
	g.iters++
	return false
}
