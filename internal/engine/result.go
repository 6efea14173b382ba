// internal/engine/result.go
package engine

import "repsim/internal/track"

// IterationStats describes the track after one replicating iteration.
type IterationStats struct {
	Iteration    int
	Placed       int // origins fired this iteration
	Merges       int // merge events this iteration
	Quota        int // quota after refunds
	Replicated   int
	Unreplicated int
	Gaps         int
	ActiveForks  int
}

// Result is the outcome of Run.
type Result struct {
	Track        []int // final parity-layout slots
	Segments     []track.Run
	Iterations   int
	WarmupDraws  int // G-phase draws including the one that left G
	OriginsFired int
	Merges       int
	Complete     bool
}
