// internal/output/convert.go
package output

import (
	"time"

	"repsim/internal/config"
	"repsim/internal/engine"
	"repsim/pkg/api"
)

// RunMeta carries what the engine does not know about its own run.
type RunMeta struct {
	RunID   string
	Config  config.Config
	Draws   uint64
	Elapsed time.Duration
	Err     error
}

// ToAPIResult converts a domain Result to the stable wire schema (v1).
func ToAPIResult(r engine.Result, m RunMeta) api.ResultV1 {
	v := api.ResultV1{
		RunID: m.RunID,
		Seed:  m.Config.Seed,
		Config: api.ConfigV1{
			GenomeLength:    m.Config.GenomeLength,
			MaxForks:        m.Config.MaxForks,
			ReplicationRate: m.Config.ReplicationRate,
			Threshold:       m.Config.Threshold,
			FireProbability: m.Config.FireProbability,
			Layout:          m.Config.Layout,
		},
		Iterations:   r.Iterations,
		WarmupDraws:  r.WarmupDraws,
		OriginsFired: r.OriginsFired,
		Merges:       r.Merges,
		Draws:        m.Draws,
		Complete:     r.Complete,
		Track:        append([]int(nil), r.Track...),
		Segments:     make([]api.SegmentV1, 0, len(r.Segments)),
		ElapsedMS:    m.Elapsed.Milliseconds(),
	}
	for _, s := range r.Segments {
		v.Segments = append(v.Segments, api.SegmentV1{
			Start: s.Start, End: s.End(), Length: s.Len, Replicated: s.Replicated,
		})
	}
	if m.Err != nil {
		v.Error = m.Err.Error()
	}
	return v
}

// ToAPIIteration converts per-iteration stats to a trace record.
func ToAPIIteration(st engine.IterationStats) api.IterationV1 {
	return api.IterationV1{
		Iteration:    st.Iteration,
		Placed:       st.Placed,
		Merges:       st.Merges,
		Quota:        st.Quota,
		Replicated:   st.Replicated,
		Unreplicated: st.Unreplicated,
		Gaps:         st.Gaps,
		ActiveForks:  st.ActiveForks,
	}
}

// ToAPIReplicate converts a sweep replicate to its summary record.
func ToAPIReplicate(index int, seed uint64, r engine.Result, draws uint64, err error) api.ReplicateV1 {
	v := api.ReplicateV1{
		Replicate:    index,
		Seed:         seed,
		Iterations:   r.Iterations,
		WarmupDraws:  r.WarmupDraws,
		OriginsFired: r.OriginsFired,
		Merges:       r.Merges,
		Draws:        draws,
		Complete:     r.Complete,
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}
