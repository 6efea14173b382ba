// pkg/api/result_v1.go
package api

// ResultV1 is the stable JSON/YAML schema for a finished (or aborted) run.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ResultV1 struct {
	RunID        string      `json:"run_id" yaml:"run_id"`
	Seed         uint64      `json:"seed" yaml:"seed"`
	Config       ConfigV1    `json:"config" yaml:"config"`
	Iterations   int         `json:"iterations" yaml:"iterations"`
	WarmupDraws  int         `json:"warmup_draws" yaml:"warmup_draws"`
	OriginsFired int         `json:"origins_fired" yaml:"origins_fired"`
	Merges       int         `json:"merges" yaml:"merges"`
	Draws        uint64      `json:"draws" yaml:"draws"`
	Complete     bool        `json:"complete" yaml:"complete"`
	Track        []int       `json:"track" yaml:"track,flow"`
	Segments     []SegmentV1 `json:"segments" yaml:"segments"`
	ElapsedMS    int64       `json:"elapsed_ms" yaml:"elapsed_ms"`
	Error        string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// ConfigV1 echoes the parameters a run used.
type ConfigV1 struct {
	GenomeLength    int     `json:"genome_length" yaml:"genome_length"`
	MaxForks        int     `json:"max_forks" yaml:"max_forks"`
	ReplicationRate int     `json:"replication_rate" yaml:"replication_rate"`
	Threshold       float64 `json:"threshold" yaml:"threshold"`
	FireProbability float64 `json:"fire_probability" yaml:"fire_probability"`
	Layout          string  `json:"layout" yaml:"layout"`
}

// SegmentV1 is one maximal run of same-status positions, [start, end).
type SegmentV1 struct {
	Start      int  `json:"start" yaml:"start"`
	End        int  `json:"end" yaml:"end"`
	Length     int  `json:"length" yaml:"length"`
	Replicated bool `json:"replicated" yaml:"replicated"`
}

// IterationV1 is one trace record (JSONL line or TSV row).
type IterationV1 struct {
	Iteration    int `json:"iteration"`
	Placed       int `json:"placed"`
	Merges       int `json:"merges"`
	Quota        int `json:"quota"`
	Replicated   int `json:"replicated"`
	Unreplicated int `json:"unreplicated"`
	Gaps         int `json:"gaps"`
	ActiveForks  int `json:"active_forks"`
}

// ReplicateV1 is one line of a sweep: a full run summarized without its track.
type ReplicateV1 struct {
	Replicate    int    `json:"replicate"`
	Seed         uint64 `json:"seed"`
	Iterations   int    `json:"iterations"`
	WarmupDraws  int    `json:"warmup_draws"`
	OriginsFired int    `json:"origins_fired"`
	Merges       int    `json:"merges"`
	Draws        uint64 `json:"draws"`
	Complete     bool   `json:"complete"`
	Error        string `json:"error,omitempty"`
}
