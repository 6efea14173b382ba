package output

// Report and trace formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatJSONL = "jsonl"
	FormatTSV   = "tsv"
)

// TSVHeader is the canonical header row for TSV traces.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "iteration\tplaced\tmerges\tquota\treplicated\tunreplicated\tgaps\tactive_forks"

// ReplicateTSVHeader is the header row for sweep summaries.
const ReplicateTSVHeader = "replicate\tseed\titerations\twarmup_draws\torigins_fired\tmerges\tdraws\tcomplete\terror"
