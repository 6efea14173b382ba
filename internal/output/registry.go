// internal/output/registry.go
package output

import (
	"fmt"
	"io"
	"sort"

	"repsim/pkg/api"
)

// Reporters maps a report format to its renderer.
var Reporters = map[string]func(io.Writer, api.ResultV1) error{
	FormatText: WriteText,
	FormatJSON: WriteJSON,
	FormatYAML: WriteYAML,
}

// ReportFormats lists registered report formats, sorted.
func ReportFormats() []string {
	out := make([]string, 0, len(Reporters))
	for k := range Reporters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteReport dispatches to the renderer registered for format.
func WriteReport(format string, w io.Writer, r api.ResultV1) error {
	fn, ok := Reporters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, r)
}
