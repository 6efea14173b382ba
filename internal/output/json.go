// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"repsim/pkg/api"
)

// WriteJSON writes r as indented JSON (v1 schema).
func WriteJSON(w io.Writer, r api.ResultV1) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
