// internal/output/yaml.go
package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"repsim/pkg/api"
)

// WriteYAML writes r as a YAML document (v1 schema).
func WriteYAML(w io.Writer, r api.ResultV1) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
