// Package writers streams trace records and sweep summaries to an io.Writer
// from a dedicated goroutine, so simulations never block on formatting.
//
// Design:
//   - Writers own presentation (JSONL, TSV); the engine stays domain-only.
//   - Records arrive as pkg/api values for a stable wire format.
//   - A closed or broken downstream pipe (e.g. `| head`) is not an error.
package writers
