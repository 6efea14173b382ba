// Package engine drives one simulated S phase: it holds the G→S gate, the
// replication track and the fork quota, and loops origin placement and
// fork growth until the chromosome is fully replicated. It never imports
// app, writers, cli or config; keep it domain-only.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/YAML v1).
package engine
