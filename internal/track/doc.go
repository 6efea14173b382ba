// Package track holds the replication state of one chromosome: which of the
// positions in [0, L) have been replicated, stored as alternating run lengths.
//
// It is domain-only. It never draws random numbers and never logs; the
// origin sampler and the engine drive it.
package track
