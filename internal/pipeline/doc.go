// Package pipeline runs independent replicate simulations across a pool of
// workers and hands results to a visit callback in replicate order.
//
// The only contract to implement is Simulator (Simulate).
// This keeps the pipeline swappable and testable.
package pipeline
