// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"
)

// Config controls the replicate pool.
type Config struct {
	Threads    int    // number of worker goroutines (>=1)
	Replicates int    // number of runs
	FirstSeed  uint64 // replicate i uses FirstSeed+i
}

// ForEachReplicate runs cfg.Replicates simulations and calls visit once per
// replicate in index order, independent of Threads. It returns the first
// error encountered (including context cancellation).
func ForEachReplicate(
	ctx context.Context,
	cfg Config,
	sim Simulator,
	visit func(Replicate) error,
) error {
	if cfg.Threads < 1 {
		cfg.Threads = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		rep Replicate
		err error
	}
	jobs := make(chan int, cfg.Threads*2)
	results := make(chan result, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					rep, err := sim.Simulate(ctx, i, cfg.FirstSeed+uint64(i))
					rep.Index = i
					select {
					case results <- result{rep, err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Collector + reorder buffer
	var (
		cerr error
		cwg  sync.WaitGroup
	)
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		pending := make(map[int]Replicate, cfg.Threads)
		next := 0
		for r := range results {
			if cerr != nil {
				continue
			}
			if r.err != nil {
				cerr = r.err
				cancel()
				continue
			}
			pending[r.rep.Index] = r.rep
			for {
				rep, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if err := visit(rep); err != nil {
					cerr = err
					cancel()
					break
				}
			}
		}
	}()

	// Feed work
feed:
	for i := 0; i < cfg.Replicates; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}

	close(jobs)
	wg.Wait()
	close(results)
	cwg.Wait()

	if cerr != nil {
		return cerr
	}
	return ctx.Err()
}
