// internal/appcore/sweep.go
package appcore

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"go.uber.org/zap"

	"repsim/internal/cli"
	"repsim/internal/cmdutil"
	"repsim/internal/output"
	"repsim/internal/pipeline"
	"repsim/internal/writers"
	"repsim/pkg/api"
)

// Sweep runs o.Replicates simulations on a worker pool and streams one
// summary per replicate to stdout in replicate order.
func Sweep(parent context.Context, stdout io.Writer, log *zap.Logger, o cli.SweepOptions) error {
	cfg := o.Config
	thr := o.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}

	inCh, writeErr := writers.StartReplicateWriter(stdout, o.Output, thr*4)
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		failed   int
		complete int
		iterSum  int
		iterMin  = -1
		iterMax  int
	)
	start := time.Now()
	total, perr := cmdutil.RunStream(
		ctx,
		pipeline.Config{Threads: thr, Replicates: o.Replicates, FirstSeed: cfg.Seed},
		pipeline.Engines{Config: cfg.Engine(nil), Threshold: cfg.Threshold},
		func(r pipeline.Replicate) (bool, api.ReplicateV1, error) {
			if r.Err != nil {
				failed++
				log.Warn("replicate failed", zap.Int("replicate", r.Index), zap.Uint64("seed", r.Seed), zap.Error(r.Err))
			}
			if r.Result.Complete {
				complete++
				it := r.Result.Iterations
				iterSum += it
				iterMax = max(iterMax, it)
				if iterMin < 0 || it < iterMin {
					iterMin = it
				}
			}
			log.Debug("replicate done", zap.Int("replicate", r.Index), zap.Int("iterations", r.Result.Iterations))
			return true, output.ToAPIReplicate(r.Index, r.Seed, r.Result, r.Draws, r.Err), nil
		},
		func(v api.ReplicateV1) error {
			select {
			case inCh <- v:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)
	close(inCh)
	if werr := <-writeErr; werr != nil {
		return werr
	}
	if perr != nil {
		return perr
	}

	fields := []zap.Field{
		zap.Int("replicates", total),
		zap.Int("complete", complete),
		zap.Int("threads", thr),
		zap.Duration("elapsed", time.Since(start)),
	}
	if complete > 0 {
		fields = append(fields,
			zap.Float64("iterations_mean", float64(iterSum)/float64(complete)),
			zap.Int("iterations_min", iterMin),
			zap.Int("iterations_max", iterMax),
		)
	}
	log.Info("sweep finished", fields...)

	if failed > 0 {
		return fmt.Errorf("%d of %d replicates did not complete", failed, total)
	}
	return nil
}
