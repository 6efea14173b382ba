// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"repsim/internal/cli"
	"repsim/internal/engine"
	"repsim/internal/metrics"
	"repsim/internal/output"
	"repsim/internal/plot"
	"repsim/internal/rng"
	"repsim/internal/writers"
	"repsim/pkg/api"
)

// progressEvery is how often (in iterations) progress is logged at debug.
const progressEvery = 1000

// traceBuffer is the trace channel capacity.
const traceBuffer = 256

// Simulate runs one simulation and writes its report to stdout. The engine
// runs on one goroutine and the trace writer on another; cancellation of ctx
// is observed between iterations.
func Simulate(ctx context.Context, stdout io.Writer, log *zap.Logger, o cli.RunOptions) error {
	cfg := o.Config
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID))
	log.Debug("config",
		zap.Int("genome_length", cfg.GenomeLength),
		zap.Int("max_forks", cfg.MaxForks),
		zap.Int("rate", cfg.ReplicationRate),
		zap.Float64("threshold", cfg.Threshold),
		zap.Float64("fire_probability", cfg.FireProbability),
		zap.Uint64("seed", cfg.Seed),
		zap.String("layout", cfg.Layout),
	)

	var rec *metrics.Recorder
	if o.MetricsFile != "" {
		rec = metrics.New(cfg.Layout)
	}
	var prog *plot.Progress
	if o.PlotFile != "" {
		prog = plot.NewProgress(cfg.GenomeLength, o.TraceEvery)
	}

	traceOut, closeTrace, err := openTrace(o.Trace, stdout)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	var traceCh chan<- api.IterationV1
	if traceOut != nil {
		ch, done := writers.StartTraceWriter(traceOut, o.TraceFormat, traceBuffer)
		traceCh = ch
		g.Go(func() error {
			if err := <-done; err != nil {
				return fmt.Errorf("trace: %w", err)
			}
			return nil
		})
	}

	observe := func(st engine.IterationStats) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		if rec != nil {
			rec.Observe(st)
		}
		if prog != nil {
			prog.Observe(st)
		}
		if traceCh != nil && (st.Iteration%o.TraceEvery == 0 || st.Unreplicated == 0) {
			select {
			case traceCh <- output.ToAPIIteration(st):
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		if st.Iteration%progressEvery == 0 {
			log.Debug("progress",
				zap.Int("iteration", st.Iteration),
				zap.Float64("replicated", float64(st.Replicated)/float64(cfg.GenomeLength)),
				zap.Int("gaps", st.Gaps),
				zap.Int("active_forks", st.ActiveForks),
				zap.Int("quota", st.Quota),
			)
		}
		return nil
	}

	stream := rng.New(cfg.Seed)
	start := time.Now()
	var res engine.Result
	var runErr error
	g.Go(func() error {
		if traceCh != nil {
			defer close(traceCh)
		}
		eng, err := engine.New(cfg.Engine(observe))
		if err != nil {
			return err
		}
		warm, err := eng.Gate(cfg.Threshold, stream)
		if err != nil {
			return err
		}
		log.Info("entered S phase", zap.Int("warmup_draws", warm))
		res, runErr = eng.Run(cfg.Threshold, stream)
		if errors.Is(runErr, engine.ErrIterationCap) {
			// partial result is still reported
			return nil
		}
		return runErr
	})
	werr := g.Wait()
	elapsed := time.Since(start)
	if cerr := closeTrace(); werr == nil && cerr != nil {
		werr = fmt.Errorf("trace: %w", cerr)
	}
	if werr != nil {
		return werr
	}

	if runErr != nil {
		log.Warn("run stopped early", zap.Error(runErr), zap.Int("iterations", res.Iterations))
	}
	log.Info("run finished",
		zap.Bool("complete", res.Complete),
		zap.Int("iterations", res.Iterations),
		zap.String("origins_fired", humanize.Comma(int64(res.OriginsFired))),
		zap.Int("merges", res.Merges),
		zap.String("draws", humanize.Comma(int64(stream.Draws()))),
		zap.Duration("elapsed", elapsed),
	)

	if rec != nil {
		rec.Finish(res, elapsed)
		if err := rec.WriteFile(o.MetricsFile); err != nil {
			return err
		}
	}
	if prog != nil {
		if err := prog.WriteFile(o.PlotFile); err != nil {
			return err
		}
	}

	report := output.ToAPIResult(res, output.RunMeta{
		RunID:   runID,
		Config:  cfg,
		Draws:   stream.Draws(),
		Elapsed: elapsed,
		Err:     runErr,
	})
	outw := bufio.NewWriter(stdout)
	if err := output.WriteReport(o.Output, outw, report); err != nil {
		return err
	}
	if err := outw.Flush(); err != nil {
		return err
	}
	return runErr
}

// openTrace resolves the trace destination: "" disables it, "-" shares
// stdout, anything else is created as a file.
func openTrace(path string, stdout io.Writer) (io.Writer, func() error, error) {
	switch path {
	case "":
		return nil, func() error { return nil }, nil
	case "-":
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("trace: %w", err)
	}
	return f, f.Close, nil
}
