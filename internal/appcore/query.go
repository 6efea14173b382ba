// internal/appcore/query.go
package appcore

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"repsim/internal/cli"
	"repsim/internal/engine"
	"repsim/internal/rng"
	"repsim/internal/track"
)

// Query prints "POS\ttrue|false" for every in-range position. Out-of-range
// positions get an error line on stderr and make the call fail with
// track.ErrDomain after all positions are answered.
func Query(ctx context.Context, stdout, stderr io.Writer, log *zap.Logger, o cli.QueryOptions) error {
	cfg := o.Config
	eng, err := engine.New(cfg.Engine(func(engine.IterationStats) error { return ctx.Err() }))
	if err != nil {
		return err
	}
	if o.AfterRun {
		stream := rng.New(cfg.Seed)
		res, err := eng.Run(cfg.Threshold, stream)
		if err != nil {
			return err
		}
		log.Debug("simulation done", zap.Int("iterations", res.Iterations), zap.Bool("complete", res.Complete))
	}

	outw := bufio.NewWriter(stdout)
	bad := 0
	for _, p := range o.Positions {
		ok, err := eng.Contains(p)
		if err != nil {
			bad++
			fmt.Fprintf(stderr, "repsim: query: %v\n", err)
			continue
		}
		fmt.Fprintf(outw, "%d\t%t\n", p, ok)
	}
	if err := outw.Flush(); err != nil {
		return err
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d positions rejected: %w", bad, len(o.Positions), track.ErrDomain)
	}
	return nil
}
