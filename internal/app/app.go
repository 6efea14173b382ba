// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"repsim/internal/appcore"
	"repsim/internal/cli"
	"repsim/internal/config"
	"repsim/internal/engine"
	"repsim/internal/logging"
	"repsim/internal/track"
	"repsim/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// RunContext executes the repsim command tree with argv and returns the
// process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCommand(cli.Handlers{
		Run: func(ctx context.Context, o cli.RunOptions) error {
			log := logging.New(stderr, o.Verbose, o.Quiet)
			defer func() { _ = log.Sync() }()
			return appcore.Simulate(ctx, stdout, log, o)
		},
		Query: func(ctx context.Context, o cli.QueryOptions) error {
			log := logging.New(stderr, o.Verbose, o.Quiet)
			defer func() { _ = log.Sync() }()
			return appcore.Query(ctx, stdout, stderr, log, o)
		},
		Sweep: func(ctx context.Context, o cli.SweepOptions) error {
			log := logging.New(stderr, o.Verbose, o.Quiet)
			defer func() { _ = log.Sync() }()
			return appcore.Sweep(ctx, stdout, log, o)
		},
	}, stdout, stderr)

	if argv == nil {
		argv = []string{}
	}
	root.SetArgs(argv)
	err := root.ExecuteContext(parent)

	code := ExitCode(err)
	switch code {
	case ExitOK:
	case ExitCanceled:
		_, _ = fmt.Fprintln(stderr, "repsim: interrupted")
	case ExitUsage:
		_, _ = fmt.Fprintf(stderr, "repsim: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			_, _ = fmt.Fprintln(stderr, "Run 'repsim --help' for usage.")
		}
	default:
		_, _ = fmt.Fprintf(stderr, "repsim: %v\n", err)
	}
	return code
}

// ExitCode maps an error from the command tree onto the exit code convention:
// 0 success (or a closed downstream pipe), 2 usage and configuration,
// 130 cancellation, 3 everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.Is(err, cli.ErrUsage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, engine.ErrConfig),
		errors.Is(err, engine.ErrThreshold),
		errors.Is(err, track.ErrDomain):
		return ExitUsage
	default:
		return ExitRuntime
	}
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
