// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"repsim/internal/output"
	"repsim/internal/version"
)

// Handlers are the actions behind each subcommand. The CLI only parses and
// validates; app owns execution and exit codes.
type Handlers struct {
	Run   func(ctx context.Context, opt RunOptions) error
	Query func(ctx context.Context, opt QueryOptions) error
	Sweep func(ctx context.Context, opt SweepOptions) error
}

// NewRootCommand builds the repsim command tree writing help and version
// text to stdout.
func NewRootCommand(h Handlers, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "repsim",
		Short: "Stochastic DNA replication simulator",
		Long: `repsim simulates replication of a single chromosome: a random G phase gate,
then origins firing at random unreplicated positions, forks growing
bidirectionally at a fixed rate, and converging forks merging until no gap
remains.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate("repsim version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	root.AddCommand(newRunCommand(h.Run), newQueryCommand(h.Query), newSweepCommand(h.Sweep), newVersionCommand())
	return root
}

func newRunCommand(run func(context.Context, RunOptions) error) *cobra.Command {
	var sim simFlags
	var out outFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate one chromosome until it is fully replicated",
		Example: `  repsim run
  repsim run -L 10000000 --rate 50 --seed 7 -o json
  repsim run --config sim.toml --trace trace.tsv --trace-format tsv --plot progress.png`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opt, err := runOptions(cmd.Flags(), &sim, &out)
			if err != nil {
				return err
			}
			return run(cmd.Context(), opt)
		},
	}
	sim.register(cmd.Flags())
	out.register(cmd.Flags())
	return cmd
}

func runOptions(fs *pflag.FlagSet, sim *simFlags, out *outFlags) (RunOptions, error) {
	if sim.verbose && sim.quiet {
		return RunOptions{}, usagef("--verbose and --quiet are mutually exclusive")
	}
	if err := out.validate(); err != nil {
		return RunOptions{}, err
	}
	cfg, err := sim.resolve(fs)
	if err != nil {
		return RunOptions{}, err
	}
	return RunOptions{
		Config:      cfg,
		ConfigPath:  sim.configPath,
		Output:      out.output,
		Trace:       out.trace,
		TraceFormat: out.traceFormat,
		TraceEvery:  out.traceEvery,
		MetricsFile: out.metricsFile,
		PlotFile:    out.plotFile,
		Verbose:     sim.verbose,
		Quiet:       sim.quiet,
	}, nil
}

func newQueryCommand(query func(context.Context, QueryOptions) error) *cobra.Command {
	var sim simFlags
	var afterRun bool
	cmd := &cobra.Command{
		Use:   "query POS...",
		Short: "Report whether positions are replicated",
		Long: `query builds a simulation and prints "POS<TAB>true|false" per position.
Without --after-run the track is fresh and every position is unreplicated.
Put negative positions after "--".`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("query needs at least one position")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if sim.verbose && sim.quiet {
				return usagef("--verbose and --quiet are mutually exclusive")
			}
			pos, err := parsePositions(args)
			if err != nil {
				return err
			}
			cfg, err := sim.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return query(cmd.Context(), QueryOptions{
				RunOptions: RunOptions{Config: cfg, ConfigPath: sim.configPath, Verbose: sim.verbose, Quiet: sim.quiet},
				AfterRun:   afterRun,
				Positions:  pos,
			})
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().BoolVar(&afterRun, "after-run", false, "run the simulation to completion before querying")
	return cmd
}

// parsePositions accepts any integer; range checks belong to the track.
func parsePositions(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, usagef("position %q is not an integer", a)
		}
		out = append(out, n)
	}
	return out, nil
}

func newSweepCommand(sweep func(context.Context, SweepOptions) error) *cobra.Command {
	var sim simFlags
	opt := SweepOptions{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run independent replicates with consecutive seeds",
		Long: `sweep runs --replicates simulations in parallel; replicate i uses seed+i.
One summary row per replicate is written in replicate order, so output does
not depend on --threads.`,
		Example: `  repsim sweep -L 10000000 --replicates 100 --seed 1 > sweep.tsv`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sim.verbose && sim.quiet {
				return usagef("--verbose and --quiet are mutually exclusive")
			}
			if opt.Replicates < 1 {
				return usagef("--replicates must be >= 1 (got %d)", opt.Replicates)
			}
			if opt.Threads < 0 {
				return usagef("--threads must be >= 0 (got %d)", opt.Threads)
			}
			if opt.Output != output.FormatTSV && opt.Output != output.FormatJSONL {
				return usagef("--output %q must be %s or %s", opt.Output, output.FormatTSV, output.FormatJSONL)
			}
			cfg, err := sim.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			opt.Config, opt.Verbose, opt.Quiet = cfg, sim.verbose, sim.quiet
			return sweep(cmd.Context(), opt)
		},
	}
	sim.register(cmd.Flags())
	cmd.Flags().IntVarP(&opt.Replicates, "replicates", "n", 10, "number of runs")
	cmd.Flags().IntVarP(&opt.Threads, "threads", "t", 0, "worker goroutines (0 = all CPUs)")
	cmd.Flags().StringVarP(&opt.Output, "output", "o", output.FormatTSV, "summary format: "+output.FormatTSV+" | "+output.FormatJSONL)
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "repsim version %s\n", version.Version)
			return err
		},
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}
