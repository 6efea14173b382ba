// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"repsim/internal/config"
	"repsim/internal/output"
	"repsim/internal/track"
)

// ErrUsage marks errors caused by how the command was invoked.
var ErrUsage = errors.New("usage")

func usagef(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

// RunOptions is everything `repsim run` needs after flag resolution.
type RunOptions struct {
	Config     config.Config
	ConfigPath string

	Output      string
	Trace       string // "" = off, "-" = stdout
	TraceFormat string
	TraceEvery  int
	MetricsFile string
	PlotFile    string

	Verbose bool
	Quiet   bool
}

// QueryOptions drives `repsim query`.
type QueryOptions struct {
	RunOptions
	AfterRun  bool
	Positions []int
}

// SweepOptions drives `repsim sweep`.
type SweepOptions struct {
	Config     config.Config
	Replicates int
	Threads    int // 0 = all CPUs
	Output     string

	Verbose bool
	Quiet   bool
}

// simFlags holds raw flag values before they are layered onto the config.
type simFlags struct {
	configPath    string
	genomeLength  int
	maxForks      int
	rate          int
	threshold     float64
	fireProb      float64
	seed          uint64
	layout        string
	maxAttempts   int
	maxIterations int
	verbose       bool
	quiet         bool
}

func (f *simFlags) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML config file (flags override file values)")
	fs.IntVarP(&f.genomeLength, "genome-length", "L", d.GenomeLength, "chromosome length in positions")
	fs.IntVar(&f.maxForks, "max-forks", 0, "fork budget (0 = genome length / 1.6M, at least 1)")
	fs.IntVarP(&f.rate, "rate", "r", d.ReplicationRate, "positions each fork advances per iteration")
	fs.Float64Var(&f.threshold, "threshold", d.Threshold, "G phase exit threshold in [0,1)")
	fs.Float64Var(&f.fireProb, "fire-prob", d.FireProbability, "per-candidate origin firing probability in (0,1]")
	fs.Uint64VarP(&f.seed, "seed", "s", d.Seed, "random seed")
	fs.StringVar(&f.layout, "layout", d.Layout, "track layout: "+track.KindArray+" | "+track.KindIntervals)
	fs.IntVar(&f.maxAttempts, "max-attempts", d.MaxAttempts, "candidate draws per origin before giving up")
	fs.IntVar(&f.maxIterations, "max-iterations", 0, "stop after N iterations (0 = until complete)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging on stderr")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only warnings and errors on stderr")
}

// resolve layers defaults < config file < changed flags, then validates.
func (f *simFlags) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath, cfg); err != nil {
			return config.Config{}, fmt.Errorf("%w: %w", ErrUsage, err)
		}
	}
	if fs.Changed("genome-length") {
		cfg.GenomeLength = f.genomeLength
	}
	if fs.Changed("max-forks") {
		cfg.MaxForks = f.maxForks
	}
	if fs.Changed("rate") {
		cfg.ReplicationRate = f.rate
	}
	if fs.Changed("threshold") {
		cfg.Threshold = f.threshold
	}
	if fs.Changed("fire-prob") {
		cfg.FireProbability = f.fireProb
	}
	if fs.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fs.Changed("layout") {
		cfg.Layout = strings.ToLower(strings.TrimSpace(f.layout))
	}
	if fs.Changed("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if fs.Changed("max-iterations") {
		cfg.MaxIterations = f.maxIterations
	}
	cfg = cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// outFlags are the `run`-only output switches.
type outFlags struct {
	output      string
	trace       string
	traceFormat string
	traceEvery  int
	metricsFile string
	plotFile    string
}

func (o *outFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", output.FormatText, "report format: "+strings.Join(output.ReportFormats(), " | "))
	fs.StringVar(&o.trace, "trace", "", "write per-iteration trace to FILE ('-' = stdout)")
	fs.StringVar(&o.traceFormat, "trace-format", output.FormatJSONL, "trace format: "+output.FormatJSONL+" | "+output.FormatTSV)
	fs.IntVar(&o.traceEvery, "trace-every", 1, "emit every Nth iteration to trace and plot")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to FILE")
	fs.StringVar(&o.plotFile, "plot", "", "render replication progress to FILE.png")
}

func (o *outFlags) validate() error {
	if !slices.Contains(output.ReportFormats(), o.output) {
		return usagef("--output %q must be one of %s", o.output, strings.Join(output.ReportFormats(), ", "))
	}
	if o.traceFormat != output.FormatJSONL && o.traceFormat != output.FormatTSV {
		return usagef("--trace-format %q must be %s or %s", o.traceFormat, output.FormatJSONL, output.FormatTSV)
	}
	if o.traceEvery < 1 {
		return usagef("--trace-every must be >= 1 (got %d)", o.traceEvery)
	}
	if o.trace == "-" && o.output != output.FormatText {
		// both would interleave on stdout
		return usagef("--trace - cannot be combined with --output %s", o.output)
	}
	return nil
}
