// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"repsim/internal/engine"
	"repsim/internal/track"
)

// BasesPerFork sizes the automatic fork cap: one fork pair per 1.6 Mb.
const BasesPerFork = 1_600_000

var ErrInvalid = errors.New("invalid config")

// Config is the full set of simulation parameters a host supplies.
type Config struct {
	GenomeLength    int
	MaxForks        int // 0 = GenomeLength/BasesPerFork (at least 1)
	ReplicationRate int
	Threshold       float64
	FireProbability float64
	Seed            uint64
	Layout          string
	MaxAttempts     int
	MaxIterations   int
}

// Default returns the reference parameters.
func Default() Config {
	return Config{
		GenomeLength:    500_000_000,
		ReplicationRate: 50,
		Threshold:       0.9,
		FireProbability: 0.1,
		Seed:            1701,
		Layout:          track.KindArray,
		MaxAttempts:     1_000_000,
	}
}

type fileConfig struct {
	GenomeLength    int     `toml:"genome_length"`
	MaxForks        int     `toml:"max_forks"`
	ReplicationRate int     `toml:"replication_rate"`
	Threshold       float64 `toml:"threshold"`
	FireProbability float64 `toml:"fire_probability"`
	Seed            int64   `toml:"seed"`
	Layout          string  `toml:"layout"`
	MaxAttempts     int     `toml:"max_attempts"`
	MaxIterations   int     `toml:"max_iterations"`
}

// Load overlays the keys present in the TOML file at path onto base.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Load(path string, base Config) (Config, error) {
	cfg := base

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		keys := make([]string, 0, len(und))
		for _, k := range und {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalid, path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("genome_length") {
		cfg.GenomeLength = raw.GenomeLength
	}
	if meta.IsDefined("max_forks") {
		cfg.MaxForks = raw.MaxForks
	}
	if meta.IsDefined("replication_rate") {
		cfg.ReplicationRate = raw.ReplicationRate
	}
	if meta.IsDefined("threshold") {
		cfg.Threshold = raw.Threshold
	}
	if meta.IsDefined("fire_probability") {
		cfg.FireProbability = raw.FireProbability
	}
	if meta.IsDefined("seed") {
		if raw.Seed < 0 {
			return Config{}, fmt.Errorf("%w: seed %d must be >= 0", ErrInvalid, raw.Seed)
		}
		cfg.Seed = uint64(raw.Seed)
	}
	if meta.IsDefined("layout") {
		cfg.Layout = strings.TrimSpace(raw.Layout)
	}
	if meta.IsDefined("max_attempts") {
		cfg.MaxAttempts = raw.MaxAttempts
	}
	if meta.IsDefined("max_iterations") {
		cfg.MaxIterations = raw.MaxIterations
	}
	return cfg, nil
}

// Resolve fills derived values.
func (c Config) Resolve() Config {
	if c.MaxForks == 0 && c.GenomeLength > 0 {
		c.MaxForks = max(1, c.GenomeLength/BasesPerFork)
	}
	if c.Layout == "" {
		c.Layout = track.KindArray
	}
	return c
}

// Validate checks a resolved config.
func (c Config) Validate() error {
	var errs []error
	if c.GenomeLength <= 0 {
		errs = append(errs, fmt.Errorf("genome_length %d must be > 0", c.GenomeLength))
	}
	if c.MaxForks <= 0 {
		errs = append(errs, fmt.Errorf("max_forks %d must be > 0", c.MaxForks))
	}
	if c.ReplicationRate <= 0 {
		errs = append(errs, fmt.Errorf("replication_rate %d must be > 0", c.ReplicationRate))
	}
	if c.Threshold < 0 || c.Threshold >= 1 {
		errs = append(errs, fmt.Errorf("threshold %g must be in [0,1)", c.Threshold))
	}
	if c.FireProbability <= 0 || c.FireProbability > 1 {
		errs = append(errs, fmt.Errorf("fire_probability %g must be in (0,1]", c.FireProbability))
	}
	if c.Layout != track.KindArray && c.Layout != track.KindIntervals {
		errs = append(errs, fmt.Errorf("layout %q must be %s or %s", c.Layout, track.KindArray, track.KindIntervals))
	}
	if c.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max_attempts %d must be >= 0", c.MaxAttempts))
	}
	if c.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max_iterations %d must be >= 0", c.MaxIterations))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Engine maps the config onto engine parameters. obs may be nil.
func (c Config) Engine(obs func(engine.IterationStats) error) engine.Config {
	return engine.Config{
		GenomeLength:    c.GenomeLength,
		MaxForks:        c.MaxForks,
		Rate:            c.ReplicationRate,
		FireProbability: c.FireProbability,
		MaxAttempts:     c.MaxAttempts,
		MaxIterations:   c.MaxIterations,
		Layout:          c.Layout,
		Observer:        obs,
	}
}
