// Package config parses and validates the mpcalc command line.
//
// Values are resolved with the priority: command-line flags, then MPCALC_
// environment variables, then the TOML config file, then built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/mpfr"
)

// EnvPrefix is the prefix of every environment variable mpcalc reads.
const EnvPrefix = "MPCALC_"

// Defaults.
const (
	DefaultPrec    = 53
	DefaultMode    = "RNDN"
	DefaultPolicy  = "report"
	DefaultFormat  = "text"
	DefaultTimeout = time.Minute
)

// Operations accepted as positional arguments.
var Operations = []string{"add", "sub", "mul"}

// CompletionShells lists the shells -completion can generate for.
var CompletionShells = []string{"bash", "zsh", "fish"}

// AppConfig is the resolved configuration of one mpcalc run.
type AppConfig struct {
	Prec   uint
	Mode   string
	Kernel string
	EMin   int
	EMax   int
	Policy string
	Format string

	Verbose bool
	Quiet   bool
	NoColor bool
	Timeout time.Duration

	ConfigFile string

	// Batch is a job file, "-" for stdin.
	Batch string
	// Compare lists the kernels a batch is run on, comma separated, or "all".
	Compare string
	// Verify is the number of random operations checked against the
	// reference kernel.
	Verify  int
	Seed    uint64
	Workers int

	REPL        bool
	Info        bool
	Completion  string
	PrintConfig bool
	Version     bool

	// Metrics is a file the Prometheus exposition is written to on exit,
	// "-" for stdout.
	Metrics string
	// MetricsAddr serves /metrics over HTTP for the duration of the run.
	MetricsAddr string

	// Args holds the positional arguments: op a b.
	Args []string
}

// ParseConfig parses args into an AppConfig, applies the config file and
// environment overrides, and validates the result. Usage output goes to
// errorWriter. flag.ErrHelp is returned unchanged for -h.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableKernels []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	cfg := AppConfig{}

	fs.UintVar(&cfg.Prec, "prec", DefaultPrec, "Precision of the result in bits (1-64).")
	fs.UintVar(&cfg.Prec, "p", DefaultPrec, "Shorthand for -prec.")
	fs.StringVar(&cfg.Mode, "mode", DefaultMode, "Rounding mode: RNDN, RNDZ, RNDU, RNDD or RNDA.")
	fs.StringVar(&cfg.Mode, "r", DefaultMode, "Shorthand for -mode.")
	fs.StringVar(&cfg.Kernel, "kernel", mpfr.Auto, fmt.Sprintf("Arithmetic kernel: auto, %s.", strings.Join(availableKernels, ", ")))
	fs.IntVar(&cfg.EMin, "emin", int(mpfr.DefaultRange.EMin), "Smallest allowed exponent.")
	fs.IntVar(&cfg.EMax, "emax", int(mpfr.DefaultRange.EMax), "Largest allowed exponent.")
	fs.StringVar(&cfg.Policy, "policy", DefaultPolicy, "Out-of-range results: 'report' fails, 'saturate' stores Inf, zero or the extreme finite value.")
	fs.StringVar(&cfg.Format, "format", DefaultFormat, "Output format: text or json.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose output (kernel, flags, timings).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output (kernel, flags, timings).")
	fs.BoolVar(&cfg.Quiet, "q", false, "Print only the result.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 5m).")
	fs.StringVar(&cfg.ConfigFile, "config", "", "TOML configuration file.")
	fs.StringVar(&cfg.Batch, "batch", "", "Evaluate the jobs in FILE ('-' for stdin).")
	fs.StringVar(&cfg.Compare, "compare", "", "Kernels to cross-check in batch mode: comma separated, or 'all'.")
	fs.IntVar(&cfg.Verify, "verify", 0, "Check N random operations against the math/big reference kernel.")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Seed for -verify (0 picks one).")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent workers for -batch and -verify (0 = auto).")
	fs.BoolVar(&cfg.REPL, "repl", false, "Start an interactive session.")
	fs.BoolVar(&cfg.Info, "info", false, "Show kernels, CPU features and host information.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for SHELL (bash, zsh, fish).")
	fs.BoolVar(&cfg.PrintConfig, "print-config", false, "Print the effective configuration as TOML.")
	fs.BoolVar(&cfg.Version, "version", false, "Print the version.")
	fs.StringVar(&cfg.Metrics, "metrics", "", "Write Prometheus metrics to FILE on exit ('-' for stdout).")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on ADDR while running.")

	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] add|sub|mul A B\n       %s [flags] -batch FILE | -verify N | -repl | -info\n\nFlags:\n", programName, programName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	cfg.Args = fs.Args()

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = getEnvString("CONFIG", "")
	}
	if cfg.ConfigFile != "" {
		if err := applyFileConfig(&cfg, fs, cfg.ConfigFile); err != nil {
			return AppConfig{}, err
		}
	}
	if err := applyEnvOverrides(&cfg, fs); err != nil {
		return AppConfig{}, err
	}
	cfg = ApplyAdaptiveDefaults(cfg)

	if err := cfg.Validate(availableKernels); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes the mode and policy
// names. All errors are apperrors.ConfigError.
func (c *AppConfig) Validate(availableKernels []string) error {
	if c.Prec < 1 || c.Prec > mpfr.WordBits {
		return apperrors.NewConfigError("precision %d out of range [1, %d]", c.Prec, mpfr.WordBits)
	}
	mode, err := mpfr.ParseRoundingMode(c.Mode)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	c.Mode = mode.String()
	policy, err := mpfr.ParseRangePolicy(c.Policy)
	if err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	c.Policy = policy.String()
	if c.EMin < int(mpfr.MinEMin) || c.EMax > int(mpfr.MaxEMax) || c.EMin > c.EMax {
		return apperrors.NewConfigError("exponent range [%d, %d] must lie within [%d, %d] and be non-empty",
			c.EMin, c.EMax, mpfr.MinEMin, mpfr.MaxEMax)
	}
	if c.Format != "text" && c.Format != "json" {
		return apperrors.NewConfigError("unknown output format %q (want text or json)", c.Format)
	}
	if c.Kernel != mpfr.Auto && !slices.Contains(availableKernels, c.Kernel) {
		return apperrors.NewConfigError("unknown kernel %q (available: auto, %s)", c.Kernel, strings.Join(availableKernels, ", "))
	}
	if _, err := c.CompareKernels(availableKernels); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 || c.Verify < 0 {
		return apperrors.NewConfigError("workers and verify must not be negative")
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -verbose are mutually exclusive")
	}
	if c.Completion != "" && !slices.Contains(CompletionShells, c.Completion) {
		return apperrors.NewConfigError("unsupported shell %q for completion (want %s)", c.Completion, strings.Join(CompletionShells, ", "))
	}
	return c.validateCommand()
}

// validateCommand checks that exactly one thing is asked for.
func (c *AppConfig) validateCommand() error {
	var modes []string
	for _, m := range []struct {
		set  bool
		name string
	}{
		{c.Batch != "", "-batch"},
		{c.Verify > 0, "-verify"},
		{c.REPL, "-repl"},
		{c.Info, "-info"},
		{c.Completion != "", "-completion"},
		{c.PrintConfig, "-print-config"},
		{c.Version, "-version"},
	} {
		if m.set {
			modes = append(modes, m.name)
		}
	}
	switch {
	case len(modes) > 1:
		return apperrors.NewConfigError("%s cannot be combined", strings.Join(modes, " and "))
	case len(modes) == 1 && len(c.Args) > 0:
		return apperrors.NewConfigError("unexpected arguments with %s: %s", modes[0], strings.Join(c.Args, " "))
	case len(modes) == 1:
		return nil
	case len(c.Args) == 0:
		return apperrors.NewConfigError("nothing to do: give an operation (add|sub|mul A B) or one of -batch, -verify, -repl, -info")
	case len(c.Args) != 3:
		return apperrors.NewConfigError("an operation takes exactly two operands, got %d arguments", len(c.Args))
	case !slices.Contains(Operations, c.Args[0]):
		return apperrors.NewConfigError("unknown operation %q (want add, sub or mul)", c.Args[0])
	}
	return nil
}

// RoundingMode returns the parsed rounding mode. It is valid after Validate.
func (c AppConfig) RoundingMode() mpfr.RoundingMode {
	m, _ := mpfr.ParseRoundingMode(c.Mode)
	return m
}

// RangePolicy returns the parsed range policy. It is valid after Validate.
func (c AppConfig) RangePolicy() mpfr.RangePolicy {
	p, _ := mpfr.ParseRangePolicy(c.Policy)
	return p
}

// Range returns the exponent range.
func (c AppConfig) Range() mpfr.Range {
	return mpfr.Range{EMin: int32(c.EMin), EMax: int32(c.EMax)}
}

// CompareKernels resolves Compare against the available kernels. An empty
// Compare yields only the configured kernel.
func (c AppConfig) CompareKernels(availableKernels []string) ([]string, error) {
	switch strings.TrimSpace(c.Compare) {
	case "":
		return []string{c.Kernel}, nil
	case "all":
		return slices.Clone(availableKernels), nil
	}
	var names []string
	for _, name := range strings.Split(c.Compare, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name != mpfr.Auto && !slices.Contains(availableKernels, name) {
			return nil, apperrors.NewConfigError("unknown kernel %q in -compare", name)
		}
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, apperrors.NewConfigError("-compare names no kernel")
	}
	return names, nil
}
