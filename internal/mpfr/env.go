package mpfr

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/agbru/mpcalc/internal/logging"
)

// RangePolicy decides what happens to a result outside the exponent range.
type RangePolicy uint8

const (
	// PolicyReport returns the *RangeError and leaves the output untouched.
	PolicyReport RangePolicy = iota
	// PolicySaturate stores ±Inf, the largest finite value, ±0 or the
	// smallest positive value according to the rounding mode, and raises
	// the overflow or underflow flag.
	PolicySaturate
)

func (p RangePolicy) String() string {
	switch p {
	case PolicyReport:
		return "report"
	case PolicySaturate:
		return "saturate"
	}
	return fmt.Sprintf("RangePolicy(%d)", uint8(p))
}

// ParseRangePolicy parses "report" or "saturate".
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "report", "":
		return PolicyReport, nil
	case "saturate", "clamp":
		return PolicySaturate, nil
	}
	return 0, fmt.Errorf("mpfr: unknown range policy %q", s)
}

// Flags is a set of sticky exception flags.
type Flags uint32

const (
	FlagUnderflow Flags = 1 << iota
	FlagOverflow
	FlagNaN
	FlagInexact
)

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		flag Flags
		name string
	}{
		{FlagUnderflow, "underflow"},
		{FlagOverflow, "overflow"},
		{FlagNaN, "nan"},
		{FlagInexact, "inexact"},
	} {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Env binds a kernel to an exponent range and a range policy, and
// accumulates exception flags across operations. An Env is safe for
// concurrent use; the flags are shared by all callers.
type Env struct {
	kernel Kernel
	rng    Range
	policy RangePolicy
	logger logging.Logger
	flags  atomic.Uint32
}

// EnvOption configures an Env.
type EnvOption func(*envConfig)

type envConfig struct {
	kernelName string
	kernel     Kernel
	rng        Range
	policy     RangePolicy
	logger     logging.Logger
}

// WithKernelName selects the kernel by registry name.
func WithKernelName(name string) EnvOption {
	return func(c *envConfig) { c.kernelName = name }
}

// WithKernel uses k as is. Its own range governs when range errors occur.
func WithKernel(k Kernel) EnvOption {
	return func(c *envConfig) { c.kernel = k }
}

// WithRange sets the exponent range.
func WithRange(r Range) EnvOption {
	return func(c *envConfig) { c.rng = r }
}

// WithPolicy sets the range policy.
func WithPolicy(p RangePolicy) EnvOption {
	return func(c *envConfig) { c.policy = p }
}

// WithLogger attaches a logger for range events.
func WithLogger(l logging.Logger) EnvOption {
	return func(c *envConfig) { c.logger = l }
}

// NewEnv builds an Env. Without options it uses the detected kernel,
// DefaultRange and PolicyReport.
func NewEnv(opts ...EnvOption) (*Env, error) {
	cfg := envConfig{kernelName: Auto, rng: DefaultRange}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.rng.Validate(); err != nil {
		return nil, err
	}
	k := cfg.kernel
	if k == nil {
		var err error
		if k, err = Select(cfg.kernelName, cfg.rng); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = logging.Nop()
	}
	return &Env{kernel: k, rng: cfg.rng, policy: cfg.policy, logger: cfg.logger}, nil
}

// Kernel returns the kernel in use.
func (e *Env) Kernel() Kernel { return e.kernel }

// Range returns the exponent range.
func (e *Env) Range() Range { return e.rng }

// Policy returns the range policy.
func (e *Env) Policy() RangePolicy { return e.policy }

// Flags returns the flags raised since the last ClearFlags.
func (e *Env) Flags() Flags { return Flags(e.flags.Load()) }

// ClearFlags resets all flags and returns the previous set.
func (e *Env) ClearFlags() Flags { return Flags(e.flags.Swap(0)) }

// Raise sets flags in addition to those already raised.
func (e *Env) Raise(f Flags) {
	if f != 0 {
		e.flags.Or(uint32(f))
	}
}

// Add sets out to a+b rounded to prec bits under mode.
func (e *Env) Add(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	t, err := e.kernel.Add(out, a, b, mode, prec)
	return e.finish(out, mode, prec, t, err)
}

// Sub sets out to a-b rounded to prec bits under mode.
func (e *Env) Sub(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	t, err := Sub(e.kernel, out, a, b, mode, prec)
	return e.finish(out, mode, prec, t, err)
}

// Mul sets out to a×b rounded to prec bits under mode.
func (e *Env) Mul(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	t, err := e.kernel.Mul(out, a, b, mode, prec)
	return e.finish(out, mode, prec, t, err)
}

func (e *Env) finish(out *Float, mode RoundingMode, prec uint, t Ternary, err error) (Ternary, error) {
	if err == nil {
		if out.IsNaN() {
			e.Raise(FlagNaN)
		}
		if t != 0 {
			e.Raise(FlagInexact)
		}
		return t, nil
	}
	var re *RangeError
	if !errors.As(err, &re) {
		return 0, err
	}
	if re.Kind == Overflow {
		e.Raise(FlagOverflow | FlagInexact)
	} else {
		e.Raise(FlagUnderflow | FlagInexact)
	}
	e.logger.Debug("exponent out of range",
		logging.String("op", re.Op),
		logging.String("kind", re.Kind.String()),
		logging.Field{Key: "exp", Value: re.Exp},
		logging.String("policy", e.policy.String()))
	if e.policy == PolicyReport {
		return 0, err
	}
	return saturate(out, re, mode, prec), nil
}

// saturate stores the value the rounding mode assigns to an out-of-range
// result and returns its ternary status.
func saturate(out *Float, re *RangeError, mode RoundingMode, prec uint) Ternary {
	out.Prec = uint32(prec)
	away := mode == RNDA || (mode == RNDU && re.Sign > 0) || (mode == RNDD && re.Sign < 0)
	if re.Kind == Overflow {
		if away || mode == RNDN {
			out.SetInf(re.Sign)
			return 1
		}
		out.Sign = re.Sign
		out.Exp = re.Range.EMax
		out.D[0] = ^Word(0) << (WordBits - prec)
		return -1
	}
	if mode == RNDN {
		// round to the smallest value only above half of it
		away = re.Exp == int64(re.Range.EMin)-1 && (re.Mant != topBit || re.Ternary < 0)
	}
	if away {
		out.Sign = re.Sign
		out.Exp = re.Range.EMin
		out.D[0] = topBit
		return 1
	}
	out.SetZero(re.Sign)
	return -1
}
