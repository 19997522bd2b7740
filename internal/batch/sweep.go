package batch

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/metrics"
	"github.com/agbru/mpcalc/internal/mpfr"
)

const (
	sweepChunk = 1024
	// maxReported bounds the mismatches kept in a SweepReport.
	maxReported = 10
)

// SweepOptions configures Sweep.
type SweepOptions struct {
	Count   int
	Seed    uint64
	Workers int
	Range   mpfr.Range
	// Progress is called after each chunk of cases with the number of cases
	// checked so far. It must be safe for concurrent use.
	Progress func(done, total uint64)
	Metrics  *metrics.Metrics
	Logger   logging.Logger
}

// SweepReport is the outcome of Sweep.
type SweepReport struct {
	Kernel        string
	Reference     string
	Seed          uint64
	Checked       uint64
	Inexact       uint64
	RangeErrors   uint64
	MismatchCount uint64
	// Mismatches holds the first few disagreements, each rendered as a job
	// line that reproduces it.
	Mismatches []apperrors.MismatchError
	Elapsed    time.Duration
}

// Err returns a MismatchError for the first disagreement, or nil.
func (r SweepReport) Err() error {
	if len(r.Mismatches) == 0 {
		return nil
	}
	return r.Mismatches[0]
}

// Sweep checks opts.Count random operations on kernel against reference.
// Cases are generated in chunks; chunk i draws from a PCG seeded with
// (Seed, i), so a report can be reproduced from its seed whatever the
// number of workers. A zero Seed picks a random one.
func Sweep(ctx context.Context, kernel, reference string, opts SweepOptions) (SweepReport, error) {
	k, err := mpfr.Select(kernel, opts.Range)
	if err != nil {
		return SweepReport{}, err
	}
	ref, err := mpfr.Select(reference, opts.Range)
	if err != nil {
		return SweepReport{}, err
	}
	return sweep(ctx, k, ref, opts)
}

func sweep(ctx context.Context, k, ref mpfr.Kernel, opts SweepOptions) (SweepReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "batch.Sweep")
	defer span.End()

	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() | 1
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	span.SetAttributes(
		attribute.String("mpcalc.kernel", k.Name()),
		attribute.String("mpcalc.reference", ref.Name()),
		attribute.Int("mpcalc.count", opts.Count),
		attribute.Int64("mpcalc.seed", int64(opts.Seed)),
	)

	report := SweepReport{Kernel: k.Name(), Reference: ref.Name(), Seed: opts.Seed}
	var (
		checked, inexact, rangeErrs, mismatches atomic.Uint64
		mu                                      sync.Mutex
	)
	start := time.Now()
	total := uint64(opts.Count)
	swg := sizedwaitgroup.New(workers)
	for chunk := 0; chunk*sweepChunk < opts.Count; chunk++ {
		if ctx.Err() != nil {
			break
		}
		n := min(sweepChunk, opts.Count-chunk*sweepChunk)
		swg.Add()
		go func() {
			defer swg.Done()
			if opts.Metrics != nil {
				opts.Metrics.IncrementActiveJobs()
				defer opts.Metrics.DecrementActiveJobs()
			}
			g := newCaseGen(opts.Seed, uint64(chunk), opts.Range)
			for range n {
				if ctx.Err() != nil {
					return
				}
				c := g.next()
				got, want := c.run(k), c.run(ref)
				if opts.Metrics != nil {
					opts.Metrics.ObserveOperation(c.op, c.mode, k.Name(), got.Ternary, got.Err)
				}
				if !got.Ternary.Exact() {
					inexact.Add(1)
				}
				if errors.Is(want.Err, mpfr.ErrRangeExceeded) {
					rangeErrs.Add(1)
				}
				if !sameResult(got, want) {
					mismatches.Add(1)
					if opts.Metrics != nil {
						opts.Metrics.ObserveMismatch()
					}
					m := apperrors.MismatchError{
						Job:     c.job().String(),
						Results: map[string]string{k.Name(): Render(got), ref.Name(): Render(want)},
					}
					log.Error("kernel mismatch", m, logging.String("kernel", k.Name()))
					mu.Lock()
					if len(report.Mismatches) < maxReported {
						report.Mismatches = append(report.Mismatches, m)
					}
					mu.Unlock()
				}
			}
			done := checked.Add(uint64(n))
			if opts.Progress != nil {
				opts.Progress(done, total)
			}
		}()
	}
	swg.Wait()

	report.Checked = checked.Load()
	report.Inexact = inexact.Load()
	report.RangeErrors = rangeErrs.Load()
	report.MismatchCount = mismatches.Load()
	report.Elapsed = time.Since(start)
	span.SetAttributes(attribute.Int64("mpcalc.mismatches", int64(report.MismatchCount)))
	log.Debug("sweep finished",
		logging.String("kernel", report.Kernel),
		logging.Uint64("checked", report.Checked),
		logging.Uint64("mismatches", report.MismatchCount))
	if err := ctx.Err(); err != nil {
		return report, apperrors.WrapError(err, "verify %s", k.Name())
	}
	return report, nil
}

// sweepCase is one generated operation.
type sweepCase struct {
	op   string
	a, b *mpfr.Float
	mode mpfr.RoundingMode
	prec uint
}

func (c sweepCase) run(k mpfr.Kernel) Result {
	out := mpfr.NewFloat(c.prec)
	r := Result{Kernel: k.Name(), Job: c.job()}
	switch c.op {
	case "add":
		r.Ternary, r.Err = k.Add(out, c.a, c.b, c.mode, c.prec)
	case "sub":
		r.Ternary, r.Err = mpfr.Sub(k, out, c.a, c.b, c.mode, c.prec)
	default:
		r.Ternary, r.Err = k.Mul(out, c.a, c.b, c.mode, c.prec)
	}
	if r.Err == nil {
		r.Value = out
	}
	return r
}

// job renders c as a job whose operands read back exactly.
func (c sweepCase) job() Job {
	return Job{Op: c.op, A: exactText(c.a), B: exactText(c.b), Mode: c.mode, Prec: c.prec}
}

func exactText(x *mpfr.Float) string {
	switch {
	case x.IsNaN():
		return "nan"
	case x.IsInf() && x.Signbit():
		return "-inf"
	case x.IsInf():
		return "inf"
	}
	return x.Text('p', 0)
}

// edgeWidth is the width of the exponent bands drawn at each end of the
// range.
const edgeWidth = 64

type caseGen struct {
	rng *rand.Rand
	// exponent window most operands are drawn from
	lo, hi int32
	r      mpfr.Range
}

func newCaseGen(seed, stream uint64, r mpfr.Range) *caseGen {
	lo, hi := max(r.EMin, -200), min(r.EMax, 200)
	if lo > hi {
		lo, hi = r.EMin, r.EMax
	}
	return &caseGen{rng: rand.New(rand.NewPCG(seed, stream)), lo: lo, hi: hi, r: r}
}

// exponent draws an operand exponent. One in eight falls in a band at
// either end of the range, where sums and products leave it.
func (g *caseGen) exponent() int32 {
	lo, hi := g.lo, g.hi
	if g.rng.IntN(8) == 0 {
		if g.rng.IntN(2) == 0 {
			lo, hi = max(g.r.EMin, g.r.EMax-edgeWidth), g.r.EMax
		} else {
			lo, hi = g.r.EMin, min(g.r.EMax, g.r.EMin+edgeWidth)
		}
	}
	return lo + int32(g.rng.Int64N(int64(hi)-int64(lo)+1))
}

func (g *caseGen) next() sweepCase {
	c := sweepCase{
		op:   Ops[g.rng.IntN(len(Ops))],
		mode: mpfr.RoundingModes[g.rng.IntN(len(mpfr.RoundingModes))],
		prec: uint(1 + g.rng.IntN(mpfr.WordBits)),
	}
	c.a = g.operand()
	switch g.rng.IntN(8) {
	case 0:
		// near-cancellation: b is a with its last few bits changed
		c.b = g.perturb(c.a)
	case 1:
		c.b = g.special()
	default:
		c.b = g.operand()
	}
	if g.rng.IntN(2) == 0 {
		c.a, c.b = c.b, c.a
	}
	return c
}

func (g *caseGen) operand() *mpfr.Float {
	prec := uint(1 + g.rng.IntN(mpfr.WordBits))
	exp := g.exponent()
	sign := int32(1)
	if g.rng.IntN(2) == 0 {
		sign = -1
	}
	return &mpfr.Float{Prec: uint32(prec), Sign: sign, Exp: exp, D: []mpfr.Word{mantissa(g.rng.Uint64(), prec)}}
}

func (g *caseGen) perturb(a *mpfr.Float) *mpfr.Float {
	if a.IsSingular() {
		return g.operand()
	}
	b := mpfr.NewFloat(uint(a.Prec)).Copy(a)
	b.Sign = -a.Sign
	b.D[0] = mantissa(a.D[0]^(g.rng.Uint64()&0xff<<(mpfr.WordBits-b.Prec)), uint(b.Prec))
	return b
}

func (g *caseGen) special() *mpfr.Float {
	z := mpfr.NewFloat(uint(1 + g.rng.IntN(mpfr.WordBits)))
	sign := int32(1 - 2*g.rng.IntN(2))
	switch g.rng.IntN(3) {
	case 0:
		return z.SetZero(sign)
	case 1:
		return z.SetInf(sign)
	}
	return z.SetNaN()
}

// mantissa normalizes m and clears the bits below prec.
func mantissa(m mpfr.Word, prec uint) mpfr.Word {
	return (m | 1<<63) &^ (1<<63>>(prec-1) - 1)
}
