package batch

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/metrics"
	"github.com/agbru/mpcalc/internal/mpfr"
)

const tracerName = "github.com/agbru/mpcalc/internal/batch"

// Result is the outcome of one job on one kernel.
type Result struct {
	// Index is the position of the job in the input.
	Index   int
	Job     Job
	Kernel  string
	Value   *mpfr.Float
	Ternary mpfr.Ternary
	Flags   mpfr.Flags
	Err     error
	Elapsed time.Duration
}

// Options configures Execute.
type Options struct {
	// Workers bounds the number of jobs evaluated at once; 0 means one per
	// job.
	Workers int
	Range   mpfr.Range
	Policy  mpfr.RangePolicy
	Logger  logging.Logger
	// Metrics, when set, counts every operation.
	Metrics *metrics.Metrics
	// Progress, when set, is called after each evaluation. It must be safe
	// for concurrent use.
	Progress func(done, total int)
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

// Execute evaluates every job on every named kernel. The results are
// ordered by job, then by kernel in the order given, with Auto resolved and
// duplicates dropped. Per-job failures are
// reported in Result.Err; the returned error is set only for an unknown
// kernel, an invalid range or a canceled context.
func Execute(ctx context.Context, kernels []string, jobs []Job, opts Options) ([]Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "batch.Execute")
	defer span.End()
	span.SetAttributes(
		attribute.Int("mpcalc.jobs", len(jobs)),
		attribute.StringSlice("mpcalc.kernels", kernels),
	)

	selected, err := selectKernels(kernels, opts.Range)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "kernel selection")
		return nil, err
	}

	total := len(jobs) * len(selected)
	results := make([]Result, total)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	log := opts.logger()
	for i, job := range jobs {
		for k, kernel := range selected {
			idx := i*len(selected) + k
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if opts.Metrics != nil {
					opts.Metrics.IncrementActiveJobs()
					defer opts.Metrics.DecrementActiveJobs()
				}
				r := evaluate(i, job, kernel, opts)
				results[idx] = r
				if opts.Metrics != nil {
					opts.Metrics.ObserveOperation(job.Op, job.Mode, r.Kernel, r.Ternary, r.Err)
				}
				if opts.Progress != nil {
					opts.Progress(int(done.Add(1)), total)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
		return nil, err
	}
	log.Debug("batch evaluated", logging.Int("jobs", len(jobs)), logging.Int("kernels", len(selected)))
	return results, nil
}

// selectKernels resolves names, Auto included, to distinct kernels.
func selectKernels(names []string, rng mpfr.Range) ([]mpfr.Kernel, error) {
	var (
		kernels []mpfr.Kernel
		seen    []string
	)
	for _, name := range names {
		k, err := mpfr.Select(name, rng)
		if err != nil {
			return nil, fmt.Errorf("kernel %q: %w", name, err)
		}
		if slices.Contains(seen, k.Name()) {
			continue
		}
		seen = append(seen, k.Name())
		kernels = append(kernels, k)
	}
	if len(kernels) == 0 {
		return nil, fmt.Errorf("no kernel to run: %w", mpfr.ErrUnknownKernel)
	}
	return kernels, nil
}

// evaluate runs one job on one kernel in an Env of its own, so the flags
// belong to this evaluation alone.
func evaluate(index int, job Job, kernel mpfr.Kernel, opts Options) (res Result) {
	res = Result{Index: index, Job: job, Kernel: kernel.Name()}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	env, err := mpfr.NewEnv(
		mpfr.WithKernel(kernel),
		mpfr.WithRange(opts.Range),
		mpfr.WithPolicy(opts.Policy),
		mpfr.WithLogger(opts.logger()),
	)
	if err != nil {
		res.Err = err
		return res
	}
	a, b, err := job.Operands()
	if err != nil {
		res.Err = err
		return res
	}
	out := mpfr.NewFloat(job.Prec)
	res.Ternary, res.Err = Apply(env, job.Op, out, a, b, job.Mode, job.Prec)
	if res.Err == nil {
		res.Value = out
	}
	res.Flags = env.Flags()
	return res
}

// Apply performs the named operation in env.
func Apply(env *mpfr.Env, op string, out, a, b *mpfr.Float, mode mpfr.RoundingMode, prec uint) (mpfr.Ternary, error) {
	switch op {
	case "add":
		return env.Add(out, a, b, mode, prec)
	case "sub":
		return env.Sub(out, a, b, mode, prec)
	case "mul":
		return env.Mul(out, a, b, mode, prec)
	}
	return 0, fmt.Errorf("unknown operation %q", op)
}
