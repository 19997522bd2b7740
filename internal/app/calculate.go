package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/agbru/mpcalc/internal/batch"
	"github.com/agbru/mpcalc/internal/cli"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/mpfr"
)

// referenceKernel is the kernel -verify checks against.
const referenceKernel = "bigfloat"

func (a *Application) executeOptions() batch.Options {
	return batch.Options{
		Workers: a.Config.Workers,
		Range:   a.Config.Range(),
		Policy:  a.Config.RangePolicy(),
		Logger:  a.Logger,
		Metrics: a.Metrics,
	}
}

// contextError converts a canceled or expired run into the error reported
// to the user.
func (a *Application) contextError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.TimeoutError{Operation: op, Limit: a.Config.Timeout}
	}
	return err
}

// runOperation evaluates the operation given on the command line, on each
// kernel of -compare when it is set.
func (a *Application) runOperation(ctx context.Context, out io.Writer) int {
	job := batch.Job{Op: a.Config.Args[0], A: a.Config.Args[1], B: a.Config.Args[2], Mode: a.Config.RoundingMode(), Prec: a.Config.Prec}
	kernels, err := a.Config.CompareKernels(mpfr.Kernels())
	if err != nil {
		a.fail(err)
		return apperrors.ExitCode(err)
	}
	results, err := batch.Execute(ctx, kernels, []batch.Job{job}, a.executeOptions())
	if err != nil {
		err = a.contextError(job.Op, err)
		a.fail(err)
		return apperrors.ExitCode(err)
	}

	p := a.presenter()
	if len(results) > 1 {
		s := batch.Analyze(results)
		if err := p.PresentBatch(out, results, s); err != nil {
			return a.report(err)
		}
		return s.ExitCode()
	}
	r := results[0]
	if err := p.PresentResult(out, r); err != nil {
		return a.report(err)
	}
	if r.Err != nil {
		calcErr := apperrors.CalculationError{Op: job.Op, Operands: []string{job.A, job.B}, Cause: r.Err}
		a.Logger.Debug("operation failed", logging.String("job", job.String()), logging.Err(calcErr))
		return apperrors.ExitCode(calcErr)
	}
	return apperrors.ExitSuccess
}

// runBatch evaluates a job file on every kernel of -compare.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	start := time.Now()
	in := a.In
	if a.Config.Batch != "-" {
		f, err := os.Open(a.Config.Batch)
		if err != nil {
			err = apperrors.WrapError(err, "open job file")
			a.fail(err)
			return apperrors.ExitErrorConfig
		}
		defer f.Close()
		in = f
	}
	jobs, err := batch.ParseJobs(in, batch.Defaults{Mode: a.Config.RoundingMode(), Prec: a.Config.Prec})
	if err != nil {
		a.fail(apperrors.WrapError(err, "read %s", a.Config.Batch))
		return apperrors.ExitErrorConfig
	}
	kernels, err := a.Config.CompareKernels(mpfr.Kernels())
	if err != nil {
		a.fail(err)
		return apperrors.ExitCode(err)
	}

	results, err := batch.Execute(ctx, kernels, jobs, a.executeOptions())
	if err != nil {
		err = a.contextError("batch", err)
		a.fail(err)
		return apperrors.ExitCode(err)
	}
	s := batch.Analyze(results)
	for range s.Mismatches {
		a.Metrics.ObserveMismatch()
	}
	a.Metrics.ObserveRun("batch", time.Since(start))
	a.Logger.Debug("batch finished",
		logging.Int("jobs", s.Jobs),
		logging.Int("failures", s.Failures),
		logging.Int("mismatches", len(s.Mismatches)))
	if err := a.presenter().PresentBatch(out, results, s); err != nil {
		return a.report(err)
	}
	return s.ExitCode()
}

// runVerify checks each kernel of -compare against the reference kernel on
// random operations.
func (a *Application) runVerify(ctx context.Context, out io.Writer) int {
	kernels, err := a.Config.CompareKernels(mpfr.Kernels())
	if err != nil {
		a.fail(err)
		return apperrors.ExitCode(err)
	}
	p := a.presenter()
	showProgress := !a.Config.Quiet && a.Config.Format == "text"
	code := apperrors.ExitSuccess
	for _, name := range kernels {
		start := time.Now()
		opts := batch.SweepOptions{
			Count:   a.Config.Verify,
			Seed:    a.Config.Seed,
			Workers: a.Config.Workers,
			Range:   a.Config.Range(),
			Metrics: a.Metrics,
			Logger:  a.Logger,
		}
		var progress *cli.ProgressDisplay
		if showProgress {
			progress = cli.NewProgressDisplay(a.ErrWriter, "verify "+name, uint64(a.Config.Verify))
			opts.Progress = progress.Update
			progress.Start()
		}
		report, err := batch.Sweep(ctx, name, referenceKernel, opts)
		if progress != nil {
			progress.Stop()
		}
		a.Metrics.ObserveRun("verify", time.Since(start))
		if err != nil {
			err = a.contextError("verify", err)
			a.fail(err)
			return apperrors.ExitCode(err)
		}
		if err := p.PresentSweep(out, report); err != nil {
			return a.report(err)
		}
		if report.MismatchCount > 0 {
			code = apperrors.ExitErrorMismatch
		}
	}
	return code
}

// startMetricsServer serves /metrics on -metrics-addr until the returned
// function is called.
func (a *Application) startMetricsServer() (stop func(), err error) {
	if a.Config.MetricsAddr == "" {
		return func() {}, nil
	}
	ln, err := net.Listen("tcp", a.Config.MetricsAddr)
	if err != nil {
		return nil, apperrors.WrapError(err, "metrics listener")
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", a.Metrics.WritePrometheus)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("metrics server stopped", err)
		}
	}()
	a.Logger.Info("serving metrics", logging.String("addr", ln.Addr().String()))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// writeMetrics writes the exposition to -metrics, "-" meaning out.
func (a *Application) writeMetrics(out io.Writer) error {
	switch a.Config.Metrics {
	case "":
		return nil
	case "-":
		return a.Metrics.WriteText(out)
	}
	f, err := os.Create(a.Config.Metrics)
	if err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	if err := a.Metrics.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
