package batch

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/mpcalc/internal/metrics"
	"github.com/agbru/mpcalc/internal/mpfr"
)

var allKernels = mpfr.Kernels()

func mustParse(t *testing.T, s string) *mpfr.Float {
	t.Helper()
	f, _, err := mpfr.Parse(s, mpfr.WordBits, mpfr.RNDN)
	require.NoError(t, err)
	return f
}

func TestExecute(t *testing.T) {
	t.Parallel()
	jobs := []Job{
		{Op: "add", A: "1", B: "0x1p-53", Mode: mpfr.RNDN, Prec: 53},
		{Op: "add", A: "1", B: "0x1p-53", Mode: mpfr.RNDU, Prec: 53},
		{Op: "sub", A: "1.5", B: "1.5", Mode: mpfr.RNDD, Prec: 10},
		{Op: "mul", A: "1.5", B: "1.5", Mode: mpfr.RNDN, Prec: 64},
	}
	var calls atomic.Int64
	m := metrics.NewMetrics()
	results, err := Execute(context.Background(), allKernels, jobs, Options{
		Workers:  2,
		Range:    mpfr.DefaultRange,
		Metrics:  m,
		Progress: func(done, total int) { calls.Add(1) },
	})
	require.NoError(t, err)
	require.Len(t, results, len(jobs)*len(allKernels))
	assert.EqualValues(t, len(results), calls.Load())

	want := []struct {
		value   *mpfr.Float
		ternary mpfr.Ternary
	}{
		{mustParse(t, "1"), -1},
		{mustParse(t, "0x1.0000000000001p0"), 1},
		{mustParse(t, "-0"), 0},
		{mustParse(t, "2.25"), 0},
	}
	for i, r := range results {
		job := i / len(allKernels)
		assert.Equal(t, job, r.Index)
		assert.Equal(t, allKernels[i%len(allKernels)], r.Kernel)
		require.NoError(t, r.Err, r.Job.String())
		assert.True(t, Identical(r.Value, want[job].value), "%s on %s = %s", r.Job, r.Kernel, r.Value)
		assert.Equal(t, want[job].ternary, r.Ternary, "%s on %s", r.Job, r.Kernel)
		assert.Equal(t, !want[job].ternary.Exact(), r.Flags&mpfr.FlagInexact != 0)
	}

	s := Analyze(results)
	assert.Equal(t, len(jobs), s.Jobs)
	assert.Equal(t, 2*len(allKernels), s.Inexact)
	assert.Empty(t, s.Mismatches)
	assert.NoError(t, s.Err)
	assert.Zero(t, s.ExitCode())
	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `mpcalc_operations_total{kernel="bits",mode="RNDN",op="add",result="rounded_down"} 1`)
	assert.Contains(t, buf.String(), "mpcalc_active_jobs 0")
}

func TestExecuteRangeErrors(t *testing.T) {
	t.Parallel()
	jobs := []Job{
		{Op: "mul", A: "0x1p9", B: "0x1p9", Mode: mpfr.RNDN, Prec: 53},
		{Op: "add", A: "1", B: "bogus", Mode: mpfr.RNDN, Prec: 53},
	}
	narrow := mpfr.Range{EMin: -10, EMax: 10}

	results, err := Execute(context.Background(), []string{"bits"}, jobs, Options{Range: narrow})
	require.NoError(t, err)
	assert.ErrorIs(t, results[0].Err, mpfr.ErrRangeExceeded)
	assert.Nil(t, results[0].Value)
	assert.Equal(t, mpfr.FlagOverflow|mpfr.FlagInexact, results[0].Flags)
	assert.Error(t, results[1].Err)

	s := Analyze(results)
	assert.Equal(t, 2, s.Failures)
	assert.Error(t, s.Err)
	assert.Equal(t, 5, s.ExitCode(), "the first failure is a range error")

	results, err = Execute(context.Background(), []string{"bits"}, jobs[:1], Options{Range: narrow, Policy: mpfr.PolicySaturate})
	require.NoError(t, err)
	require.NoError(t, results[0].Err)
	assert.True(t, results[0].Value.IsInf())
	assert.Equal(t, "range error (overflow)", Render(Result{Err: &mpfr.RangeError{Kind: mpfr.Overflow}}))
}

func TestExecuteKernelSelection(t *testing.T) {
	t.Parallel()
	jobs := []Job{{Op: "add", A: "1", B: "1", Mode: mpfr.RNDN, Prec: 53}}

	results, err := Execute(context.Background(), []string{mpfr.Auto, mpfr.Detect()}, jobs, Options{Range: mpfr.DefaultRange})
	require.NoError(t, err)
	require.Len(t, results, 1, "auto and the detected kernel are the same kernel")
	assert.Equal(t, mpfr.Detect(), results[0].Kernel)

	_, err = Execute(context.Background(), []string{"bits", "quantum"}, jobs, Options{Range: mpfr.DefaultRange})
	assert.ErrorIs(t, err, mpfr.ErrUnknownKernel)

	_, err = Execute(context.Background(), nil, jobs, Options{Range: mpfr.DefaultRange})
	assert.ErrorIs(t, err, mpfr.ErrUnknownKernel)
}

func TestExecuteCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	jobs := []Job{{Op: "add", A: "1", B: "1", Mode: mpfr.RNDN, Prec: 53}}
	_, err := Execute(ctx, []string{"bits"}, jobs, Options{Range: mpfr.DefaultRange})
	assert.True(t, errors.Is(err, context.Canceled))
}
