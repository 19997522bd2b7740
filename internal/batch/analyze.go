package batch

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/mpfr"
)

// Summary aggregates the results of Execute.
type Summary struct {
	Jobs    int
	Results int
	Inexact int
	// Failures counts evaluations that returned an error.
	Failures   int
	Mismatches []apperrors.MismatchError
	// Err collects every evaluation error, nil when there is none.
	Err error
}

// Render formats a result as its value and ternary, or its error.
func Render(r Result) string {
	if r.Err != nil {
		var re *mpfr.RangeError
		if errors.As(r.Err, &re) {
			return "range error (" + re.Kind.String() + ")"
		}
		return "error: " + r.Err.Error()
	}
	if r.Value == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s (%+d)", r.Value.String(), int(r.Ternary))
}

// Analyze groups results by job and reports jobs on which the kernels
// disagree. Two results agree when their values are identical, sign of zero
// included, and their ternary values are equal, or when both failed with
// the same kind of error.
func Analyze(results []Result) Summary {
	var (
		s    Summary
		errs *multierror.Error
	)
	s.Results = len(results)
	for start := 0; start < len(results); {
		end := start + 1
		for end < len(results) && results[end].Index == results[start].Index {
			end++
		}
		s.Jobs++
		group := results[start:end]
		for _, r := range group {
			switch {
			case r.Err != nil:
				s.Failures++
				errs = multierror.Append(errs, fmt.Errorf("%s on %s: %w", r.Job, r.Kernel, r.Err))
			case !r.Ternary.Exact():
				s.Inexact++
			}
		}
		if m, ok := mismatch(group); ok {
			s.Mismatches = append(s.Mismatches, m)
		}
		start = end
	}
	s.Err = errs.ErrorOrNil()
	return s
}

func mismatch(group []Result) (apperrors.MismatchError, bool) {
	agree := true
	for _, r := range group[1:] {
		if !sameResult(group[0], r) {
			agree = false
			break
		}
	}
	if agree {
		return apperrors.MismatchError{}, false
	}
	m := apperrors.MismatchError{Job: group[0].Job.String(), Results: make(map[string]string, len(group))}
	for _, r := range group {
		m.Results[r.Kernel] = Render(r)
	}
	return m, true
}

func sameResult(x, y Result) bool {
	if x.Err != nil || y.Err != nil {
		return x.Err != nil && y.Err != nil && Render(x) == Render(y)
	}
	return x.Ternary == y.Ternary && Identical(x.Value, y.Value)
}

// Identical reports whether x and y hold the same datum: both NaN, or equal
// sign, exponent and mantissa.
func Identical(x, y *mpfr.Float) bool {
	if x.IsNaN() || y.IsNaN() {
		return x.IsNaN() && y.IsNaN()
	}
	return x.Sign == y.Sign && x.Exp == y.Exp && x.Mant() == y.Mant()
}

// ExitCode maps the summary to a process exit code: mismatches first, then
// the first evaluation error.
func (s Summary) ExitCode() int {
	if len(s.Mismatches) > 0 {
		return apperrors.ExitErrorMismatch
	}
	if s.Err != nil {
		if merr, ok := s.Err.(*multierror.Error); ok && len(merr.Errors) > 0 {
			return apperrors.ExitCode(merr.Errors[0])
		}
		return apperrors.ExitCode(s.Err)
	}
	return apperrors.ExitSuccess
}
