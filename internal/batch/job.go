package batch

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/mpfr"
)

// Ops lists the operations a job may name.
var Ops = []string{"add", "sub", "mul"}

// Job is one operation read from a job file.
type Job struct {
	// Line is the 1-based line number in the input, 0 for generated jobs.
	Line int
	Op   string
	A, B string
	Mode mpfr.RoundingMode
	Prec uint
}

func (j Job) String() string {
	return fmt.Sprintf("%s %s %s %s p%d", j.Op, j.A, j.B, j.Mode, j.Prec)
}

// Defaults supplies the mode and precision of jobs that omit them.
type Defaults struct {
	Mode mpfr.RoundingMode
	Prec uint
}

// ParseJobs reads one job per line in the form
//
//	op a b [mode] [prec]
//
// where op is add, sub or mul, and prec may carry a "p" prefix. Blank lines
// and text after '#' are ignored. Every malformed line is reported; the
// error is a *multierror.Error of apperrors.ValidationError values.
func ParseJobs(r io.Reader, def Defaults) ([]Job, error) {
	var (
		jobs []Job
		errs *multierror.Error
	)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text, _, _ := strings.Cut(sc.Text(), "#")
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		job, err := parseJob(fields, def)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		job.Line = line
		jobs = append(jobs, job)
	}
	if err := sc.Err(); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("read jobs: %w", err))
	}
	return jobs, errs.ErrorOrNil()
}

func parseJob(fields []string, def Defaults) (Job, error) {
	if len(fields) < 3 || len(fields) > 5 {
		return Job{}, apperrors.ValidationError{Field: "job", Message: fmt.Sprintf("want 'op a b [mode] [prec]', got %d fields", len(fields))}
	}
	job := Job{Op: strings.ToLower(fields[0]), A: fields[1], B: fields[2], Mode: def.Mode, Prec: def.Prec}
	if !slices.Contains(Ops, job.Op) {
		return Job{}, apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", fields[0])}
	}
	for _, f := range fields[3:] {
		if p, ok := parsePrec(f); ok {
			if p < 1 || p > mpfr.WordBits {
				return Job{}, apperrors.ValidationError{Field: "prec", Message: fmt.Sprintf("%d not in [1, %d]", p, mpfr.WordBits)}
			}
			job.Prec = uint(p)
			continue
		}
		mode, err := mpfr.ParseRoundingMode(f)
		if err != nil {
			return Job{}, apperrors.ValidationError{Field: "mode", Message: err.Error()}
		}
		job.Mode = mode
	}
	return job, nil
}

func parsePrec(s string) (uint64, bool) {
	p, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "p"), 10, 32)
	return p, err == nil
}

// Operands parses the operands of j. They are read at the full word
// precision, rounded under the job's mode, so that any operand of at most
// WordBits significant bits is exact whatever the result precision.
func (j Job) Operands() (a, b *mpfr.Float, err error) {
	if a, _, err = mpfr.Parse(j.A, mpfr.WordBits, j.Mode); err != nil {
		return nil, nil, apperrors.ValidationError{Field: "a", Message: err.Error()}
	}
	if b, _, err = mpfr.Parse(j.B, mpfr.WordBits, j.Mode); err != nil {
		return nil, nil, apperrors.ValidationError{Field: "b", Message: err.Error()}
	}
	return a, b, nil
}
