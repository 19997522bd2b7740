package mpfr

import (
	"errors"
	"fmt"
)

var (
	// ErrRangeExceeded is matched by every *RangeError.
	ErrRangeExceeded = errors.New("mpfr: result exponent out of range")
	// ErrInvalidPrecision is matched by every *PrecisionError.
	ErrInvalidPrecision = errors.New("mpfr: invalid precision")
	// ErrInvalidOperand reports a malformed Float passed to an operation.
	ErrInvalidOperand = errors.New("mpfr: invalid operand")
	// ErrUnknownKernel is returned by Select for an unregistered name.
	ErrUnknownKernel = errors.New("mpfr: unknown kernel")
)

// RangeKind tells overflow from underflow.
type RangeKind uint8

const (
	Overflow RangeKind = iota + 1
	Underflow
)

func (k RangeKind) String() string {
	switch k {
	case Overflow:
		return "overflow"
	case Underflow:
		return "underflow"
	}
	return fmt.Sprintf("RangeKind(%d)", uint8(k))
}

// RangeError reports a correctly rounded result whose exponent falls outside
// the configured Range. The output operand is not modified; the rounded
// result that would have been stored is carried in Sign, Exp and Mant so a
// caller can apply its own overflow or underflow policy.
type RangeError struct {
	Op      string
	Kind    RangeKind
	Sign    int32
	Exp     int64
	Mant    Word
	Ternary Ternary
	Range   Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("mpfr: %s %s: exponent %d outside [%d, %d]", e.Op, e.Kind, e.Exp, e.Range.EMin, e.Range.EMax)
}

// Is makes errors.Is(err, ErrRangeExceeded) hold.
func (e *RangeError) Is(target error) bool { return target == ErrRangeExceeded }

// PrecisionError reports a requested precision that one word cannot hold.
type PrecisionError struct {
	Prec uint
}

func (e *PrecisionError) Error() string {
	return fmt.Sprintf("mpfr: precision %d not in [1, %d]", e.Prec, WordBits)
}

func (e *PrecisionError) Unwrap() error { return ErrInvalidPrecision }

func errOperand(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperand, fmt.Sprintf(format, args...))
}

func checkPrec(prec uint) error {
	if prec == 0 || prec > WordBits {
		return &PrecisionError{Prec: prec}
	}
	return nil
}
