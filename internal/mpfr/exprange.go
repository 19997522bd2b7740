package mpfr

import "fmt"

// Limits on the exponent range. They match the default range of the wider
// library and keep every sum of two exponents inside math/big.Float's range.
const (
	MinEMin int32 = 1 - 1<<30
	MaxEMax int32 = 1<<30 - 1
)

// Range is the inclusive exponent range of regular results.
type Range struct {
	EMin int32
	EMax int32
}

// DefaultRange is the widest supported range.
var DefaultRange = Range{EMin: MinEMin, EMax: MaxEMax}

// Validate reports whether r is usable.
func (r Range) Validate() error {
	if r.EMin < MinEMin || r.EMax > MaxEMax {
		return fmt.Errorf("mpfr: exponent range [%d, %d] exceeds [%d, %d]", r.EMin, r.EMax, MinEMin, MaxEMax)
	}
	if r.EMin > r.EMax {
		return fmt.Errorf("mpfr: empty exponent range [%d, %d]", r.EMin, r.EMax)
	}
	return nil
}

// check returns the RangeKind of exp, or 0 if exp is representable.
func (r Range) check(exp int64) RangeKind {
	switch {
	case exp > int64(r.EMax):
		return Overflow
	case exp < int64(r.EMin):
		return Underflow
	}
	return 0
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.EMin, r.EMax)
}
