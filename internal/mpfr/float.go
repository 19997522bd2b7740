package mpfr

import "math"

// Word is one limb of significand storage.
type Word = uint64

// WordBits is the width of a Word and the largest precision the single-word
// operations accept.
const WordBits = 64

// Reserved exponents for the special values. They sit below any exponent a
// Range can admit.
const (
	ExpZero int32 = math.MinInt32 + 1 + iota
	ExpNaN
	ExpInf
)

const topBit Word = 1 << (WordBits - 1)

// Float is a binary floating-point number with a single-word significand.
//
// The storage in D is owned by the caller; operations write D[0] of their
// output and never grow or replace the slice.
type Float struct {
	Prec uint32
	Sign int32
	Exp  int32
	D    []Word
}

// NewFloat returns a +0 with the given precision and one word of storage.
func NewFloat(prec uint) *Float {
	return &Float{Prec: uint32(prec), Sign: 1, Exp: ExpZero, D: make([]Word, 1)}
}

// IsZero reports whether x is ±0.
func (x *Float) IsZero() bool { return x.Exp == ExpZero }

// IsNaN reports whether x is a NaN.
func (x *Float) IsNaN() bool { return x.Exp == ExpNaN }

// IsInf reports whether x is ±Inf.
func (x *Float) IsInf() bool { return x.Exp == ExpInf }

// IsSingular reports whether x is zero, infinite or NaN.
func (x *Float) IsSingular() bool { return x.Exp <= ExpInf }

// Signbit reports whether x is negative or negative zero.
func (x *Float) Signbit() bool { return x.Sign < 0 }

// Mant returns the significand word of a regular x, or 0.
func (x *Float) Mant() Word {
	if x.IsSingular() || len(x.D) == 0 {
		return 0
	}
	return x.D[0]
}

// SetZero sets z to ±0 according to sign and returns z.
func (z *Float) SetZero(sign int32) *Float {
	z.Sign = normSign(sign)
	z.Exp = ExpZero
	return z
}

// SetInf sets z to ±Inf according to sign and returns z.
func (z *Float) SetInf(sign int32) *Float {
	z.Sign = normSign(sign)
	z.Exp = ExpInf
	return z
}

// SetNaN sets z to NaN and returns z.
func (z *Float) SetNaN() *Float {
	z.Sign = 1
	z.Exp = ExpNaN
	return z
}

// Copy sets z to x, including x's precision, and returns z. A z without
// storage is given one word.
func (z *Float) Copy(x *Float) *Float {
	if z == x {
		return z
	}
	m := x.Mant()
	z.Prec, z.Sign, z.Exp = x.Prec, x.Sign, x.Exp
	if len(z.D) == 0 {
		z.D = make([]Word, 1)
	}
	z.D[0] = m
	return z
}

// Neg sets z to -x and returns z.
func (z *Float) Neg(x *Float) *Float {
	z.Copy(x)
	if !z.IsNaN() {
		z.Sign = -z.Sign
	}
	return z
}

// Cmp compares x and y and returns -1, 0 or +1. ±0 compare equal. NaN
// operands compare as 0; callers that care must check IsNaN first.
func (x *Float) Cmp(y *Float) int {
	if x.IsNaN() || y.IsNaN() {
		return 0
	}
	sx, sy := x.ord(), y.ord()
	if sx != sy {
		if sx < sy {
			return -1
		}
		return 1
	}
	if sx == 0 {
		return 0
	}
	// same sign, both nonzero
	c := x.cmpAbs(y)
	if sx < 0 {
		c = -c
	}
	return c
}

// ord returns -1, 0 or +1 for negative, zero and positive x.
func (x *Float) ord() int {
	if x.IsZero() {
		return 0
	}
	if x.Sign < 0 {
		return -1
	}
	return 1
}

// cmpAbs compares |x| and |y| for non-NaN, nonzero operands.
func (x *Float) cmpAbs(y *Float) int {
	switch {
	case x.IsInf() && y.IsInf():
		return 0
	case x.IsInf():
		return 1
	case y.IsInf():
		return -1
	}
	switch {
	case x.Exp < y.Exp:
		return -1
	case x.Exp > y.Exp:
		return 1
	}
	mx, my := x.Mant(), y.Mant()
	switch {
	case mx < my:
		return -1
	case mx > my:
		return 1
	}
	return 0
}

// validate checks that x is a well-formed single-word operand.
func (x *Float) validate() error {
	if x == nil {
		return errOperand("nil operand")
	}
	if x.Sign != 1 && x.Sign != -1 {
		return errOperand("sign must be +1 or -1, got %d", x.Sign)
	}
	if x.IsSingular() {
		return nil
	}
	if x.Prec == 0 || x.Prec > WordBits {
		return errOperand("precision %d does not fit one word", x.Prec)
	}
	if len(x.D) == 0 {
		return errOperand("regular value without significand storage")
	}
	m := x.D[0]
	if m&topBit == 0 {
		return errOperand("significand %#x is not normalized", m)
	}
	if x.Prec < WordBits && m&(topBit>>(x.Prec-1)-1) != 0 {
		return errOperand("significand %#x has bits beyond precision %d", m, x.Prec)
	}
	return nil
}

func normSign(s int32) int32 {
	if s < 0 {
		return -1
	}
	return 1
}
