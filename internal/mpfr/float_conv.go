package mpfr

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"math/bits"
	"strings"
)

// ErrNaN is returned when a NaN has to be converted to a type without one.
var ErrNaN = errors.New("mpfr: NaN has no big.Float representation")

// Big returns x as an exactly equal *big.Float.
func (x *Float) Big() (*big.Float, error) {
	switch {
	case x.IsNaN():
		return nil, ErrNaN
	case x.IsInf():
		return new(big.Float).SetInf(x.Sign < 0), nil
	case x.IsZero():
		z := new(big.Float)
		if x.Sign < 0 {
			z.Neg(z)
		}
		return z, nil
	}
	return x.bigExact().SetPrec(uint(x.Prec)), nil
}

// SetBig sets z to v rounded to prec bits under mode and returns the
// ternary status. Values outside DefaultRange yield a *RangeError and leave
// z unchanged.
func (z *Float) SetBig(v *big.Float, mode RoundingMode, prec uint) (Ternary, error) {
	if err := checkPrec(prec); err != nil {
		return 0, err
	}
	if len(z.D) == 0 {
		return 0, errOperand("output has no significand storage")
	}
	switch {
	case v.IsInf():
		z.SetInf(signOf(v.Signbit()))
	case v.Sign() == 0:
		z.SetZero(signOf(v.Signbit()))
	default:
		r := newBig(prec, mode).Set(v)
		return bigResult(r, mode).commit("set", z, prec, DefaultRange)
	}
	z.Prec = uint32(prec)
	return 0, nil
}

// SetFloat64 sets z to f rounded to prec bits under mode.
func (z *Float) SetFloat64(f float64, mode RoundingMode, prec uint) (Ternary, error) {
	if math.IsNaN(f) {
		if err := checkPrec(prec); err != nil {
			return 0, err
		}
		z.Prec = uint32(prec)
		z.SetNaN()
		return 0, nil
	}
	return z.SetBig(big.NewFloat(f), mode, prec)
}

// Float64 returns the float64 nearest to x and the accuracy of the
// conversion in math/big's convention.
func (x *Float) Float64() (float64, big.Accuracy) {
	if x.IsNaN() {
		return math.NaN(), big.Exact
	}
	b, _ := x.Big()
	return b.Float64()
}

// Parse converts s to a Float rounded to prec bits under mode. It accepts
// the forms math/big.Float.Parse accepts with base 0 (decimal, 0x hex
// mantissas with p exponents, 0b, 0o) plus "nan" and "inf" with an
// optional sign.
func Parse(s string, prec uint, mode RoundingMode) (*Float, Ternary, error) {
	if err := checkPrec(prec); err != nil {
		return nil, 0, err
	}
	z := NewFloat(prec)
	t := strings.ToLower(strings.TrimSpace(s))
	switch t {
	case "nan", "+nan", "-nan":
		return z.SetNaN(), 0, nil
	case "inf", "+inf", "infinity", "+infinity":
		return z.SetInf(1), 0, nil
	case "-inf", "-infinity":
		return z.SetInf(-1), 0, nil
	}
	v := newBig(prec, mode)
	if _, _, err := v.Parse(t, 0); err != nil {
		return nil, 0, fmt.Errorf("mpfr: parse %q: %w", s, err)
	}
	ter, err := z.SetBig(v, mode, prec)
	if err != nil {
		return nil, 0, err
	}
	if ter == 0 {
		ter = ternaryOf(v.Acc(), z.Sign)
	}
	return z, ter, nil
}

// Text formats x like big.Float.Text. NaN is rendered as "NaN".
func (x *Float) Text(format byte, digits int) string {
	b, err := x.Big()
	if err != nil {
		return "NaN"
	}
	return b.Text(format, digits)
}

// maxExactDigits bounds the length of the decimal String writes. Values
// needing more digits are written in the exact 'p' form.
const maxExactDigits = 1100

// String returns the exact decimal value of x, in %g layout with as many
// significant digits as the value needs. Values whose expansion would
// exceed maxExactDigits digits are written as Text('p', 0).
func (x *Float) String() string {
	if x.IsSingular() {
		return x.Text('g', -1)
	}
	n := x.exactDigits()
	if n == 0 {
		return x.Text('p', 0)
	}
	return x.Text('g', n)
}

// exactDigits returns the number of significant decimal digits of the exact
// value of a regular x, or 0 when it exceeds maxExactDigits.
func (x *Float) exactDigits() int {
	m := x.Mant()
	tz := bits.TrailingZeros64(m)
	odd := m >> tz
	k := int64(x.Exp) - int64(WordBits-tz) // x = ±odd × 2^k

	// Decimal digits grow by log10(2) per bit of a power of two and by
	// log10(5) per bit of a power of five.
	const log10of2, log10of5 = 0.30103, 0.69898
	var estimate float64
	if k >= 0 {
		estimate = float64(int64(bits.Len64(odd))+k) * log10of2
	} else {
		estimate = float64(bits.Len64(odd))*log10of2 + float64(-k)*log10of5
	}
	if estimate > maxExactDigits {
		return 0
	}

	v := new(big.Int).SetUint64(odd)
	if k >= 0 {
		// all integer digits, so that %g keeps integers in positional form
		return len(v.Lsh(v, uint(k)).String())
	}
	// odd × 2^k = odd × 5^-k / 10^-k, and odd × 5^-k ends in 5.
	v.Mul(v, new(big.Int).Exp(big.NewInt(5), big.NewInt(-k), nil))
	return len(v.String())
}

// Format implements fmt.Formatter. %s and %v write String; the other verbs
// are those of big.Float.
func (x *Float) Format(s fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		io.WriteString(s, x.String())
		return
	}
	b, err := x.Big()
	if err != nil {
		io.WriteString(s, "NaN")
		return
	}
	b.Format(s, verb)
}

func signOf(neg bool) int32 {
	if neg {
		return -1
	}
	return 1
}
