package mpfr

import (
	"math"
	"math/big"
)

// bigKernel computes with math/big.Float. It allocates scratch values on
// every call and serves as the reference the word kernels are checked
// against.
type bigKernel struct {
	rng Range
}

func (k *bigKernel) Name() string { return "bigfloat" }

func (k *bigKernel) Add(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return k.add(out, a, b, 1, mode, prec)
}

func (k *bigKernel) sub(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	return k.add(out, a, b, -1, mode, prec)
}

func (k *bigKernel) add(out, a, b *Float, bDir int32, mode RoundingMode, prec uint) (Ternary, error) {
	if err := checkArgs(out, a, b, mode, prec, k.rng); err != nil {
		return 0, err
	}
	if a.IsSingular() || b.IsSingular() {
		return addSpecial(out, a, b, b.Sign*bDir, mode, prec, k.rng)
	}
	z := newBig(prec, mode)
	if bDir < 0 {
		z.Sub(a.bigExact(), b.bigExact())
	} else {
		z.Add(a.bigExact(), b.bigExact())
	}
	return bigResult(z, mode).commit("add", out, prec, k.rng)
}

func (k *bigKernel) Mul(out, a, b *Float, mode RoundingMode, prec uint) (Ternary, error) {
	if err := checkArgs(out, a, b, mode, prec, k.rng); err != nil {
		return 0, err
	}
	if a.IsSingular() || b.IsSingular() {
		return mulSpecial(out, a, b, prec)
	}
	z := newBig(prec, mode).Mul(a.bigExact(), b.bigExact())
	return bigResult(z, mode).commit("mul", out, prec, k.rng)
}

func newBig(prec uint, mode RoundingMode) *big.Float {
	return new(big.Float).SetPrec(prec).SetMode(mode.BigMode())
}

// bigExact converts a regular x to a big.Float without rounding.
func (x *Float) bigExact() *big.Float {
	z := new(big.Float).SetUint64(x.D[0])
	z.SetMantExp(z, int(x.Exp)-WordBits)
	if x.Sign < 0 {
		z.Neg(z)
	}
	return z
}

// bigResult converts a rounded z into a result. Sums and products of
// operands inside DefaultRange stay finite in math/big; an infinite z is
// reported as an exponent beyond any Range.
func bigResult(z *big.Float, mode RoundingMode) result {
	if z.IsInf() {
		var sign int32 = 1
		if z.Signbit() {
			sign = -1
		}
		return result{sign: sign, exp: math.MaxInt64, mant: topBit, t: ternaryOf(z.Acc(), sign)}
	}
	if z.Sign() == 0 {
		return result{zero: true, sign: cancelSign(mode)}
	}
	var sign int32 = 1
	if z.Signbit() {
		sign = -1
	}
	exp := z.MantExp(nil)
	m := new(big.Float).Abs(z)
	m.SetMantExp(m, WordBits-exp)
	w, _ := m.Uint64()
	return result{sign: sign, exp: int64(exp), mant: w, t: ternaryOf(z.Acc(), sign)}
}
