package mpfr

// mulFunc returns the 128-bit product of two words.
type mulFunc func(x, y Word) (hi, lo Word)

// mul1 multiplies two regular single-word operands and rounds the product to
// prec bits.
func mul1(mulWW mulFunc, a, b *Float, mode RoundingMode, prec uint) result {
	sign := a.Sign * b.Sign
	hi, lo := mulWW(a.D[0], b.D[0])
	exp := int64(a.Exp) + int64(b.Exp)
	// both significands are in [1/2, 1), so the product is in [1/4, 1)
	if hi&topBit == 0 {
		hi = hi<<1 | lo>>(WordBits-1)
		lo <<= 1
		exp--
	}
	m, carry, t := roundWord(hi, lo, false, prec, mode, sign)
	if carry {
		exp++
	}
	return result{sign: sign, exp: exp, mant: m, t: t}
}
