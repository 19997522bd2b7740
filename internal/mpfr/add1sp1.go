package mpfr

import "math/bits"

// result is a rounded outcome waiting to be committed to an output operand.
type result struct {
	sign int32
	exp  int64
	mant Word
	t    Ternary
	zero bool
}

// commit stores r into out unless its exponent leaves rng.
func (r result) commit(op string, out *Float, prec uint, rng Range) (Ternary, error) {
	if r.zero {
		out.Prec = uint32(prec)
		out.SetZero(r.sign)
		return 0, nil
	}
	if kind := rng.check(r.exp); kind != 0 {
		return 0, &RangeError{Op: op, Kind: kind, Sign: r.sign, Exp: r.exp, Mant: r.mant, Ternary: r.t, Range: rng}
	}
	out.Prec = uint32(prec)
	out.Sign = r.sign
	out.Exp = int32(r.exp)
	out.D[0] = r.mant
	return r.t, nil
}

// cancelSign is the sign of an exact zero sum of nonzero operands.
func cancelSign(mode RoundingMode) int32 {
	if mode == RNDD {
		return -1
	}
	return 1
}

// add1sp1 adds two regular single-word operands, b taken with sign bSign,
// and rounds the sum to prec bits. Operands of opposite sign are subtracted.
func add1sp1(a, b *Float, bSign int32, mode RoundingMode, prec uint) result {
	aSign := a.Sign
	if a.cmpAbs(b) < 0 {
		a, b = b, a
		aSign, bSign = bSign, aSign
	}
	ma, mb := a.D[0], b.D[0]
	exp := int64(a.Exp)
	d := uint64(exp - int64(b.Exp))

	// b aligned to a as a 128-bit value bh:bl; sticky collects what falls off.
	var bh, bl Word
	var sticky bool
	switch {
	case d < WordBits:
		bh = mb >> d
		if d > 0 {
			bl = mb << (WordBits - d)
		}
	case d < 2*WordBits:
		bl = mb >> (d - WordBits)
		sticky = mb<<(2*WordBits-d) != 0
	default:
		sticky = true
	}

	var hi, lo Word
	if aSign == bSign {
		var c Word
		lo = bl
		hi, c = bits.Add64(ma, bh, 0)
		if c != 0 {
			sticky = sticky || lo&1 != 0
			lo = lo>>1 | hi<<(WordBits-1)
			hi = hi>>1 | topBit
			exp++
		}
	} else {
		var bw Word
		lo, bw = bits.Sub64(0, bl, 0)
		hi, _ = bits.Sub64(ma, bh, bw)
		if sticky {
			// a - (b + e) = (a - b - 1) + (1 - e) with 0 < 1-e < 1
			lo, bw = bits.Sub64(lo, 1, 0)
			hi -= bw
		}
		if hi == 0 && lo == 0 && !sticky {
			return result{zero: true, sign: cancelSign(mode)}
		}
		if hi == 0 {
			hi, lo = lo, 0
			exp -= WordBits
		}
		if s := uint(bits.LeadingZeros64(hi)); s > 0 {
			hi = hi<<s | lo>>(WordBits-s)
			lo <<= s
			exp -= int64(s)
		}
	}

	m, carry, t := roundWord(hi, lo, sticky, prec, mode, aSign)
	if carry {
		exp++
	}
	return result{sign: aSign, exp: exp, mant: m, t: t}
}

// roundValue rounds a single regular operand, taken with the given sign, to
// prec bits.
func roundValue(x *Float, sign int32, mode RoundingMode, prec uint) result {
	m, carry, t := roundWord(x.D[0], 0, false, prec, mode, sign)
	exp := int64(x.Exp)
	if carry {
		exp++
	}
	return result{sign: sign, exp: exp, mant: m, t: t}
}
