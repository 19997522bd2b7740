package mpfr

// checkArgs validates the operands shared by every kernel operation. Regular
// operands must have an exponent inside rng.
func checkArgs(out, a, b *Float, mode RoundingMode, prec uint, rng Range) error {
	if err := checkPrec(prec); err != nil {
		return err
	}
	if !mode.Valid() {
		return errOperand("rounding mode %d", uint8(mode))
	}
	if out == nil || len(out.D) == 0 {
		return errOperand("output has no significand storage")
	}
	for _, x := range [2]*Float{a, b} {
		if err := x.validate(); err != nil {
			return err
		}
		if !x.IsSingular() && rng.check(int64(x.Exp)) != 0 {
			return errOperand("exponent %d outside %s", x.Exp, rng)
		}
	}
	return nil
}

// addSpecial computes a + b when at least one operand is singular. bSign
// replaces the sign of b, so that subtraction needs no negated copy.
func addSpecial(out, a, b *Float, bSign int32, mode RoundingMode, prec uint, rng Range) (Ternary, error) {
	switch {
	case a.IsNaN() || b.IsNaN():
		out.SetNaN()
	case a.IsInf() && b.IsInf() && a.Sign != bSign:
		out.SetNaN()
	case a.IsInf():
		out.SetInf(a.Sign)
	case b.IsInf():
		out.SetInf(bSign)
	case a.IsZero() && b.IsZero():
		sign := a.Sign
		if a.Sign != bSign {
			sign = cancelSign(mode)
		}
		out.SetZero(sign)
	case a.IsZero():
		return roundValue(b, bSign, mode, prec).commit("add", out, prec, rng)
	default:
		return roundValue(a, a.Sign, mode, prec).commit("add", out, prec, rng)
	}
	out.Prec = uint32(prec)
	return 0, nil
}

// mulSpecial computes a × b when at least one operand is singular.
func mulSpecial(out, a, b *Float, prec uint) (Ternary, error) {
	sign := a.Sign * b.Sign
	switch {
	case a.IsNaN() || b.IsNaN():
		out.SetNaN()
	case a.IsInf() && b.IsZero(), a.IsZero() && b.IsInf():
		out.SetNaN()
	case a.IsInf() || b.IsInf():
		out.SetInf(sign)
	default:
		out.SetZero(sign)
	}
	out.Prec = uint32(prec)
	return 0, nil
}

// negated returns a shallow copy of x with the opposite sign. The storage is
// shared and only read. Kernels outside this package subtract through it.
func negated(x *Float) *Float {
	n := *x
	if !n.IsNaN() {
		n.Sign = -n.Sign
	}
	return &n
}
