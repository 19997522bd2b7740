package mpfr_test

import (
	"testing"

	"github.com/agbru/mpcalc/internal/mpfr"
)

func FuzzKernelsAgree(f *testing.F) {
	f.Add(uint64(1<<63), uint64(1<<63), int16(1), int16(-59), uint8(53), uint8(53), uint8(53), uint8(0), false, false)
	f.Add(^uint64(0), uint64(1), int16(0), int16(-64), uint8(64), uint8(64), uint8(64), uint8(4), false, true)
	f.Add(uint64(0xF000000000000000), uint64(1<<63), int16(1), int16(-3), uint8(4), uint8(1), uint8(4), uint8(0), false, false)
	f.Add(uint64(0x8000000000000800), uint64(0x8000000000000800), int16(1), int16(1), uint8(53), uint8(53), uint8(53), uint8(1), true, false)

	ks := allKernels(f, mpfr.DefaultRange)
	f.Fuzz(func(t *testing.T, ma, mb uint64, ea, eb int16, pa, pb, p, mode uint8, na, nb bool) {
		a := operand(ma, int32(ea), uint(pa%64)+1, na)
		b := operand(mb, int32(eb), uint(pb%64)+1, nb)
		prec := uint(p%64) + 1
		rm := mpfr.RoundingModes[int(mode)%len(mpfr.RoundingModes)]

		for _, op := range []opFunc{kernelAdd, kernelMul} {
			var first *mpfr.Float
			var firstT mpfr.Ternary
			for _, k := range ks {
				out := mpfr.NewFloat(prec)
				ter, err := op(k, out, a, b, rm, prec)
				if err != nil {
					t.Fatalf("%s: %v", k.Name(), err)
				}
				if first == nil {
					first, firstT = out, ter
					continue
				}
				if ter != firstT || !sameFloat(out, first) || out.Mant() != first.Mant() {
					t.Fatalf("%s disagrees on %s, %s %v p=%d: %s (%d) vs %s (%d)",
						k.Name(), a.Text('p', 0), b.Text('p', 0), rm, prec, out.Text('p', 0), ter, first.Text('p', 0), firstT)
				}
			}
		}
	})
}
