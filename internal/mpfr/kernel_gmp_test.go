//go:build gmp

package mpfr

import (
	"math/bits"
	"math/rand/v2"
	"testing"
)

func TestMulGMP(t *testing.T) {
	t.Parallel()
	r := rand.New(rand.NewPCG(3, 4))
	for range 1000 {
		x, y := r.Uint64(), r.Uint64()
		wh, wl := bits.Mul64(x, y)
		if h, l := mulGMP(x, y); h != wh || l != wl {
			t.Fatalf("mulGMP(%#x, %#x) = %#x:%#x, want %#x:%#x", x, y, h, l, wh, wl)
		}
	}
	if h, l := mulGMP(0, ^Word(0)); h != 0 || l != 0 {
		t.Errorf("mulGMP by zero = %#x:%#x", h, l)
	}
}
