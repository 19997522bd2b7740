//go:build gmp

package mpfr

import (
	"encoding/binary"

	"github.com/ncw/gmp"
)

func init() {
	register("gmp", func(rng Range) Kernel {
		return &wordKernel{name: "gmp", mulWW: mulGMP, rng: rng}
	})
}

// mulGMP forms the double-word product through libgmp.
func mulGMP(x, y Word) (hi, lo Word) {
	z := new(gmp.Int).SetUint64(x)
	z.Mul(z, new(gmp.Int).SetUint64(y))
	var buf [16]byte
	b := z.Bytes()
	copy(buf[len(buf)-len(b):], b)
	return binary.BigEndian.Uint64(buf[:8]), binary.BigEndian.Uint64(buf[8:])
}
