package mpfr

import (
	"fmt"
	"math/big"
	"strings"
)

// RoundingMode selects how an exact result is mapped to a representable one.
type RoundingMode uint8

// The values follow the order of the C enumeration they replace.
const (
	RNDN RoundingMode = iota // to nearest, ties to even
	RNDZ                     // toward zero
	RNDU                     // toward +Inf
	RNDD                     // toward -Inf
	RNDA                     // away from zero
)

// RoundingModes lists every mode in enumeration order.
var RoundingModes = []RoundingMode{RNDN, RNDZ, RNDU, RNDD, RNDA}

var modeNames = [...]string{"RNDN", "RNDZ", "RNDU", "RNDD", "RNDA"}

func (m RoundingMode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("RoundingMode(%d)", uint8(m))
}

// Valid reports whether m is one of the five defined modes.
func (m RoundingMode) Valid() bool { return m <= RNDA }

// BigMode returns the math/big rounding mode with the same semantics.
func (m RoundingMode) BigMode() big.RoundingMode {
	switch m {
	case RNDZ:
		return big.ToZero
	case RNDU:
		return big.ToPositiveInf
	case RNDD:
		return big.ToNegativeInf
	case RNDA:
		return big.AwayFromZero
	}
	return big.ToNearestEven
}

// ParseRoundingMode accepts the enumeration names (with or without the RND
// prefix, any case) and a few descriptive aliases.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rndn", "n", "nearest", "even":
		return RNDN, nil
	case "rndz", "z", "zero", "trunc":
		return RNDZ, nil
	case "rndu", "u", "up", "+inf", "ceil":
		return RNDU, nil
	case "rndd", "d", "down", "-inf", "floor":
		return RNDD, nil
	case "rnda", "a", "away":
		return RNDA, nil
	}
	return 0, fmt.Errorf("mpfr: unknown rounding mode %q", s)
}

// Ternary is the rounding status of an operation: negative if the stored
// result is smaller in magnitude than the exact one, positive if larger,
// zero if the result is exact.
type Ternary int32

// Exact reports whether t describes an exact result.
func (t Ternary) Exact() bool { return t == 0 }

func (t Ternary) String() string {
	switch {
	case t < 0:
		return "rounded down"
	case t > 0:
		return "rounded up"
	}
	return "exact"
}

// Accuracy converts t to math/big's signed convention for a result of the
// given sign.
func (t Ternary) Accuracy(sign int32) big.Accuracy {
	if t == 0 {
		return big.Exact
	}
	up := t > 0
	if sign < 0 {
		up = !up
	}
	if up {
		return big.Above
	}
	return big.Below
}

// ternaryOf converts a math/big accuracy for a result of the given sign.
func ternaryOf(acc big.Accuracy, sign int32) Ternary {
	var t Ternary
	switch acc {
	case big.Above:
		t = 1
	case big.Below:
		t = -1
	default:
		return 0
	}
	if sign < 0 {
		t = -t
	}
	return t
}

// roundWord rounds the normalized 128-bit significand hi:lo, whose exact
// value may exceed hi:lo by less than one unit of lo when sticky is set, to
// prec bits. It returns the rounded word, whether rounding carried out of
// the word (the result is then topBit and the exponent must grow by one),
// and the ternary status.
func roundWord(hi, lo Word, sticky bool, prec uint, mode RoundingMode, sign int32) (m Word, carry bool, t Ternary) {
	var kept, ulp Word
	var rbit, rest bool
	if prec == WordBits {
		kept, ulp = hi, 1
		rbit = lo&topBit != 0
		rest = lo<<1 != 0 || sticky
	} else {
		sh := WordBits - prec
		ulp = 1 << sh
		mask := ulp - 1
		kept = hi &^ mask
		rbit = hi&(ulp>>1) != 0
		rest = hi&(mask>>1) != 0 || lo != 0 || sticky
	}
	if !rbit && !rest {
		return kept, false, 0
	}

	var inc bool
	switch mode {
	case RNDN:
		inc = rbit && (rest || kept&ulp != 0)
	case RNDZ:
		inc = false
	case RNDU:
		inc = sign > 0
	case RNDD:
		inc = sign < 0
	case RNDA:
		inc = true
	}
	if !inc {
		return kept, false, -1
	}
	kept += ulp
	if kept == 0 {
		return topBit, true, 1
	}
	return kept, false, 1
}
