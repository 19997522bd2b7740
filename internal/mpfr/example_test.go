package mpfr_test

import (
	"errors"
	"fmt"

	"github.com/agbru/mpcalc/internal/mpfr"
)

func ExampleAdd1sp1() {
	a, _, _ := mpfr.Parse("1", 53, mpfr.RNDN)
	b, _, _ := mpfr.Parse("0x1p-60", 53, mpfr.RNDN)
	out := mpfr.NewFloat(53)
	ter, err := mpfr.Add1sp1(out, a, b, mpfr.RNDN, 53)
	fmt.Println(out, ter, err)
	// Output: 1 rounded down <nil>
}

func ExampleMul1() {
	a, _, _ := mpfr.Parse("1.5", 53, mpfr.RNDN)
	out := mpfr.NewFloat(53)
	ter, err := mpfr.Mul1(out, a, a, mpfr.RNDN, 53)
	fmt.Println(out, ter, err)
	// Output: 2.25 exact <nil>
}

func ExampleSelect() {
	k, err := mpfr.Select("portable", mpfr.Range{EMin: -8, EMax: 8})
	if err != nil {
		panic(err)
	}
	a, _, _ := mpfr.Parse("100", 53, mpfr.RNDN)
	out := mpfr.NewFloat(53)
	_, err = k.Mul(out, a, a, mpfr.RNDN, 53)
	var re *mpfr.RangeError
	fmt.Println(errors.As(err, &re), re.Kind, re.Exp)
	// Output: true overflow 14
}

func ExampleEnv() {
	env, _ := mpfr.NewEnv(mpfr.WithRange(mpfr.Range{EMin: -8, EMax: 8}), mpfr.WithPolicy(mpfr.PolicySaturate))
	a, _, _ := mpfr.Parse("100", 53, mpfr.RNDN)
	out := mpfr.NewFloat(53)
	ter, _ := env.Mul(out, a, a, mpfr.RNDN, 53)
	fmt.Println(out, ter, env.Flags())
	// Output: +Inf rounded up overflow|inexact
}
