package mpfr_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/agbru/mpcalc/internal/mpfr"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		prec  uint
		mode  mpfr.RoundingMode
		want  float64
		wantT mpfr.Ternary
	}{
		{"1.5", 53, mpfr.RNDN, 1.5, 0},
		{"0.1", 53, mpfr.RNDN, 0.1, 1},
		{"0.1", 53, mpfr.RNDZ, 0.09999999999999999, -1},
		{"-0.1", 53, mpfr.RNDN, -0.1, 1},
		{"0x1.8p3", 2, mpfr.RNDN, 12, 0},
		{"7", 2, mpfr.RNDN, 8, 1},
		{"7", 2, mpfr.RNDD, 6, -1},
		{" 1e3 ", 24, mpfr.RNDN, 1000, 0},
		{"0b101", 3, mpfr.RNDN, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, ter, err := mpfr.Parse(tt.in, tt.prec, tt.mode)
			if err != nil {
				t.Fatal(err)
			}
			if f, _ := x.Float64(); f != tt.want || ter != tt.wantT {
				t.Errorf("Parse(%q, %d, %v) = %v (%d), want %v (%d)", tt.in, tt.prec, tt.mode, f, ter, tt.want, tt.wantT)
			}
			if x.Prec != uint32(tt.prec) {
				t.Errorf("Prec = %d, want %d", x.Prec, tt.prec)
			}
		})
	}
}

func TestParseSpecialsAndErrors(t *testing.T) {
	t.Parallel()
	for s, check := range map[string]func(*mpfr.Float) bool{
		"nan":       (*mpfr.Float).IsNaN,
		"-Inf":      func(x *mpfr.Float) bool { return x.IsInf() && x.Signbit() },
		"+infinity": func(x *mpfr.Float) bool { return x.IsInf() && !x.Signbit() },
		"-0":        func(x *mpfr.Float) bool { return x.IsZero() && x.Signbit() },
		"0":         func(x *mpfr.Float) bool { return x.IsZero() && !x.Signbit() },
	} {
		x, ter, err := mpfr.Parse(s, 10, mpfr.RNDN)
		if err != nil || ter != 0 || !check(x) {
			t.Errorf("Parse(%q) = %v, %d, %v", s, x, ter, err)
		}
	}
	if _, _, err := mpfr.Parse("1.2.3", 53, mpfr.RNDN); err == nil {
		t.Error("Parse accepted a malformed number")
	}
	if _, _, err := mpfr.Parse("1", 65, mpfr.RNDN); !errors.Is(err, mpfr.ErrInvalidPrecision) {
		t.Errorf("Parse with prec 65: err = %v", err)
	}
	if _, _, err := mpfr.Parse("0x1p2000000000", 53, mpfr.RNDN); !errors.Is(err, mpfr.ErrRangeExceeded) {
		t.Errorf("Parse of a huge value: err = %v", err)
	}
}

func TestSetBigAndFloat64(t *testing.T) {
	t.Parallel()
	z := mpfr.NewFloat(53)
	huge := new(big.Float).SetMantExp(big.NewFloat(0.5), int(mpfr.MaxEMax)+1)
	if _, err := z.SetBig(huge, mpfr.RNDN, 53); !errors.Is(err, mpfr.ErrRangeExceeded) {
		t.Errorf("SetBig(huge) err = %v", err)
	}
	if !z.IsZero() {
		t.Errorf("z modified by failed SetBig: %s", z)
	}

	if ter, err := z.SetFloat64(math.Pi, mpfr.RNDZ, 10); err != nil || ter != -1 {
		t.Errorf("SetFloat64(pi) = %d, %v", ter, err)
	}
	if f, acc := z.Float64(); f != 3.140625 || acc != big.Exact {
		t.Errorf("Float64() = %v, %v, want 3.140625 exact", f, acc)
	}
	if _, err := z.SetFloat64(math.NaN(), mpfr.RNDN, 10); err != nil || !z.IsNaN() {
		t.Errorf("SetFloat64(NaN) = %s, %v", z, err)
	}
	if f, _ := z.Float64(); !math.IsNaN(f) {
		t.Errorf("Float64() of NaN = %v", f)
	}
	if _, err := z.Big(); !errors.Is(err, mpfr.ErrNaN) {
		t.Errorf("Big() of NaN err = %v", err)
	}
	if _, err := (&mpfr.Float{Sign: 1}).SetFloat64(1, mpfr.RNDN, 10); !errors.Is(err, mpfr.ErrInvalidOperand) {
		t.Errorf("SetFloat64 without storage err = %v", err)
	}
}

func TestFormatting(t *testing.T) {
	t.Parallel()
	x := mustParse(t, "0.1", 53)
	if s := x.String(); s != "0.1000000000000000055511151231257827021181583404541015625" {
		t.Errorf("String() = %q", s)
	}
	tests := []struct {
		in   string
		prec uint
		mode mpfr.RoundingMode
		want string
	}{
		{"21", 2, mpfr.RNDZ, "16"},
		{"1000", 53, mpfr.RNDN, "1000"},
		{"-1.5", 53, mpfr.RNDN, "-1.5"},
		{"0x1p70", 53, mpfr.RNDN, "1180591620717411303424"},
		{"0x1p-53", 53, mpfr.RNDN, "1.1102230246251565404236316680908203125e-16"},
		{"0x1.0000000000001p0", 53, mpfr.RNDN, "1.0000000000000002220446049250313080847263336181640625"},
		{"0x1p5000", 53, mpfr.RNDN, "0x.8p+5001"},
		{"-0", 53, mpfr.RNDN, "-0"},
	}
	for _, tt := range tests {
		f, _, err := mpfr.Parse(tt.in, tt.prec, tt.mode)
		if err != nil {
			t.Fatal(err)
		}
		if s := f.String(); s != tt.want {
			t.Errorf("Parse(%q, %d).String() = %q, want %q", tt.in, tt.prec, s, tt.want)
		}
		if s := fmt.Sprintf("%s|%v", f, f); s != tt.want+"|"+tt.want {
			t.Errorf("%%s|%%v of %q = %q", tt.in, s)
		}
	}
	if s := fmt.Sprintf("%.3f", x); s != "0.100" {
		t.Errorf("%%.3f = %q", s)
	}
	if s := mustParse(t, "2.5", 53).Text('p', 0); s != "0x.ap+2" {
		t.Errorf("Text('p') = %q", s)
	}
	if s := fmt.Sprint(mustParse(t, "nan", 53)); s != "NaN" {
		t.Errorf("NaN prints as %q", s)
	}
	if s := mustParse(t, "-inf", 53).String(); s != "-Inf" {
		t.Errorf("-Inf prints as %q", s)
	}
}

func TestFloatHelpers(t *testing.T) {
	t.Parallel()
	x := mustParse(t, "-3", 53)
	y := new(mpfr.Float).Neg(x)
	if len(y.D) != 1 || y.Cmp(mustParse(t, "3", 53)) != 0 {
		t.Errorf("Neg into a value without storage: %+v", y)
	}
	bare := &mpfr.Float{Prec: 53, Sign: -1, Exp: 2}
	if bare.Cmp(x) != 1 {
		t.Error("a regular value without storage compares as a zero significand")
	}
	y = mpfr.NewFloat(53).Neg(x)
	if y.Cmp(mustParse(t, "3", 53)) != 0 || x.Cmp(y) != -1 || y.Cmp(x) != 1 {
		t.Errorf("Neg(-3) = %s", y)
	}
	inf := mustParse(t, "inf", 53)
	if inf.Cmp(y) != 1 || mustParse(t, "-inf", 53).Cmp(x) != -1 || inf.Cmp(inf) != 0 {
		t.Error("infinities compare wrongly")
	}
	if mustParse(t, "-0", 53).Cmp(mustParse(t, "0", 53)) != 0 {
		t.Error("-0 and +0 compare unequal")
	}
	if !inf.IsSingular() || x.IsSingular() || x.Mant() != 0xC000000000000000 || inf.Mant() != 0 {
		t.Errorf("singular/mant helpers: %v %v %#x %#x", inf.IsSingular(), x.IsSingular(), x.Mant(), inf.Mant())
	}
	c := mpfr.NewFloat(1).Copy(x)
	if c.Prec != 53 || c.Cmp(x) != 0 || &c.D[0] == &x.D[0] {
		t.Errorf("Copy = %+v", c)
	}
}
