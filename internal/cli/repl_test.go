package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/mpcalc/internal/mpfr"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer) {
	t.Helper()
	r, err := NewREPL(REPLConfig{
		Kernel: "bits",
		Mode:   mpfr.RNDN,
		Prec:   53,
		Range:  mpfr.Range{EMin: -10, EMax: 10},
		Policy: mpfr.PolicyReport,
	}, Presenter{Format: "text", Quiet: true})
	require.NoError(t, err)
	var out bytes.Buffer
	r.SetInput(strings.NewReader(input))
	r.SetOutput(&out)
	return r, &out
}

func TestREPLSession(t *testing.T) {
	t.Parallel()
	input := strings.Join([]string{
		"add 1 2",
		"1.5 * 3",
		"mode RNDZ",
		"prec 2",
		"mul 3 3",
		"flags",
		"flags clear",
		"kernel portable",
		"0x1p9 * 0x1p9",
		"flags",
		"status",
		"exit",
		"add 1 1",
	}, "\n")
	r, out := newTestREPL(t, input)
	r.Start()

	got := out.String()
	for _, want := range []string{
		"mpcalc> 3\n",
		"mpcalc> 4.5\n",
		"Rounding mode: RNDZ",
		"Precision: 2 bits",
		"mpcalc> 8\n", // 9 truncated to two bits
		"Flags: inexact",
		"Cleared: inexact",
		"Kernel: portable",
		"error: mpfr: mul overflow",
		"Flags: overflow|inexact",
		"Range:      [-10, 10]",
		"Goodbye!",
	} {
		assert.Contains(t, got, want)
	}
	assert.NotContains(t, got, "mpcalc> 2\n", "commands after exit are not run")
}

func TestREPLErrors(t *testing.T) {
	t.Parallel()
	input := "div 1 2\nadd 1\nadd x 1\nmode sideways\nprec 65\nprec\nkernel quantum\nhelp\n"
	r, out := newTestREPL(t, input)
	r.Start()

	got := out.String()
	for _, want := range []string{
		"unknown command: div",
		"usage: add <a> <b>",
		`parse "x"`,
		"sideways",
		`invalid precision "65"`,
		"usage: prec <bits>",
		`unknown kernel "quantum"`,
		"Commands:",
		"Goodbye!",
	} {
		assert.Contains(t, got, want)
	}
}

func TestREPLKeepsFlagsAcrossKernels(t *testing.T) {
	t.Parallel()
	r, out := newTestREPL(t, "add 1 0x1p-60\nkernel auto\nflags\n")
	r.Start()
	assert.Contains(t, out.String(), "Flags: inexact")
	assert.Equal(t, mpfr.Detect(), r.config.Kernel)
}

func TestNewREPLUnknownKernel(t *testing.T) {
	t.Parallel()
	_, err := NewREPL(REPLConfig{Kernel: "quantum", Range: mpfr.DefaultRange}, Presenter{})
	assert.ErrorIs(t, err, mpfr.ErrUnknownKernel)
}
