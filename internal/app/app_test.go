package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/logging"
)

// run executes mpcalc with args and returns the exit code and both outputs.
func run(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a, err := New(append([]string{"mpcalc"}, args...), &stderr,
		WithInput(strings.NewReader(input)), WithLogger(logging.Nop()))
	if err != nil {
		if IsHelpError(err) {
			return apperrors.ExitSuccess, stdout.String(), stderr.String()
		}
		return apperrors.ExitCode(err), stdout.String(), stderr.String()
	}
	code := a.Run(context.Background(), &stdout)
	return code, stdout.String(), stderr.String()
}

func TestNewErrors(t *testing.T) {
	code, _, stderr := run(t, "", "-h")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stderr, "Usage:")
	assert.NotContains(t, stderr, "Error:")

	code, _, stderr = run(t, "", "-prec", "65", "add", "1", "2")
	assert.Equal(t, apperrors.ExitErrorConfig, code)
	assert.Contains(t, stderr, "Error: precision 65 out of range")
}

func TestRunOperation(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode int
	}{
		{"ties to even", []string{"-q", "add", "1", "0x1p-53"}, "1\n", apperrors.ExitSuccess},
		{"truncated product", []string{"-q", "-p", "2", "-r", "RNDZ", "mul", "3", "7"}, "16\n", apperrors.ExitSuccess},
		{"exact difference", []string{"-q", "sub", "0.75", "0.25"}, "0.5\n", apperrors.ExitSuccess},
		{"text", []string{"-kernel", "portable", "-v", "add", "1", "2"}, "kernel portable", apperrors.ExitSuccess},
		{"json", []string{"-format", "json", "-p", "2", "mul", "3", "7"}, `"ternary": 1`, apperrors.ExitSuccess},
		{"overflow", []string{"-q", "-emin", "-10", "-emax", "10", "mul", "0x1p9", "0x1p9"}, "overflow", apperrors.ExitErrorRange},
		{"saturated", []string{"-q", "-emin", "-10", "-emax", "10", "-policy", "saturate", "mul", "0x1p9", "0x1p9"}, "+Inf\n", apperrors.ExitSuccess},
		{"bad operand", []string{"-q", "add", "one", "2"}, "error:", apperrors.ExitErrorConfig},
		{"compared", []string{"-compare", "all", "add", "1", "0x1p-60"}, "all kernels agree", apperrors.ExitSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, code, "stderr: %s", stderr)
			if strings.HasSuffix(tt.wantOut, "\n") {
				assert.Equal(t, tt.wantOut, stdout)
			} else {
				assert.Contains(t, stdout, tt.wantOut)
			}
		})
	}
}

func TestRunBatch(t *testing.T) {
	input := "add 1 2\nmul 3 7 RNDZ 2 # truncated\n\nsub 0.5 2 RNDU p64\n"
	code, stdout, _ := run(t, input, "-q", "-batch", "-")
	require.Equal(t, apperrors.ExitSuccess, code)
	assert.Equal(t, "3\n16\n-1.5\n", stdout)

	path := filepath.Join(t.TempDir(), "jobs.txt")
	require.NoError(t, os.WriteFile(path, []byte("mul 0x1p9 0x1p9\n"), 0o644))
	code, stdout, _ = run(t, "", "-batch", path, "-emin", "-10", "-emax", "10")
	assert.Equal(t, apperrors.ExitErrorRange, code)
	assert.Contains(t, stdout, "range error (overflow)")

	code, _, stderr := run(t, "add 1\nfrobnicate 1 2\n", "-batch", "-")
	assert.Equal(t, apperrors.ExitErrorConfig, code)
	assert.Contains(t, stderr, "line 1")
	assert.Contains(t, stderr, "line 2")

	code, _, stderr = run(t, "", "-batch", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, apperrors.ExitErrorConfig, code)
	assert.Contains(t, stderr, "open job file")
}

func TestRunVerify(t *testing.T) {
	code, stdout, stderr := run(t, "", "-q", "-verify", "300", "-seed", "11", "-compare", "bits,portable")
	require.Equal(t, apperrors.ExitSuccess, code, "stderr: %s", stderr)
	assert.Equal(t, "300 0\n300 0\n", stdout)

	code, stdout, _ = run(t, "", "-format", "json", "-verify", "50", "-seed", "2", "-kernel", "bits")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stdout, `"reference": "bigfloat"`)
}

func TestRunMetrics(t *testing.T) {
	code, stdout, _ := run(t, "", "-q", "-kernel", "bits", "-metrics", "-", "add", "1", "2")
	require.Equal(t, apperrors.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "3\n"))
	assert.Contains(t, stdout, `mpcalc_operations_total{kernel="bits",mode="RNDN",op="add",result="exact"} 1`)

	path := filepath.Join(t.TempDir(), "metrics.prom")
	code, _, _ = run(t, "add 1 2\n", "-q", "-batch", "-", "-metrics", path)
	require.Equal(t, apperrors.ExitSuccess, code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `mpcalc_run_duration_seconds_count{command="batch"} 1`)
}

func TestRunCommands(t *testing.T) {
	code, stdout, _ := run(t, "", "-version")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "mpcalc "))

	code, stdout, _ = run(t, "", "-completion", "fish")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stdout, "complete -c mpcalc")

	code, stdout, _ = run(t, "", "-print-config", "-prec", "24")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stdout, "prec = 24")

	code, stdout, _ = run(t, "", "-info", "-format", "json")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stdout, `"kernels"`)

	code, stdout, _ = run(t, "add 2 2\nexit\n", "-repl", "-q")
	assert.Equal(t, apperrors.ExitSuccess, code)
	assert.Contains(t, stdout, "mpcalc> 4\n")
}
