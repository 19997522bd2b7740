package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the binary and checks its output and exit codes.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	tmpDir := t.TempDir()
	binName := "mpcalc"
	if runtime.GOOS == "windows" {
		binName = "mpcalc.exe"
	}
	binPath := filepath.Join(tmpDir, binName)

	// go test runs in test/e2e; build from the module root.
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/mpcalc")
	cmd.Dir = "../.."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build mpcalc: %v", err)
	}

	jobs := filepath.Join(tmpDir, "jobs.txt")
	if err := os.WriteFile(jobs, []byte("add 1 0x1p-53 RNDN 53\nmul 3 7 RNDZ 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // case-insensitive substring
		wantCode int
	}{
		{
			name:    "Round to nearest even",
			args:    []string{"-q", "add", "1", "0x1p-53"},
			wantOut: "1",
		},
		{
			name:    "Ternary in text output",
			args:    []string{"-p", "2", "-r", "RNDZ", "mul", "3", "7"},
			wantOut: "16",
		},
		{
			name:    "JSON output",
			args:    []string{"-format", "json", "sub", "1", "1"},
			wantOut: `"ternary"`,
		},
		{
			name:    "Help",
			args:    []string{"-h"},
			wantOut: "usage",
		},
		{
			name:     "Invalid precision",
			args:     []string{"-p", "65", "add", "1", "2"},
			wantOut:  "precision",
			wantCode: 4,
		},
		{
			name:     "Overflow reported",
			args:     []string{"-emin", "-10", "-emax", "10", "mul", "0x1p9", "0x1p9"},
			wantOut:  "overflow",
			wantCode: 5,
		},
		{
			name:    "Overflow saturated",
			args:    []string{"-q", "-emin", "-10", "-emax", "10", "-policy", "saturate", "mul", "0x1p9", "0x1p9"},
			wantOut: "inf",
		},
		{
			name:    "Batch across kernels",
			args:    []string{"-batch", jobs, "-compare", "all"},
			wantOut: "agree",
		},
		{
			name:    "Verify",
			args:    []string{"-verify", "2000", "-seed", "7"},
			wantOut: "against bigfloat: 2000 operations, OK",
		},
		{
			name:    "Info",
			args:    []string{"-info"},
			wantOut: "kernel",
		},
		{
			name:    "Completion",
			args:    []string{"-completion", "bash"},
			wantOut: "complete",
		},
		{
			name:    "Version Flag",
			args:    []string{"-version"},
			wantOut: "mpcalc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binPath, tt.args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			code := 0
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				code = exitErr.ExitCode()
			} else if err != nil {
				t.Fatalf("run: %v", err)
			}
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nOutput: %s", code, tt.wantCode, outStr)
			}
			if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
				t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
			}
		})
	}
}
