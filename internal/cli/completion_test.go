package cli

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/mpcalc/internal/config"
)

var testKernels = []string{"bigfloat", "bits", "portable"}

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{"complete -F _mpcalc_completions mpcalc", `kernels="auto bigfloat bits portable"`, "-mode|-r)", "-config|-batch|-metrics)", "RNDN RNDZ RNDU RNDD RNDA", "add sub mul"}},
		{"zsh", []string{"#compdef mpcalc", "kernels=(auto bigfloat bits portable)", `'(-p -prec)'{-p,-prec}'[Result precision in bits]:bits:(8 11 24 53 64)'`, "'-batch[Evaluate a job file]:file:_files'", "'1:operation:(add sub mul)'"}},
		{"fish", []string{"complete -c mpcalc -f", "complete -c mpcalc -o kernel -d 'Arithmetic kernel' -xa 'auto bigfloat bits portable'", "complete -c mpcalc -o quiet -o q -d 'Print only the result'", "-o batch -d 'Evaluate a job file' -rF"}},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell, testKernels))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}

	err := GenerateCompletion(io.Discard, "powershell", testKernels)
	assert.ErrorContains(t, err, "unsupported shell")
}

// Every flag ParseConfig defines must be completable, and the registry must
// not advertise flags that do not exist.
func TestFlagRegistryMatchesConfig(t *testing.T) {
	t.Parallel()
	var usage bytes.Buffer
	_, err := config.ParseConfig("mpcalc", []string{"-h"}, &usage, testKernels)
	require.ErrorIs(t, err, flag.ErrHelp)

	defined := map[string]bool{}
	for _, line := range strings.Split(usage.String(), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			defined[strings.TrimPrefix(strings.Fields(line)[0], "-")] = true
		}
	}
	registered := map[string]bool{}
	for _, f := range flagRegistry {
		registered[f.Name] = true
		assert.True(t, defined[f.Name], "-%s is not a flag", f.Name)
		if f.Alias != "" {
			registered[f.Alias] = true
			assert.True(t, defined[f.Alias], "-%s is not a flag", f.Alias)
		}
	}
	for name := range defined {
		assert.True(t, registered[name], "-%s has no completion entry", name)
	}
}
