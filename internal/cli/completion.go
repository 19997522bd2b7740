package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/agbru/mpcalc/internal/config"
	"github.com/agbru/mpcalc/internal/mpfr"
)

// FlagCompletion describes a flag for shell completion. Every generator
// reads flagRegistry, so a new flag only needs an entry there.
type FlagCompletion struct {
	Name      string   // flag name without the dash
	Alias     string   // single-letter alias, if any
	Help      string   // description text
	Values    []string // suggested values (nil = none)
	ValueName string   // label of the value; empty for boolean flags
	IsFile    bool     // the flag takes a file path
	IsKernel  bool     // values come from the kernel registry
}

var flagRegistry = []FlagCompletion{
	{Name: "prec", Alias: "p", Help: "Result precision in bits", Values: []string{"8", "11", "24", "53", "64"}, ValueName: "bits"},
	{Name: "mode", Alias: "r", Help: "Rounding mode", Values: []string{"RNDN", "RNDZ", "RNDU", "RNDD", "RNDA"}, ValueName: "mode"},
	{Name: "kernel", Help: "Arithmetic kernel", IsKernel: true, ValueName: "kernel"},
	{Name: "emin", Help: "Smallest allowed exponent", ValueName: "exponent"},
	{Name: "emax", Help: "Largest allowed exponent", ValueName: "exponent"},
	{Name: "policy", Help: "Out-of-range results", Values: []string{"report", "saturate"}, ValueName: "policy"},
	{Name: "format", Help: "Output format", Values: []string{"text", "json"}, ValueName: "format"},
	{Name: "verbose", Alias: "v", Help: "Verbose output"},
	{Name: "quiet", Alias: "q", Help: "Print only the result"},
	{Name: "no-color", Help: "Disable colored output"},
	{Name: "timeout", Help: "Maximum run time", Values: []string{"10s", "1m", "5m"}, ValueName: "duration"},
	{Name: "config", Help: "TOML configuration file", IsFile: true, ValueName: "file"},
	{Name: "batch", Help: "Evaluate a job file", IsFile: true, ValueName: "file"},
	{Name: "compare", Help: "Kernels to cross-check", IsKernel: true, ValueName: "kernels"},
	{Name: "verify", Help: "Random operations to verify", Values: []string{"10000", "100000", "1000000"}, ValueName: "count"},
	{Name: "seed", Help: "Seed for -verify", ValueName: "seed"},
	{Name: "workers", Help: "Concurrent workers", ValueName: "count"},
	{Name: "repl", Help: "Interactive session"},
	{Name: "info", Help: "Show kernels and host information"},
	{Name: "completion", Help: "Print a completion script", Values: config.CompletionShells, ValueName: "shell"},
	{Name: "print-config", Help: "Print the effective configuration"},
	{Name: "version", Help: "Print the version"},
	{Name: "metrics", Help: "Write Prometheus metrics on exit", IsFile: true, ValueName: "file"},
	{Name: "metrics-addr", Help: "Serve Prometheus metrics", ValueName: "address"},
}

// GenerateCompletion writes a completion script for shell to out.
func GenerateCompletion(out io.Writer, shell string, kernels []string) error {
	kernelList := strings.Join(append([]string{mpfr.Auto}, kernels...), " ")
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(kernelList)
	case "zsh":
		script = zshCompletion(kernelList)
	case "fish":
		script = fishCompletion(kernelList)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: %s)", shell, strings.Join(config.CompletionShells, ", "))
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func flagNames(f FlagCompletion) []string {
	names := []string{"-" + f.Name}
	if f.Alias != "" {
		names = append(names, "-"+f.Alias)
	}
	return names
}

func bashCompletion(kernelList string) string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, flagNames(f)...)
		patterns := strings.Join(flagNames(f), "|")
		switch {
		case f.IsFile:
			files = append(files, flagNames(f)...)
		case f.IsKernel:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"${kernels}\" -- \"${cur}\") )\n            return 0\n            ;;\n", patterns)
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n", patterns, strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n", strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for mpcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_mpcalc_completions() {
    local cur prev opts kernels
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"
    kernels="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "%s" -- "${cur}") )
    fi
}

complete -F _mpcalc_completions mpcalc
`, strings.Join(opts, " "), kernelList, cases.String(), strings.Join(config.Operations, " "))
}

// zshArgEntry formats f as a zsh _arguments entry.
func zshArgEntry(f FlagCompletion) string {
	suffix := ""
	switch {
	case f.IsFile:
		suffix = fmt.Sprintf(":%s:_files", f.ValueName)
	case f.IsKernel:
		suffix = fmt.Sprintf(":%s:($kernels)", f.ValueName)
	case len(f.Values) > 0:
		suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
	case f.ValueName != "":
		suffix = fmt.Sprintf(":%s:", f.ValueName)
	}
	if f.Alias != "" {
		return fmt.Sprintf("        '(-%s -%s)'{-%s,-%s}'[%s]%s'", f.Alias, f.Name, f.Alias, f.Name, f.Help, suffix)
	}
	return fmt.Sprintf("        '-%s[%s]%s'", f.Name, f.Help, suffix)
}

func zshCompletion(kernelList string) string {
	args := make([]string, 0, len(flagRegistry)+1)
	for _, f := range flagRegistry {
		args = append(args, zshArgEntry(f))
	}
	args = append(args, fmt.Sprintf("        '1:operation:(%s)'", strings.Join(config.Operations, " ")))

	return fmt.Sprintf(`#compdef mpcalc

# Zsh completion script for mpcalc
# Place this file in a directory of your $fpath

_mpcalc() {
    local -a kernels
    kernels=(%s)

    _arguments -s \
%s
}

_mpcalc "$@"
`, kernelList, strings.Join(args, " \\\n"))
}

// fishCompleteLine formats f as a fish complete command.
func fishCompleteLine(f FlagCompletion, kernelList string) string {
	parts := []string{"complete -c mpcalc", "-o " + f.Name}
	if f.Alias != "" {
		parts = append(parts, "-o "+f.Alias)
	}
	parts = append(parts, fmt.Sprintf("-d '%s'", f.Help))
	switch {
	case f.IsFile:
		parts = append(parts, "-rF")
	case f.IsKernel:
		parts = append(parts, fmt.Sprintf("-xa '%s'", kernelList))
	case len(f.Values) > 0:
		parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
	case f.ValueName != "":
		parts = append(parts, "-x")
	}
	return strings.Join(parts, " ")
}

func fishCompletion(kernelList string) string {
	lines := []string{
		"# Fish completion script for mpcalc",
		"# Add this to ~/.config/fish/completions/mpcalc.fish",
		"",
		"complete -c mpcalc -f",
		fmt.Sprintf("complete -c mpcalc -n '__fish_is_first_arg' -a '%s'", strings.Join(config.Operations, " ")),
	}
	for _, f := range flagRegistry {
		lines = append(lines, fishCompleteLine(f, kernelList))
	}
	return strings.Join(lines, "\n") + "\n"
}
