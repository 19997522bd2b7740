package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/mpcalc/internal/batch"
	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/mpfr"
	"github.com/agbru/mpcalc/internal/ui"
)

// REPLConfig holds the initial settings of an interactive session.
type REPLConfig struct {
	Kernel string
	Mode   mpfr.RoundingMode
	Prec   uint
	Range  mpfr.Range
	Policy mpfr.RangePolicy
	Logger logging.Logger
}

// REPL is an interactive calculator session. The flags raised by its
// operations accumulate until cleared with the "flags clear" command.
type REPL struct {
	config    REPLConfig
	env       *mpfr.Env
	presenter Presenter
	in        io.Reader
	out       io.Writer
}

// NewREPL creates a session on the configured kernel.
func NewREPL(config REPLConfig, presenter Presenter) (*REPL, error) {
	r := &REPL{config: config, presenter: presenter, in: os.Stdin, out: os.Stdout}
	if err := r.setKernel(config.Kernel); err != nil {
		return nil, err
	}
	return r, nil
}

// SetInput sets a custom input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets a custom output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

func (r *REPL) setKernel(name string) error {
	flags := mpfr.Flags(0)
	if r.env != nil {
		flags = r.env.Flags()
	}
	env, err := mpfr.NewEnv(
		mpfr.WithKernelName(name),
		mpfr.WithRange(r.config.Range),
		mpfr.WithPolicy(r.config.Policy),
		mpfr.WithLogger(r.config.Logger),
	)
	if err != nil {
		return err
	}
	if flags != 0 {
		// carry the sticky flags over to the new kernel
		env.Raise(flags)
	}
	r.env = env
	r.config.Kernel = env.Kernel().Name()
	return nil
}

// Start reads commands until "exit" or end of input.
func (r *REPL) Start() {
	fmt.Fprintf(r.out, "%s  kernel %s, %s, %d bits. Type %s for commands.\n",
		ui.Title("mpcalc interactive mode"), r.config.Kernel, r.config.Mode, r.config.Prec, ui.Value("help"))

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.Exact("mpcalc> "))
		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%s %v\n", ui.Failure("read error:"), err)
			return
		}
		if input = strings.TrimSpace(input); input != "" && !r.processCommand(input) {
			return
		}
		if err != nil {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printHelp() {
	cmds := [][2]string{
		{"add|sub|mul <a> <b>", "Evaluate an operation (also: <a> + <b>, <a> - <b>, <a> * <b>)"},
		{"mode <mode>", "Set the rounding mode (RNDN, RNDZ, RNDU, RNDD, RNDA)"},
		{"prec <bits>", fmt.Sprintf("Set the result precision (1-%d)", mpfr.WordBits)},
		{"kernel <name>", "Switch kernel (" + strings.Join(mpfr.Kernels(), ", ") + ")"},
		{"flags [clear]", "Show or clear the accumulated exception flags"},
		{"status", "Show the current settings"},
		{"help", "Show this help"},
		{"exit", "Leave interactive mode"},
	}
	fmt.Fprintln(r.out, ui.Title("Commands:"))
	for _, c := range cmds {
		fmt.Fprintf(r.out, "  %-22s %s\n", c[0], ui.Dim(c[1]))
	}
}

var infixOps = map[string]string{"+": "add", "-": "sub", "*": "mul"}

// processCommand runs one command line and reports whether to continue.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	if len(parts) == 3 {
		if op, ok := infixOps[parts[1]]; ok {
			r.evaluate(op, parts[0], parts[2])
			return true
		}
	}
	switch cmd {
	case "add", "sub", "mul":
		if len(args) != 2 {
			r.fail("usage: %s <a> <b>", cmd)
			return true
		}
		r.evaluate(cmd, args[0], args[1])
	case "mode", "m":
		r.cmdMode(args)
	case "prec", "p":
		r.cmdPrec(args)
	case "kernel", "k":
		r.cmdKernel(args)
	case "flags", "f":
		r.cmdFlags(args)
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Goodbye!")
		return false
	default:
		r.fail("unknown command: %s (type help)", cmd)
	}
	return true
}

func (r *REPL) fail(format string, args ...any) {
	fmt.Fprintln(r.out, ui.Failure(fmt.Sprintf(format, args...)))
}

func (r *REPL) evaluate(op, a, b string) {
	job := batch.Job{Op: op, A: a, B: b, Mode: r.config.Mode, Prec: r.config.Prec}
	x, y, err := job.Operands()
	if err != nil {
		r.fail("%v", err)
		return
	}
	res := batch.Result{Job: job, Kernel: r.config.Kernel}
	out := mpfr.NewFloat(job.Prec)
	before := r.env.Flags()
	start := time.Now()
	res.Ternary, res.Err = batch.Apply(r.env, op, out, x, y, job.Mode, job.Prec)
	res.Elapsed = time.Since(start)
	if res.Err == nil {
		res.Value = out
	}
	res.Flags = r.env.Flags() &^ before
	if err := r.presenter.PresentResult(r.out, res); err != nil {
		r.fail("%v", err)
	}
}

func (r *REPL) cmdMode(args []string) {
	if len(args) != 1 {
		r.fail("usage: mode <RNDN|RNDZ|RNDU|RNDD|RNDA>")
		return
	}
	mode, err := mpfr.ParseRoundingMode(args[0])
	if err != nil {
		r.fail("%v", err)
		return
	}
	r.config.Mode = mode
	fmt.Fprintf(r.out, "Rounding mode: %s\n", ui.Value(mode.String()))
}

func (r *REPL) cmdPrec(args []string) {
	if len(args) != 1 {
		r.fail("usage: prec <bits>")
		return
	}
	p, err := strconv.ParseUint(strings.TrimPrefix(args[0], "p"), 10, 32)
	if err != nil || p < 1 || p > mpfr.WordBits {
		r.fail("invalid precision %q: want 1-%d", args[0], mpfr.WordBits)
		return
	}
	r.config.Prec = uint(p)
	fmt.Fprintf(r.out, "Precision: %s bits\n", ui.Value(strconv.FormatUint(p, 10)))
}

func (r *REPL) cmdKernel(args []string) {
	if len(args) != 1 {
		r.fail("usage: kernel <%s>", strings.Join(append([]string{mpfr.Auto}, mpfr.Kernels()...), "|"))
		return
	}
	name := strings.ToLower(args[0])
	if name != mpfr.Auto && !slices.Contains(mpfr.Kernels(), name) {
		r.fail("unknown kernel %q (available: %s)", name, strings.Join(mpfr.Kernels(), ", "))
		return
	}
	if err := r.setKernel(name); err != nil {
		r.fail("%v", err)
		return
	}
	fmt.Fprintf(r.out, "Kernel: %s\n", ui.Value(r.config.Kernel))
}

func (r *REPL) cmdFlags(args []string) {
	if len(args) == 1 && strings.EqualFold(args[0], "clear") {
		fmt.Fprintf(r.out, "Cleared: %s\n", r.env.ClearFlags())
		return
	}
	fmt.Fprintf(r.out, "Flags: %s\n", ui.Value(r.env.Flags().String()))
}

func (r *REPL) cmdStatus() {
	fmt.Fprintln(r.out, ui.Title("Current settings:"))
	fmt.Fprintf(r.out, "  Kernel:     %s\n", r.config.Kernel)
	fmt.Fprintf(r.out, "  Mode:       %s\n", r.config.Mode)
	fmt.Fprintf(r.out, "  Precision:  %d bits\n", r.config.Prec)
	fmt.Fprintf(r.out, "  Range:      %s\n", r.env.Range())
	fmt.Fprintf(r.out, "  Policy:     %s\n", r.env.Policy())
	fmt.Fprintf(r.out, "  Flags:      %s\n", r.env.Flags())
}
