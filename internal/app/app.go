// Package app wires the mpcalc command: it parses the configuration and
// dispatches to the requested command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/mpcalc/internal/cli"
	"github.com/agbru/mpcalc/internal/config"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/logging"
	"github.com/agbru/mpcalc/internal/metrics"
	"github.com/agbru/mpcalc/internal/mpfr"
	"github.com/agbru/mpcalc/internal/ui"
)

// Application represents the mpcalc application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In is read by -batch - and -repl.
	In      io.Reader
	Logger  logging.Logger
	Metrics *metrics.Metrics
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader used for standard input.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// WithLogger replaces the console logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New creates an Application by parsing args, whose first element is the
// program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "mpcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, mpfr.Kernels())
	if err != nil {
		if !IsHelpError(err) {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
		return nil, err
	}
	app.Config = cfg
	if app.Logger == nil {
		app.Logger = logging.NewConsoleLogger(errWriter, logLevel(cfg))
	}
	app.Metrics = metrics.NewMetrics()
	return app, nil
}

func logLevel(cfg config.AppConfig) zerolog.Level {
	switch {
	case cfg.Verbose:
		return zerolog.DebugLevel
	case cfg.Quiet:
		return zerolog.ErrorLevel
	}
	return zerolog.WarnLevel
}

// Run executes the configured command and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor || a.Config.Format == "json")

	switch {
	case a.Config.Version:
		PrintVersion(out)
		return apperrors.ExitSuccess
	case a.Config.Completion != "":
		return a.runCompletion(out)
	case a.Config.PrintConfig:
		return a.runPrintConfig(out)
	case a.Config.Info:
		return a.report(a.presenter().PresentInfo(out, cli.GatherInfo(versionString())))
	case a.Config.REPL:
		return a.runREPL(out)
	}

	stopServer, err := a.startMetricsServer()
	if err != nil {
		a.fail(err)
		return apperrors.ExitCode(err)
	}
	defer stopServer()

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	var code int
	switch {
	case a.Config.Batch != "":
		code = a.runBatch(ctx, out)
	case a.Config.Verify > 0:
		code = a.runVerify(ctx, out)
	default:
		code = a.runOperation(ctx, out)
	}
	if err := a.writeMetrics(out); err != nil {
		a.fail(err)
		if code == apperrors.ExitSuccess {
			code = apperrors.ExitErrorGeneric
		}
	}
	return code
}

func (a *Application) presenter() cli.Presenter {
	return cli.Presenter{Format: a.Config.Format, Verbose: a.Config.Verbose, Quiet: a.Config.Quiet}
}

// fail reports err on the error writer.
func (a *Application) fail(err error) {
	a.presenter().PresentError(a.ErrWriter, err, 0)
}

// report turns an output error into an exit code.
func (a *Application) report(err error) int {
	if err != nil {
		a.fail(err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, mpfr.Kernels()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runPrintConfig(out io.Writer) int {
	data, err := config.DumpTOML(a.Config)
	if err != nil {
		a.fail(err)
		return apperrors.ExitErrorGeneric
	}
	_, err = out.Write(data)
	return a.report(err)
}

func (a *Application) runREPL(out io.Writer) int {
	repl, err := cli.NewREPL(cli.REPLConfig{
		Kernel: a.Config.Kernel,
		Mode:   a.Config.RoundingMode(),
		Prec:   a.Config.Prec,
		Range:  a.Config.Range(),
		Policy: a.Config.RangePolicy(),
		Logger: a.Logger,
	}, a.presenter())
	if err != nil {
		a.fail(err)
		return apperrors.ExitCode(err)
	}
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
