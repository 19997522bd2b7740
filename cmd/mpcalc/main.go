package main

import (
	"context"
	"os"

	"github.com/agbru/mpcalc/internal/app"
	apperrors "github.com/agbru/mpcalc/internal/errors"
)

func main() {
	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitCode(err))
	}

	exitCode := application.Run(context.Background(), os.Stdout)
	os.Exit(exitCode)
}
