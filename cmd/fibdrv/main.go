// Command fibdrv computes Fibonacci numbers, benchmarks the in-process
// character device and serves both over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agbru/fibdrv/internal/app"
	apperrors "github.com/agbru/fibdrv/internal/errors"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && app.HasVersionFlag(args[1:]) {
		app.PrintVersion(stdout)
		return apperrors.ExitSuccess
	}

	application, err := app.New(args, stderr)
	if err != nil {
		if app.IsHelpError(err) {
			return apperrors.ExitSuccess
		}
		// Configuration errors have already been reported with the usage.
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return apperrors.ExitCode(err)
	}
	return application.Run(ctx, stdout)
}
