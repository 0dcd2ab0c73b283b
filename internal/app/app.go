package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/agbru/fibdrv/internal/bignum"
	"github.com/agbru/fibdrv/internal/cli"
	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/fibdrv"
	"github.com/agbru/fibdrv/internal/fibonacci"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/orchestration"
	"github.com/agbru/fibdrv/internal/server"
	"github.com/agbru/fibdrv/internal/service"
	"github.com/agbru/fibdrv/internal/ui"
)

// Application is one fibdrv invocation: its configuration, the calculators
// it may run and the device it may open.
type Application struct {
	Config  config.AppConfig
	Factory fibonacci.CalculatorFactory
	// Device is created from the configuration when nil.
	Device    *fibdrv.Device
	ErrWriter io.Writer
}

// New parses args (program name first) into an Application.
//
// Parameters:
//   - args: The command-line arguments, typically os.Args.
//   - errWriter: The destination of usage and error output.
//
// Returns:
//   - *Application: The application.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := fibonacci.GlobalFactory()

	programName := "fibdrv"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run sets up logging, the limb limit and the theme, then runs the
// configured mode.
//
// Parameters:
//   - ctx: Cancels the run.
//   - out: The destination of results.
//
// Returns:
//   - int: The process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	logOpts := a.Config.Log
	logOpts.NoColor = a.Config.NoColor
	logger, closer, err := logging.New(logOpts, a.ErrWriter)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer closer.Close()
	logging.Install(logger)

	if a.Config.MaxLimbs > 0 {
		prev := bignum.SetMaxLimbs(a.Config.MaxLimbs)
		defer bignum.SetMaxLimbs(prev)
	}

	ui.InitTheme(a.Config.NoColor, a.Config.Theme)

	switch a.Config.Mode {
	case config.ModeServer:
		return a.runServer(ctx)
	case config.ModeRead, config.ModeStat, config.ModePlot:
		return a.runDevice(ctx, out)
	default:
		return a.runCalculate(ctx, out)
	}
}

func (a *Application) device() *fibdrv.Device {
	if a.Device == nil {
		a.Device = fibdrv.New(fibdrv.WithCPU(a.Config.CPU), fibdrv.WithLogger(log.Logger))
	}
	return a.Device
}

// runDevice runs one of the device clients, writing its listing to the
// output file when one is configured.
func (a *Application) runDevice(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := SetupSignals(ctx)
	defer stopSignals()

	dest := out
	if a.Config.OutputFile != "" {
		f, err := os.Create(a.Config.OutputFile)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error creating output file: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		defer f.Close()
		dest = f
	}

	if err := orchestration.RunDeviceMode(ctx, a.Config, a.device(), dest); err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

// runServer serves HTTP until ctx is done or the process is signalled.
func (a *Application) runServer(ctx context.Context) int {
	svc, err := service.NewCalculatorService(a.Factory, a.device(), a.Config)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	timeouts := server.DefaultServerTimeouts()
	timeouts.RequestTimeout = a.Config.Timeout
	srv := server.NewServer(svc, a.Config, server.WithTimeouts(timeouts))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runCalculate computes F(k) with the selected calculators and reports the
// comparison, the JSON document or the bare value.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, lifecycle := SetupLifecycle(ctx, a.Config.Timeout)
	defer lifecycle.Cleanup()

	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: unknown algorithm %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.JSONOutput && !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	}
	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config, progressOut)

	if a.Config.JSONOutput {
		return printJSONResults(results, a.Config.K, out)
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		Details:    a.Config.Details,
	}
	return a.analyzeResultsWithOutput(results, outputCfg, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	best, ok := orchestration.FastestResult(results)

	if outputCfg.Quiet {
		if !ok {
			return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		if !orchestration.Consistent(results) {
			fmt.Fprintln(a.ErrWriter, "Error: the algorithms returned different results")
			return apperrors.ExitErrorMismatch
		}
		if err := cli.DisplayResultWithConfig(out, best.Result, a.Config.K, best.Duration, best.Name, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)
	if ok && exitCode == apperrors.ExitSuccess && outputCfg.OutputFile != "" {
		if err := cli.WriteResultToFile(best.Result, a.Config.K, best.Duration, best.Name, outputCfg); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return apperrors.ExitErrorGeneric
		}
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			cli.ColorGreen(), cli.ColorCyan(), outputCfg.OutputFile, cli.ColorReset())
	}
	return exitCode
}

func firstError(results []orchestration.CalculationResult) error {
	for _, res := range results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}

// IsHelpError reports whether err comes from -h or --help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

type jsonResult struct {
	Algorithm string `json:"algorithm"`
	K         int64  `json:"k"`
	Duration  string `json:"duration"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// printJSONResults writes one JSON object per calculator. The exit code
// reflects the results: a mismatch or a total failure is not a success.
func printJSONResults(results []orchestration.CalculationResult, k int64, out io.Writer) int {
	output := make([]jsonResult, len(results))
	for i, res := range results {
		jr := jsonResult{
			Algorithm: res.Name,
			K:         k,
			Duration:  res.Duration.String(),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		} else if digits, err := res.Result.Decimal(); err != nil {
			jr.Error = err.Error()
		} else {
			jr.Result = digits
		}
		output[i] = jr
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return apperrors.ExitErrorGeneric
	}

	if _, ok := orchestration.FastestResult(results); !ok {
		return apperrors.ExitCode(firstError(results))
	}
	if !orchestration.Consistent(results) {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitSuccess
}
