package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/degoss/internal/config"
	"github.com/ZebulonRouseFrantzich/degoss/internal/logging"
	"github.com/ZebulonRouseFrantzich/degoss/internal/platform"
	"github.com/ZebulonRouseFrantzich/degoss/internal/service"
)

// errFailed signals a failed invocation whose result was already printed.
var errFailed = errors.New("degoss invocation failed")

// execute decodes the options for mode, runs it and prints the result.
func execute(cmd *cobra.Command, g *globalFlags, mode config.Mode) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	id := uuid.NewString()
	cfg, loadErr := loadConfig(ctx, cmd, g)

	opts := logging.Options{Console: cmd.ErrOrStderr()}
	if cfg != nil {
		opts.LogFile = cfg.LogFile
		opts.Verbose = cfg.Verbose
	}
	collector, err := logging.New(opts)
	if err != nil {
		// Fall back to the buffer so the failure still reaches the result
		collector, _ = logging.New(logging.Options{Console: cmd.ErrOrStderr(), Verbose: opts.Verbose})
		loadErr = err
	}
	defer collector.Close()

	if cfg == nil {
		cfg = config.Default()
	}
	svc := service.NewFromConfig(cfg, service.Wiring{
		Collector:    collector,
		InvocationID: id,
		UserAgent:    "degoss/" + Version,
	})

	var result *service.Result
	switch {
	case loadErr != nil:
		result = svc.Reject(mode, loadErr)
	case mode == config.ModeInstall:
		result = svc.Install(ctx, cfg)
	case mode == config.ModeValidate:
		result = svc.Validate(ctx, cfg)
	default:
		result = svc.Run(ctx, cfg)
	}

	if err := writeResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if result.ExitCode() != 0 {
		return errFailed
	}
	return nil
}

// loadConfig reads the arguments file, if any, overlays the flags set on
// the command line and decodes the result.
func loadConfig(ctx context.Context, cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	params := map[string]any{}

	if g.argsFile != "" {
		parser := config.NewParser(platform.NewDetector(nil), nil)
		fileParams, err := parser.LoadFile(ctx, g.argsFile)
		if err != nil {
			return nil, fmt.Errorf("unable to load arguments file %s: %w", g.argsFile, err)
		}
		params = fileParams
	}

	flags, err := flagParams(cmd.Flags())
	if err != nil {
		return nil, err
	}

	return config.Decode(config.Merge(params, flags))
}

func writeResult(w io.Writer, result *service.Result) error {
	if err := json.NewEncoder(w).Encode(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
