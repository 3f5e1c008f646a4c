// Package service runs the degoss operations and assembles their results.
//
// Each entry point (Install, Validate, Run) takes a decoded Config and
// always returns a Result; failures are reported inside it rather than as Go
// errors, since the caller's only job is to print the document.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ZebulonRouseFrantzich/degoss/internal/binary"
	"github.com/ZebulonRouseFrantzich/degoss/internal/config"
	"github.com/ZebulonRouseFrantzich/degoss/internal/goss"
	"github.com/ZebulonRouseFrantzich/degoss/internal/logging"
	"github.com/ZebulonRouseFrantzich/degoss/internal/platform"
	"github.com/ZebulonRouseFrantzich/degoss/internal/release"
)

// Resolver turns a requested version into a download descriptor.
type Resolver interface {
	Resolve(ctx context.Context, requested string, info *platform.Info) (*release.Descriptor, error)
}

// Installer places and removes the validator binary.
type Installer interface {
	Install(ctx context.Context, desc *release.Descriptor, dir string) (string, error)
	Remove(dir string) error
}

// Deps are the collaborators of a Service.
type Deps struct {
	Collector *logging.Collector
	Detector  platform.Detector
	Resolver  Resolver
	Installer Installer
	Runner    goss.Runner
	// InvocationID tags the first log record of each operation.
	InvocationID string
}

// Service orchestrates one degoss invocation.
type Service struct {
	collector *logging.Collector
	logger    *slog.Logger
	detector  platform.Detector
	resolver  Resolver
	installer Installer
	runner    goss.Runner
	id        string
}

// New creates a service with dependency injection.
func New(deps Deps) *Service {
	collector := deps.Collector
	if collector == nil {
		// Buffer-only collector; cannot fail without a log file
		collector, _ = logging.New(logging.Options{})
	}

	return &Service{
		collector: collector,
		logger:    collector.Logger(),
		detector:  deps.Detector,
		resolver:  deps.Resolver,
		installer: deps.Installer,
		runner:    deps.Runner,
		id:        deps.InvocationID,
	}
}

// Wiring carries the process-level settings NewFromConfig needs beyond Config.
type Wiring struct {
	Collector    *logging.Collector
	InvocationID string
	UserAgent    string
	HTTPClient   *http.Client
}

// NewFromConfig wires the production collaborators for cfg.
func NewFromConfig(cfg *config.Config, w Wiring) *Service {
	logger := slog.New(slog.DiscardHandler)
	if w.Collector != nil {
		logger = w.Collector.Logger()
	}

	return New(Deps{
		Collector: w.Collector,
		Detector:  platform.NewDetector(logger),
		Resolver: release.NewResolver(release.Config{
			Client:    w.HTTPClient,
			UserAgent: w.UserAgent,
			Logger:    logger,
		}),
		Installer: binary.NewInstaller(binary.Config{
			Client:    w.HTTPClient,
			UserAgent: w.UserAgent,
			Verifier: binary.Verifier{
				Checksum:    cfg.Checksum,
				KeyringPath: cfg.GPGKeyring,
			},
			InvocationID: w.InvocationID,
			Logger:       logger,
		}),
		Runner:       &goss.ExecRunner{Timeout: cfg.Timeout, Logger: logger},
		InvocationID: w.InvocationID,
	})
}

// Install detects the platform, resolves the version and installs goss into
// cfg.BinDir.
func (s *Service) Install(ctx context.Context, cfg *config.Config) *Result {
	s.start(config.ModeInstall)

	if err := cfg.Validate(config.ModeInstall); err != nil {
		return s.fail(&Result{}, err)
	}

	result := &Result{}
	if _, err := s.install(ctx, cfg, result); err != nil {
		return s.fail(result, err)
	}

	return s.finish(result)
}

// Validate runs an already available goss against cfg.Path.
func (s *Service) Validate(ctx context.Context, cfg *config.Config) *Result {
	s.start(config.ModeValidate)

	result := &Result{GossFailed: boolPtr(false)}
	if err := cfg.Validate(config.ModeValidate); err != nil {
		return s.fail(result, err)
	}

	s.validate(ctx, cfg, cfg.Executable, result)
	return s.finish(result)
}

// Run installs goss, validates with the installed binary and, when
// cfg.Clean is set, removes the binary again.
func (s *Service) Run(ctx context.Context, cfg *config.Config) *Result {
	s.start(config.ModeRun)

	result := &Result{GossFailed: boolPtr(false)}
	if err := cfg.Validate(config.ModeRun); err != nil {
		return s.fail(result, err)
	}

	path, err := s.install(ctx, cfg, result)
	if err != nil {
		return s.fail(result, err)
	}

	s.validate(ctx, cfg, path, result)

	if cfg.Clean {
		if err := s.installer.Remove(cfg.BinDir); err != nil {
			s.logger.Warn("unable to remove goss binary", "error", err)
		}
	}

	return s.finish(result)
}

// Reject reports err as a failed mode invocation without doing any work.
// It covers failures that happen before a Config exists, such as an
// unreadable arguments file.
func (s *Service) Reject(mode config.Mode, err error) *Result {
	s.start(mode)

	result := &Result{}
	if mode != config.ModeInstall {
		result.GossFailed = boolPtr(false)
	}
	return s.fail(result, err)
}

// install runs detect, resolve and install, recording version and path.
func (s *Service) install(ctx context.Context, cfg *config.Config, result *Result) (string, error) {
	info, err := s.detector.Detect(ctx)
	if err != nil {
		return "", fmt.Errorf("unable to detect host platform: %w", err)
	}

	desc, err := s.resolver.Resolve(ctx, cfg.Version, info)
	if err != nil {
		return "", err
	}
	result.Version = desc.Version

	s.logger.Info("installing goss binary", "url", desc.URL, "dir", cfg.BinDir)

	path, err := s.installer.Install(ctx, desc, cfg.BinDir)
	if err != nil {
		return "", err
	}
	result.Path = path

	return path, nil
}

// validate builds and runs the validator, filling in the execution fields.
// A failing test run sets Failed and GossFailed; tooling errors set only
// Failed.
func (s *Service) validate(ctx context.Context, cfg *config.Config, executable string, result *Result) {
	cmd, err := goss.Build(goss.Invocation{
		SpecPath:   cfg.Path,
		WorkingDir: cfg.Cwd,
		Format:     cfg.Format,
		Executable: executable,
		Env:        cfg.EnvVars,
	})
	if err != nil {
		s.markFailed(result, err)
		return
	}

	if len(cmd.Overrides) > 0 {
		s.logger.Debug("validator environment overrides", "env", fmt.Sprint(config.RedactEnv(cmd.Overrides)))
	}
	s.logger.Info("running goss", "command", cmd.String(), "cwd", cmd.Dir)

	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		s.markFailed(result, err)
		return
	}

	result.Execution = &Execution{
		RC:     res.ExitCode,
		Stdout: res.Stdout,
		Stderr: res.Stderr,
	}

	if !res.Succeeded() {
		result.Failed = true
		result.GossFailed = boolPtr(true)
		result.Msg = GossFailedMessage
		s.logger.Error("goss tests failed", "rc", res.ExitCode)
		return
	}

	s.logger.Info("goss tests passed")
}

func (s *Service) start(mode config.Mode) {
	if s.id != "" {
		s.logger.Debug("degoss invocation started", "mode", string(mode), "id", s.id)
	}
}

// fail marks result as a tooling failure and finishes it.
func (s *Service) fail(result *Result, err error) *Result {
	s.markFailed(result, err)
	return s.finish(result)
}

// markFailed records err as the failure message. GossFailed is untouched: a
// tooling error never counts as a test failure.
func (s *Service) markFailed(result *Result, err error) {
	s.logger.Error(err.Error())

	result.Failed = true
	result.Msg = err.Error()
}

// finish attaches the collected log lines.
func (s *Service) finish(result *Result) *Result {
	result.OutputLines = s.collector.Lines()
	if result.OutputLines == nil {
		result.OutputLines = []string{}
	}
	return result
}
