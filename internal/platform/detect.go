package platform

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// HostInfoFunc reports the raw host information. It is swapped out in tests
// to simulate arbitrary kernel reports.
type HostInfoFunc func(ctx context.Context) (*host.InfoStat, error)

// RealDetector implements Detector using gopsutil.
type RealDetector struct {
	hostInfo HostInfoFunc
	logger   *slog.Logger
}

// NewDetector creates a new platform detector that logs to logger.
func NewDetector(logger *slog.Logger) *RealDetector {
	return NewDetectorWithHostInfo(logger, host.InfoWithContext)
}

// NewDetectorWithHostInfo creates a detector backed by a custom host lookup.
func NewDetectorWithHostInfo(logger *slog.Logger, fn HostInfoFunc) *RealDetector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RealDetector{hostInfo: fn, logger: logger}
}

// Detect performs platform detection and returns platform information.
//
// The OS name and architecture come from gopsutil (kernel name and uname
// machine). If gopsutil cannot report them, runtime.GOOS and runtime.GOARCH
// are used instead; those already follow goss naming.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	osName, archRaw := runtime.GOOS, runtime.GOARCH

	stat, err := d.hostInfo(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		d.logger.Warn("host info unavailable, using runtime values", "error", err)
	} else if stat != nil {
		if stat.OS != "" {
			osName = stat.OS
		}
		if stat.KernelArch != "" {
			archRaw = stat.KernelArch
		}
	}

	info := &Info{
		OS:      normalizeOS(osName),
		Arch:    NormalizeArch(archRaw),
		ArchRaw: archRaw,
	}

	d.logger.Debug("host environment detected", "os", info.OS, "arch", info.Arch)

	return info, nil
}

// StaticDetector returns a fixed Info. Useful when the platform is already
// known or must be forced (cross-installs, tests).
type StaticDetector struct {
	Info *Info
}

// Detect returns the configured Info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if s.Info == nil {
		return nil, fmt.Errorf("static detector has no platform info")
	}
	return s.Info, nil
}
