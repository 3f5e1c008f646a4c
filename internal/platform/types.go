// Package platform detects the host OS and CPU architecture and maps them onto
// the naming scheme goss uses for its release artifacts.
//
// Detection goes through gopsutil so that the architecture token is the one
// the kernel reports (uname -m), then passes through a small rewrite table.
// The same information is exposed to Lua argument files as a read-only
// platform table.
package platform

import "context"

// Info contains platform detection information.
type Info struct {
	OS      string // lower-cased kernel name: "linux", "darwin", ...
	Arch    string // vendor naming: "amd64", "386", "arm64", ...
	ArchRaw string // token as reported by the host, e.g. "x86_64"
}

// String returns the "<os>-<arch>" pair used in artifact names.
func (i *Info) String() string {
	return i.OS + "-" + i.Arch
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
