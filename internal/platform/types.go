// Package platform detects the operating system initdot is running on.
//
// The only decision that depends on the platform is whether dotfiles should
// set DYLD_LIBRARY_PATH, which matters on macOS alone. Detection uses
// runtime.GOOS for the OS and gopsutil for distribution and version details,
// which are exposed to Lua defaults files through a read-only table.
package platform

import (
	"context"
	"fmt"
)

const (
	OSDarwin = "darwin"
	OSLinux  = "linux"
)

// Info contains platform detection information.
type Info struct {
	OS       string // runtime.GOOS value, e.g. "darwin"
	Arch     string // normalized architecture, e.g. "amd64"
	Platform string // distribution or product, e.g. "ubuntu", "darwin"
	Family   string // canonical Linux family, e.g. "debian"
	Version  string // e.g. "22.04", "14.4.1"
}

// IsMacOS returns true if the platform is macOS, the only platform that
// needs DYLD_LIBRARY_PATH set.
func (i *Info) IsMacOS() bool {
	return i.OS == OSDarwin
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == OSLinux
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// Static is a Detector that reports a fixed OS, used for --platform overrides.
type Static struct {
	OS string
}

// Detect returns an Info carrying only the configured OS.
func (s Static) Detect(ctx context.Context) (*Info, error) {
	switch s.OS {
	case OSDarwin, OSLinux:
		return &Info{OS: s.OS}, nil
	default:
		return nil, fmt.Errorf("unsupported platform %q (want %s or %s)", s.OS, OSDarwin, OSLinux)
	}
}
