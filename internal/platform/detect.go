package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect reports runtime.GOOS and the normalized GOARCH, and asks gopsutil
// for distribution details. A gopsutil failure is not fatal: the OS alone is
// enough to plan, so the details are left empty.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:   runtime.GOOS,
		Arch: normalizeArch(runtime.GOARCH),
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	info.Platform = normalize(platform)
	info.Version = normalize(version)
	if info.IsLinux() && info.Platform != "" {
		info.Family = mapFamily(family)
	}

	return info, nil
}
