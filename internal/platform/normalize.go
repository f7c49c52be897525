package platform

import "strings"

// FamilyUnknown is reported for unrecognized Linux distributions.
const FamilyUnknown = "unknown"

// familyMap maps gopsutil family strings to canonical family names.
var familyMap = map[string]string{
	"debian":   "debian",
	"ubuntu":   "debian",
	"rhel":     "rhel",
	"centos":   "rhel",
	"rocky":    "rhel",
	"fedora":   "fedora",
	"suse":     "suse",
	"opensuse": "suse",
	"arch":     "arch",
	"manjaro":  "arch",
	"alpine":   "alpine",
	"gentoo":   "gentoo",
}

// normalizeArch maps GOARCH spellings onto amd64/arm64 and passes anything
// else through unchanged.
func normalizeArch(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	default:
		return arch
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalize(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
