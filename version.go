package kuzu

import (
	"fmt"
	"strings"
)

// DriverVersion is the version of the Go binding.
const DriverVersion = "0.1.0"

// Version represents an engine release
type Version struct {
	Major      int
	Minor      int
	Patch      int
	VersionStr string
}

// ParseVersion parses strings such as "0.7.1", "v0.8.0" or
// "0.9.0-dev.12". Anything after the patch number is kept only in
// VersionStr.
func ParseVersion(s string) (Version, error) {
	v := Version{VersionStr: strings.TrimSpace(s)}
	core := strings.TrimPrefix(v.VersionStr, "v")
	if i := strings.IndexAny(core, "-+ "); i >= 0 {
		core = core[:i]
	}
	parts := strings.Split(core, ".")
	nums := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		if i == len(nums) {
			break
		}
		if _, err := fmt.Sscanf(p, "%d", nums[i]); err != nil {
			return v, fmt.Errorf("invalid version %q", s)
		}
	}
	if core == "" {
		return v, fmt.Errorf("invalid version %q", s)
	}
	return v, nil
}

// String returns the version as a string
func (v Version) String() string {
	if v.VersionStr != "" {
		return v.VersionStr
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast checks if the version is at least the given major, minor, patch
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// LibraryVersion returns the version of the default shared library.
func LibraryVersion() (Version, error) {
	loadNativeLibrary()
	if nativeLibError != nil {
		return Version{}, nativeLibError
	}
	return nativeLib.version, nil
}
