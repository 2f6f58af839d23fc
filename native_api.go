package kuzu

import (
	"fmt"
	"runtime"
)

// NativeInfo describes the state of the default shared library.
type NativeInfo struct {
	Available    bool   // Whether the library loaded
	Architecture string // Current architecture (arm64, amd64, etc.)
	Platform     string // Current platform (darwin, linux, windows)
	Path         string // Path to the loaded library, if found
	Error        string // Load error, if any
	Version      string // Engine version reported by the library
}

// GetNativeInfo loads the default library if needed and reports on it.
func GetNativeInfo() NativeInfo {
	loadNativeLibrary()

	info := NativeInfo{
		Available:    nativeLibError == nil,
		Architecture: runtime.GOARCH,
		Platform:     runtime.GOOS,
		Path:         nativeLibPath,
	}
	if nativeLibError != nil {
		info.Error = nativeLibError.Error()
	} else {
		info.Version = nativeLib.version.String()
	}
	return info
}

// String returns a human-readable summary
func (i NativeInfo) String() string {
	if i.Available {
		return fmt.Sprintf("Native library: Available\nPlatform: %s/%s\nVersion: %s\nLibrary: %s",
			i.Platform, i.Architecture, i.Version, i.Path)
	}

	return fmt.Sprintf("Native library: Not available\nPlatform: %s/%s\nError: %s",
		i.Platform, i.Architecture, i.Error)
}

// VersionInfo returns information about the driver
type VersionInfo struct {
	DriverVersion string // Version of the Go binding
	EngineVersion string // Version of the loaded engine, empty when not loaded
	GoVersion     string // Go runtime version
}

// GetVersionInfo returns version information about the binding and engine
func GetVersionInfo() VersionInfo {
	info := VersionInfo{DriverVersion: DriverVersion, GoVersion: runtime.Version()}
	if v, err := LibraryVersion(); err == nil {
		info.EngineVersion = v.String()
	}
	return info
}

// String returns a human-readable summary of version information
func (v VersionInfo) String() string {
	engine := v.EngineVersion
	if engine == "" {
		engine = "not loaded"
	}
	return fmt.Sprintf("Driver version: %s\nEngine version: %s\nGo version: %s",
		v.DriverVersion, engine, v.GoVersion)
}
