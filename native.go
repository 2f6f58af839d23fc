package kuzu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Library loader
var (
	nativeLibOnce   sync.Once
	nativeLib       *nativeLibrary
	nativeLibError  error
	nativeLibPath   string
	nativeLibByPath sync.Map // explicit path -> *libraryLoad
)

type libraryLoad struct {
	once sync.Once
	lib  *nativeLibrary
	err  error
}

// minimumVersion is the oldest engine release whose C API matches the
// bindings.
var minimumVersion = Version{Major: 0, Minor: 4, Patch: 0}

// NativeEngine returns the engine backed by the shared library found on the
// default search path: $KUZU_LIBRARY_PATH, the working directory, the
// executable's directory and lib/<os>/<arch> below the module.
func NativeEngine() (Engine, error) {
	loadNativeLibrary()
	if nativeLibError != nil {
		return nil, nativeLibError
	}
	return newNativeEngine(nativeLib), nil
}

// NativeEngineFrom loads the shared library at path, or the default one when
// path is empty.
func NativeEngineFrom(path string) (Engine, error) {
	if path == "" {
		return NativeEngine()
	}
	v, _ := nativeLibByPath.LoadOrStore(path, &libraryLoad{})
	l := v.(*libraryLoad)
	l.once.Do(func() {
		l.lib, l.err = openNativeLibrary(path)
	})
	if l.err != nil {
		return nil, l.err
	}
	return newNativeEngine(l.lib), nil
}

// NativeLibraryAvailable reports whether the default shared library loads.
func NativeLibraryAvailable() bool {
	loadNativeLibrary()
	return nativeLibError == nil
}

// Attempts to load the native library
func loadNativeLibrary() {
	nativeLibOnce.Do(func() {
		nativeLibPath = findNativeLibraryPath()
		if nativeLibPath == "" {
			nativeLibError = &Error{Type: ErrConnection, Message: "native library not loaded",
				Cause: errors.New(libraryName() + " not found, set KUZU_LIBRARY_PATH")}
			return
		}
		nativeLib, nativeLibError = openNativeLibrary(nativeLibPath)
	})
}

func openNativeLibrary(path string) (*nativeLibrary, error) {
	handle, err := loadDynamicLibrary(path)
	if err != nil {
		return nil, &Error{Type: ErrConnection, Message: "native library not loaded",
			Cause: fmt.Errorf("failed to load %s: %w", path, err)}
	}
	lib := &nativeLibrary{handle: handle, path: path}
	if err := lib.register(); err != nil {
		closeLibrary(handle)
		return nil, &Error{Type: ErrConnection, Message: "native library not loaded", Cause: err}
	}
	lib.version, _ = ParseVersion(lib.versionString())
	if !lib.version.AtLeast(minimumVersion.Major, minimumVersion.Minor, minimumVersion.Patch) {
		closeLibrary(handle)
		return nil, errorf(ErrConnection, "%s has version %s, at least %s is required",
			path, lib.version, minimumVersion)
	}
	return lib, nil
}

func libraryName() string {
	switch runtime.GOOS {
	case "windows":
		return "kuzu_shared.dll"
	case "darwin":
		return "libkuzu.dylib"
	default:
		return "libkuzu.so"
	}
}

// Find the path to the native library based on runtime OS and architecture
func findNativeLibraryPath() string {
	libName := libraryName()
	var searchPaths []string

	if env := os.Getenv("KUZU_LIBRARY_PATH"); env != "" {
		if st, err := os.Stat(env); err == nil && st.IsDir() {
			searchPaths = append(searchPaths, filepath.Join(env, libName))
		} else {
			searchPaths = append(searchPaths, env)
		}
	}

	searchPaths = append(searchPaths, filepath.Join(".", libName))
	if execPath, err := os.Executable(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), libName))
	}

	osArchPath := filepath.Join("lib", runtime.GOOS, runtime.GOARCH, libName)
	if _, thisFile, _, ok := runtime.Caller(0); ok {
		searchPaths = append(searchPaths, filepath.Join(filepath.Dir(thisFile), osArchPath))
	}
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		searchPaths = append(searchPaths,
			filepath.Join(gopath, "pkg", "mod", "github.com", "semihalev", "go-kuzu", osArchPath))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
