//go:build !windows

package kuzu

import (
	"errors"

	"github.com/ebitengine/purego"
)

// Load a dynamic library on Unix systems using purego
func loadDynamicLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// Close the library
func closeLibrary(handle uintptr) {
	if handle != 0 {
		purego.Dlclose(handle)
	}
}

// Get a symbol from the library
func getSymbol(handle uintptr, name string) (uintptr, error) {
	if handle == 0 {
		return 0, errors.New("invalid library handle")
	}
	return purego.Dlsym(handle, name)
}

// pair16 lays out a 16 byte struct argument. The System V and AArch64
// conventions pass it in two integer registers.
func pair16(lo, hi uint64) (a, b uintptr, keep any) {
	return uintptr(lo), uintptr(hi), nil
}

// pair16Args is the number of argument slots pair16 fills.
const pair16Args = 2
