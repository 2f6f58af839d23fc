//go:build windows

package kuzu

import (
	"errors"
	"syscall"
	"unsafe"
)

// Load a dynamic library on Windows systems
func loadDynamicLibrary(path string) (uintptr, error) {
	handle, err := syscall.LoadLibrary(path)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}

// Close the library
func closeLibrary(handle uintptr) {
	if handle != 0 {
		syscall.FreeLibrary(syscall.Handle(handle))
	}
}

// Get a symbol from the library
func getSymbol(handle uintptr, name string) (uintptr, error) {
	if handle == 0 {
		return 0, errors.New("invalid library handle")
	}
	return syscall.GetProcAddress(syscall.Handle(handle), name)
}

// pair16 lays out a 16 byte struct argument. The Windows x64 convention
// passes it by reference to a caller-owned copy; keep must stay reachable
// until the call returns.
func pair16(lo, hi uint64) (a, b uintptr, keep any) {
	buf := &[2]uint64{lo, hi}
	return uintptr(unsafe.Pointer(buf)), 0, buf
}

// pair16Args is the number of argument slots pair16 fills.
const pair16Args = 1
