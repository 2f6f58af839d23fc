//go:build !amd64 || windows

package kuzu

import "unsafe"

// databaseInitArgs builds the argument list for kuzu_database_init. AArch64
// and Windows x64 pass a large struct by reference to a caller-owned copy;
// the returned keep value must stay reachable until the call returns.
func databaseInitArgs(path, out uintptr, cfg SystemConfig) ([]uintptr, any) {
	words := systemConfigWords(cfg)
	return []uintptr{path, uintptr(unsafe.Pointer(&words[0])), out}, words
}
