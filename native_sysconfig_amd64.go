//go:build amd64 && !windows

package kuzu

// databaseInitArgs builds the argument list for kuzu_database_init. The
// System V ABI passes a struct larger than 16 bytes in memory, so the six
// integer registers are filled first and the config words land on the stack.
func databaseInitArgs(path, out uintptr, cfg SystemConfig) ([]uintptr, any) {
	args := []uintptr{path, out, 0, 0, 0, 0}
	for _, w := range systemConfigWords(cfg) {
		args = append(args, uintptr(w))
	}
	return args, nil
}
