package kuzu

import "runtime"

// darwinQOSDefault is QOS_CLASS_DEFAULT, the thread class used when the
// engine starts worker threads on macOS.
const darwinQOSDefault = 0x15

// defaultMaxDBSize is the engine's default address space reservation, 8 TiB.
const defaultMaxDBSize = 1 << 43

// systemConfigWords lays out kuzu_system_config as 8 byte words:
//
//	uint64 buffer_pool_size
//	uint64 max_num_threads
//	bool   enable_compression, bool read_only (same word)
//	uint64 max_db_size
//	bool   auto_checkpoint
//	uint64 checkpoint_threshold
//	uint32 thread_qos (darwin only)
func systemConfigWords(cfg SystemConfig) []uint64 {
	maxDBSize := cfg.MaxDBSize
	if maxDBSize == 0 {
		maxDBSize = defaultMaxDBSize
	}
	words := []uint64{
		cfg.BufferPoolSize,
		cfg.MaxNumThreads,
		boolByte(cfg.EnableCompression) | boolByte(cfg.ReadOnly)<<8,
		maxDBSize,
		boolByte(cfg.AutoCheckpoint),
		cfg.CheckpointThreshold,
	}
	if runtime.GOOS == "darwin" {
		words = append(words, darwinQOSDefault)
	}
	return words
}

func boolByte(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
