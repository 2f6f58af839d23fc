package kuzu

// Counters exposed to the external tests.

func BlobDecodes() uint64 { return blobDecodes.Load() }

func ColumnIndexBuilds() uint64 { return columnIndexBuilds.Load() }

func NewColumnIndex(names []string) *ColumnIndex { return newColumnIndex(names) }

func UnescapeBlob(src []byte) ([]byte, error) { return unescapeBlob(src) }

func SystemConfigWords(cfg SystemConfig) []uint64 { return systemConfigWords(cfg) }

func PlanCacheSize() int {
	n := 0
	planCache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
