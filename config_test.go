package kuzu_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

func TestParseConfig(t *testing.T) {
	cfg, err := kuzu.ParseConfig([]byte(`
path: /var/lib/graph
log_level: debug
query_timeout: 30s
naming: snake_case
system:
  buffer_pool_size: 1073741824
  max_num_threads: 4
  read_only: true
`))
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/graph", cfg.Path)
	assert.Equal(t, 30*time.Second, cfg.QueryTimeout)
	assert.Equal(t, kuzu.NamingSnakeCase, cfg.NamingStrategy())
	assert.Equal(t, uint64(1<<30), cfg.System.BufferPoolSize)
	assert.Equal(t, uint64(4), cfg.System.MaxNumThreads)
	assert.True(t, cfg.System.ReadOnly)
	// keys missing from the document keep their defaults
	assert.True(t, cfg.System.EnableCompression)
	assert.True(t, cfg.System.AutoCheckpoint)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"log level", "log_level: loud"},
		{"negative timeout", "query_timeout: -1s"},
		{"naming", "naming: kebab"},
		{"read-only in-memory", "system:\n  read_only: true"},
		{"syntax", "path: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := kuzu.ParseConfig([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kuzu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("path: ':memory:'\nlog_level: warn\n"), 0o600))
	cfg, err := kuzu.LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.InMemory())
	assert.Equal(t, "warn", cfg.LogLevel)

	_, err = kuzu.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSystemConfigWords(t *testing.T) {
	cfg := kuzu.DefaultSystemConfig()
	cfg.BufferPoolSize = 1 << 28
	cfg.ReadOnly = true
	words := kuzu.SystemConfigWords(cfg)

	want := []uint64{1 << 28, 0, 1 | 1<<8, 1 << 43, 1, 16 * 1024 * 1024}
	if runtime.GOOS == "darwin" {
		want = append(want, 0x15)
	}
	assert.Equal(t, want, words)

	cfg.MaxDBSize = 1 << 30
	assert.Equal(t, uint64(1<<30), kuzu.SystemConfigWords(cfg)[3])
}

func TestOpenWithConfig(t *testing.T) {
	e := kuzutest.NewEngine()
	path := filepath.Join(t.TempDir(), "graph")

	cfg := kuzu.DefaultConfig()
	cfg.Path = path
	cfg.QueryTimeout = 5 * time.Second
	db, err := kuzu.OpenConfig(cfg, kuzu.WithEngine(e))
	require.NoError(t, err)
	conn, err := db.Connect()
	require.NoError(t, err)
	mustExec(t, conn, "CREATE (:Item {id: 1})")
	require.NoError(t, db.Close())

	// a reopened path keeps its data
	cfg.System.ReadOnly = true
	db, err = kuzu.OpenConfig(cfg, kuzu.WithEngine(e))
	require.NoError(t, err)
	defer db.Close()
	conn, err = db.Connect()
	require.NoError(t, err)

	n, err := conn.QueryScalar("MATCH (i:Item) RETURN count(*)")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	err = conn.Exec("CREATE (:Item {id: 2})")
	assert.True(t, kuzu.IsError(err, kuzu.ErrExec))
	assert.Contains(t, err.Error(), "read-only")
}
