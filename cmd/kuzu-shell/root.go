package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	kuzu "github.com/semihalev/go-kuzu"
	"github.com/semihalev/go-kuzu/kuzutest"
)

// Settings keys. Each is also a flag and a KUZU_ environment variable, for
// example KUZU_LIBRARY or KUZU_QUERY_TIMEOUT.
const (
	keyConfig       = "config"
	keyDatabase     = "database"
	keyLibrary      = "library"
	keyLogLevel     = "log-level"
	keyQueryTimeout = "query-timeout"
	keyReadOnly     = "read-only"
	keyEngine       = "engine"
	keyOutput       = "output"
)

var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "kuzu-shell",
	Short: "Run Cypher queries against a Kuzu database",
	Long: `kuzu-shell opens a Kuzu database through the shared library and runs
Cypher statements against it.

Settings come from flags, KUZU_* environment variables and an optional
YAML config file, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(keyConfig, "", "Path to a YAML config file")
	pf.StringP(keyDatabase, "d", "", "Database path (default: in-memory)")
	pf.String(keyLibrary, "", "Path to the Kuzu shared library")
	pf.String(keyLogLevel, "", "Log level (debug|info|warn|error)")
	pf.Duration(keyQueryTimeout, 0, "Per-query timeout")
	pf.Bool(keyReadOnly, false, "Open the database read-only")
	pf.String(keyEngine, "native", "Engine to use (native|memory)")
	pf.StringP(keyOutput, "o", "table", "Output format (table|json)")

	settings.SetEnvPrefix("KUZU")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	if err := settings.BindPFlags(pf); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(queryCmd, infoCmd)
}

// Execute runs the root command with signal handling
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig merges the config file with flag and environment overrides.
func loadConfig() (kuzu.Config, error) {
	cfg := kuzu.DefaultConfig()
	if path := settings.GetString(keyConfig); path != "" {
		var err error
		if cfg, err = kuzu.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if settings.IsSet(keyDatabase) {
		cfg.Path = settings.GetString(keyDatabase)
	}
	if settings.IsSet(keyLibrary) {
		cfg.Library = settings.GetString(keyLibrary)
	}
	if settings.IsSet(keyLogLevel) {
		cfg.LogLevel = settings.GetString(keyLogLevel)
	}
	if settings.IsSet(keyQueryTimeout) {
		cfg.QueryTimeout = settings.GetDuration(keyQueryTimeout)
	}
	if settings.IsSet(keyReadOnly) {
		cfg.System.ReadOnly = settings.GetBool(keyReadOnly)
	}
	return cfg, cfg.Validate()
}

// openDatabase opens the configured database with a stderr logger.
func openDatabase() (*kuzu.Database, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts := []kuzu.Option{kuzu.WithLogger(logger)}
	switch engine := settings.GetString(keyEngine); engine {
	case "native":
	case "memory":
		opts = append(opts, kuzu.WithEngine(kuzutest.NewEngine()))
	default:
		return nil, kuzu.NewError(kuzu.ErrGeneric, "unknown engine "+engine)
	}
	return kuzu.OpenConfig(cfg, opts...)
}
