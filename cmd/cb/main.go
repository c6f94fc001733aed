// Package main provides the cb CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/matsen/codebrain/internal/config"
	"github.com/matsen/codebrain/internal/logger"
	"github.com/matsen/codebrain/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// jsonOutput switches list/search/export/import output to JSON
	jsonOutput bool

	// verbose enables debug logging on stderr
	verbose bool

	log = zap.NewNop().Sugar()
)

func main() {
	handleInterrupt()

	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true. Commands return
		// instead of exiting so their deferred cleanup runs first.
		code := reportError(err)
		_ = log.Sync()
		os.Exit(code)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cb",
	Short: "Personal tagged-notes CLI",
	Long: `cb keeps short markdown notes tagged with keywords.

Notes are stored in a local SQLite database and can be listed by recency
or searched by name and tag. Settings live in ~/.config/cb/settings.yml.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New("cb", verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	// A missing .env is fine; the settings file and real environment still apply.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Use JSON output instead of human-readable text")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// handleInterrupt makes Ctrl-C end the program quietly at any prompt.
func handleInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr)
		os.Exit(ExitSuccess)
	}()
}

// loadConfig resolves the settings file, creating it on first run, and
// applies environment overrides.
func loadConfig() (*config.Config, error) {
	path, err := config.SettingsPath()
	if err != nil {
		return nil, exitErrorf(ExitConfigError, "locating config: %v", err)
	}

	cfg, err := config.Bootstrap(path)
	if err != nil {
		if errors.Is(err, config.ErrUnsupportedPlatform) {
			return nil, exitErrorf(ExitConfigError, "%v", err)
		}
		return nil, exitErrorf(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, exitErrorf(ExitConfigError, "%v\n\nEdit %s or set %s/%s.", err, path, config.EnvDBFile, config.EnvCodeTheme)
	}

	log.Debugw("loaded config", "path", path, "db_file", cfg.DBFile, "code_theme", cfg.CodeTheme)
	return cfg, nil
}

// openStore opens the notes database named by cfg.
// The caller is responsible for calling Close() on the returned Store.
func openStore(cfg *config.Config) (*storage.Store, error) {
	store, err := storage.Open(cfg.DBFile, storage.WithLogger(log))
	if err != nil {
		return nil, exitErrorf(ExitError, "opening database: %v", err)
	}
	return store, nil
}

// setup loads the config and opens the store for a command.
func setup() (*config.Config, *storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}
