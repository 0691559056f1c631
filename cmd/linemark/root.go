package main

import (
	"fmt"

	"github.com/praetorian-inc/linemark/pkg/config"
	"github.com/praetorian-inc/linemark/pkg/store"
	"github.com/praetorian-inc/linemark/pkg/tracker"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var (
	configPath string
	storePath  string
	verbose    int
	logFile    string

	holder = config.NewHolder()
)

var rootCmd = &cobra.Command{
	Use:   "linemark",
	Short: "Linemark - track tool-generated lines through edits",
	Long: `Linemark remembers which line ranges of a document were inserted by an
automated tool and keeps those ranges accurate while the document is edited.

Editors talk to it over the language server protocol (linemark lsp) or the
NDJSON protocol (linemark serve). The remaining commands inspect and edit the
snapshot store directly.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "Snapshot store: SQLite path, postgres:// DSN or :memory: (overrides config)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	defer holder.Dispose()
	return rootCmd.Execute()
}

// setup loads configuration and configures logging before any subcommand.
func setup(cmd *cobra.Command, args []string) error {
	if err := holder.Init(configPath); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	cfg := currentConfig()

	path := cfg.Log.File
	if logFile != "" {
		path = logFile
	}
	var pathPtr *string
	if path != "" {
		pathPtr = &path
	}
	commonlog.Configure(cfg.Log.Verbosity+verbose, pathPtr)
	return nil
}

// currentConfig returns the published configuration with flag overrides.
func currentConfig() *config.Config {
	cfg := *holder.Current()
	if storePath != "" {
		cfg.Store = storePath
	}
	return &cfg
}

// openTracker opens the configured store and wraps it in a tracker.
func openTracker() (*tracker.Tracker, error) {
	cfg := currentConfig()
	s, err := store.New(store.Config{Path: cfg.Store})
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	t, err := tracker.FromConfig(s, cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("building tracker: %w", err)
	}
	return t, nil
}
