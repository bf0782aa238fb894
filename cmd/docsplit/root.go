package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/discoverytools/docsplit/internal/config"
	"github.com/discoverytools/docsplit/internal/report"
	"github.com/discoverytools/docsplit/version"
)

var (
	cfgFile      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "docsplit",
	Short: "Split multi-document PDF bundles into individual files",
	Long: `Docsplit detects document boundaries inside scanned PDF bundles and
splits them into individual files.

Discovery and records requests often arrive as one large scan: warrants,
affidavits and returns concatenated into a single PDF. Docsplit finds the
seams using three signals, strongest first:
  1. "Page X of Y" markers   - a document closes where X equals Y
  2. Standalone page numbers - a reset to 1 starts a new document
  3. Header document types   - AFFIDAVIT giving way to SEARCH WARRANT

Progress on large bundles is checkpointed every few pages, so an
interrupted run can continue with --resume instead of starting over.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.docsplit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "text", "output format: text, json or yaml",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		report.SetFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the command logger. Logs go to stderr so structured
// reports on stdout stay parseable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig loads configuration from the --config flag or the default
// search paths.
func loadConfig() (*config.Config, error) {
	mgr, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg := mgr.Get()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
