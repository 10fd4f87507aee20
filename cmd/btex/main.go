// Package main provides the btex CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath points at the optional YAML settings file
var configPath string

// verbose enables debug-level logging
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "btex",
	Short: "BibTeX publication lists for static sites",
	Long: `btex turns BibTeX bibliographies into publication-list HTML.

It rewrites marker elements inside built pages, formats entries through
a citation style, and keeps Google Scholar citation counts in a local
YAML cache. All commands output JSON by default for easy integration
with build pipelines and other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML settings file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.Version = Version
}

// newLogger builds the CLI logger. Logs go to stderr so JSON output on
// stdout stays machine-parseable.
func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
