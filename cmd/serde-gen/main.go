// Package main provides the CLI entrypoint for serde-gen.
//
// serde-gen scans Go packages for annotated types and generates their
// serializer and deserializer artifacts:
//   - Parses Go packages (AST) for serde struct tags and //serde: directives
//   - Resolves attributes, infers generic bounds, renders both artifacts
//   - Writes deterministic, gofmt-clean files next to the sources
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vityafx/serde/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "serde-gen",
	Short: "Generate serialization code for annotated Go types",
	Long: `serde-gen generates serializer and deserializer functions for Go
types annotated with serde struct tags and //serde: directives.

Examples:
  serde-gen gen                      # Generate per serde.yaml (or ./...)
  serde-gen gen -p ./model           # Generate one package
  serde-gen check                    # Fail if generated files are stale`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "",
		"path to the serde.yaml manifest (default: ./serde.yaml when present)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable debug logging")

	rootCmd.AddCommand(genCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "serde-gen:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the manifest: an explicit path must exist, the
// default path is optional.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}

	if _, err := os.Stat(config.DefaultFilename); err == nil {
		return config.LoadFile(config.DefaultFilename)
	}

	return config.Default(), nil
}

// buildLogger builds a console logger at the configured level.
func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if flagVerbose {
		lvl = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
