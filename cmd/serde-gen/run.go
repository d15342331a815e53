package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vityafx/serde/internal/diagnostic"
	"github.com/vityafx/serde/internal/driver"
	"github.com/vityafx/serde/internal/frontend"
	"github.com/vityafx/serde/internal/gen"
)

var flagPackages []string

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate artifacts for every annotated type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, true)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify generated artifacts are current without writing",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, false)
	},
}

func init() {
	for _, c := range []*cobra.Command{genCmd, checkCmd} {
		c.Flags().StringSliceVarP(&flagPackages, "packages", "p", nil,
			"package patterns to scan (overrides the manifest)")
	}
}

func run(cmd *cobra.Command, write bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(flagPackages) > 0 {
		cfg.Packages = flagPackages
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	pkgs, err := frontend.NewLoader("").Load(cfg.Packages...)
	if err != nil {
		return err
	}

	if len(pkgs) == 0 {
		logger.Info("no annotated types found", zap.Strings("patterns", cfg.Packages))
		return nil
	}

	var (
		all   diagnostic.Diagnostics
		stale []string
	)

	for _, pkg := range pkgs {
		outDir := cfg.Output
		if outDir == "" {
			outDir = pkg.Dir
		}

		pkgName := cfg.PackageName
		if pkgName == "" {
			pkgName = pkg.Name
		}

		gcfg := gen.DefaultGeneratorConfig()
		gcfg.PackageName = pkgName
		gcfg.OutputDir = outDir

		d := driver.New(gen.NewGenerator(gcfg),
			driver.WithLogger(logger.With(zap.String("package", pkg.Path))),
			driver.WithWorkers(cfg.Workers))

		res, err := d.GenerateAll(cmd.Context(), pkg.Defs)
		if err != nil {
			return err
		}

		all.Errors = append(all.Errors, res.Diagnostics.Errors...)

		if write {
			if err := gen.WriteFiles(res.Files, outDir); err != nil {
				return err
			}

			continue
		}

		stale = append(stale, staleFiles(res.Files, outDir)...)
	}

	for _, d := range all.Errors {
		fmt.Fprintln(os.Stderr, d.Error())
	}

	if all.HasErrors() {
		return errors.Newf("%d type(s) failed to generate", len(all.Errors))
	}

	if !write && len(stale) > 0 {
		for _, f := range stale {
			fmt.Fprintln(os.Stderr, "stale:", f)
		}

		return errors.Newf("%d generated file(s) out of date; run serde-gen gen", len(stale))
	}

	return nil
}

// staleFiles compares freshly generated content against what is on disk.
func staleFiles(files []gen.GeneratedFile, outDir string) []string {
	var stale []string

	for _, f := range files {
		path := filepath.Join(outDir, f.Filename)

		existing, err := os.ReadFile(path)
		if err != nil || !bytes.Equal(existing, f.Content) {
			stale = append(stale, path)
		}
	}

	return stale
}
