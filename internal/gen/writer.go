package gen

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory, creating
// it if needed. A file whose on-disk content already matches is left
// untouched so downstream build tools see no spurious modification.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		if existing, err := os.ReadFile(outputPath); err == nil && bytes.Equal(existing, file.Content) {
			continue
		}

		if err := os.WriteFile(outputPath, file.Content, filePerm); err != nil {
			return errors.Wrapf(err, "writing file %s", file.Filename)
		}
	}

	return nil
}
