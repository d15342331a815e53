package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to
// the intended output so a template bug can be inspected. Best-effort; it
// never makes generation fail harder.
func writeDebugUnformatted(outDir, filename string, content []byte) error {
	if outDir == "" || filename == "" {
		return nil
	}

	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return err
	}
	// The sidecar must not end in .go or the broken output would be
	// compiled on the next build.
	debugName := strings.TrimSuffix(filename, ".go") + ".unformatted.txt"
	p := filepath.Join(outDir, debugName)

	return os.WriteFile(p, content, filePerm)
}
