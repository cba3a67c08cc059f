package cmd

import (
	"path/filepath"
	"strings"
)

// documentIDFromPath names a note file's document after its base name without extension.
func documentIDFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
