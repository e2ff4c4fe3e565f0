package app

import (
	"os"
	"path/filepath"
)

// watchDir picks the directory to watch for a scene path: the file's own
// directory when it exists on disk, else the local scene/ directory.
func watchDir(scenePath string) string {
	if scenePath != "" {
		if _, err := os.Stat(scenePath); err == nil {
			return filepath.Dir(scenePath)
		}
	}
	return "scene"
}
