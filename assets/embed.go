package assets

import (
	"embed"
	"path/filepath"
	"strings"
)

//go:embed shaders/*.kage
var assetsFS embed.FS

// LoadShader returns the Kage source of a shader under shaders/.
func LoadShader(name string) ([]byte, error) {
	clean := cleanAssetPath(name)
	if !strings.HasPrefix(clean, "shaders/") {
		clean = "shaders/" + clean
	}
	if filepath.Ext(clean) == "" {
		clean += ".kage"
	}
	return assetsFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
