package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is where on-disk overrides live, relative to the working directory.
const Dir = "prefabs"

//go:embed *.yaml scripts/*.tengo
var files embed.FS

// Load reads a data file. A copy under Dir wins over the embedded one so
// tuning can be edited without a rebuild.
func Load(name string) ([]byte, error) {
	return read(cleanPrefabPath(name), true)
}

// LoadScript is Load for files under scripts/.
func LoadScript(name string) ([]byte, error) {
	return read(cleanScriptPath(name), true)
}

// LoadEmbedded ignores disk overrides.
func LoadEmbedded(name string) ([]byte, error) {
	return read(cleanPrefabPath(name), false)
}

func read(clean string, disk bool) ([]byte, error) {
	if disk {
		if data, err := os.ReadFile(filepath.Join(Dir, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return files.ReadFile(clean)
}

// cleanPrefabPath turns "prefabs/x.yaml", "/abs/prefabs/x.yaml" or "x.yaml"
// into the embed-relative "x.yaml".
func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if i := strings.LastIndex(s, Dir+"/"); i >= 0 {
		s = s[i+len(Dir)+1:]
	}
	return s
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(cleanPrefabPath(p), "scripts/")
	return path.Join("scripts", s)
}
