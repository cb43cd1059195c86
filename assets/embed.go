package assets

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed audio models
var assetsFS embed.FS

// diskRoot is checked before the embedded files so assets can be swapped
// without rebuilding.
var diskRoot = "assets"

// SetDiskRoot changes the directory searched before the embedded assets. An
// empty root disables the override.
func SetDiskRoot(dir string) {
	diskRoot = dir
}

// Open opens an asset by assets-relative path, preferring the disk copy.
func Open(path string) (fs.File, error) {
	clean := cleanAssetPath(path)
	if diskRoot != "" {
		if f, err := os.Open(filepath.Join(diskRoot, filepath.FromSlash(clean))); err == nil {
			return f, nil
		}
	}
	return assetsFS.Open(clean)
}

// LoadFile loads an asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	if diskRoot != "" {
		if data, err := os.ReadFile(filepath.Join(diskRoot, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return assetsFS.ReadFile(clean)
}

func cleanAssetPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "assets/")
	return s
}
