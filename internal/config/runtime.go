package config

import (
	"os"
	"path/filepath"
)

func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("GUATA_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = ".guata"
	}

	if !filepath.IsAbs(path) {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path)
	}
	return path
}
