package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

var ErrEnvExists = errors.New(".env file already exists")

// Finalize derives the transport flags and drops wizard-only and empty
// answers.
func Finalize(state *InstallState) {
	vars := state.EnvVars

	if vars["TELEGRAM_TOKEN"] != "" {
		vars["ENABLE_TELEGRAM"] = "true"
	} else {
		vars["ENABLE_TELEGRAM"] = "false"
	}
	if vars["ENABLE_HTTP"] == "" {
		vars["ENABLE_HTTP"] = "true"
	}

	for k, v := range vars {
		if strings.HasPrefix(k, "_") || v == "" {
			delete(vars, k)
		}
	}
}

func EnvPath(runtimePath string) string {
	return filepath.Join(runtimePath, ".env")
}

// SaveEnv writes vars to <runtimePath>/.env. An existing file is only
// replaced when overwrite is set.
func SaveEnv(runtimePath string, vars map[string]string, overwrite bool) (string, error) {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create runtime directory: %w", err)
	}

	path := EnvPath(runtimePath)
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%w at %s", ErrEnvExists, path)
		}
	}

	content, err := godotenv.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("failed to render .env: %w", err)
	}

	if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
