package config

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const fallbackVersion = "0.1.0"

// GetVersion returns the APP_VERSION environment variable when set, then the
// contents of a VERSION file, then the module version stamped by the Go
// toolchain.
func GetVersion() string {
	if envVersion := strings.TrimSpace(os.Getenv("APP_VERSION")); envVersion != "" {
		return envVersion
	}
	if v := readVersionFile("VERSION", filepath.Join("..", "VERSION")); v != "" {
		return v
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return fallbackVersion
}

// readVersionFile returns the first non-empty VERSION file among paths
func readVersionFile(paths ...string) string {
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(content)); v != "" {
			return v
		}
	}
	return ""
}
