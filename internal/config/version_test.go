package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetVersionFromEnvironment(t *testing.T) {
	t.Setenv("APP_VERSION", "1.2.3")

	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("Expected version '1.2.3', got '%s'", got)
	}
}

func TestGetVersionFallback(t *testing.T) {
	t.Setenv("APP_VERSION", "")

	if got := GetVersion(); got == "" {
		t.Error("Expected a non-empty fallback version")
	}
}

func TestReadVersionFile(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "EMPTY")
	versionFile := filepath.Join(dir, "VERSION")

	if err := os.WriteFile(empty, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(versionFile, []byte("2.4.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := readVersionFile(filepath.Join(dir, "missing"), empty, versionFile); got != "2.4.0" {
		t.Errorf("Expected '2.4.0', got '%s'", got)
	}
	if got := readVersionFile(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("Expected empty version for missing files, got '%s'", got)
	}
}
