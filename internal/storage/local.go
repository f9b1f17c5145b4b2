package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStorageClient keeps snapshots on the local file system
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if baseDir == "" {
		baseDir = "reports"
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}

	return &LocalStorageClient{
		baseDir: baseDir,
	}, nil
}

// BaseDir is the root all snapshot folders live under
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile writes a file into folder, creating it if needed
func (l *LocalStorageClient) StoreFile(ctx context.Context, folder, filename string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid file name %q", filename)
	}

	dir := filepath.Join(l.baseDir, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}

// GetFile reads a file relative to the base directory
func (l *LocalStorageClient) GetFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath := filepath.Join(l.baseDir, filepath.FromSlash(path))
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListSnapshots lists snapshot folders that contain an index.html, newest first
func (l *LocalStorageClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	var folders []string

	err := filepath.WalkDir(l.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || d.Name() != "index.html" {
			return nil
		}
		dir := filepath.Dir(path)
		if !strings.HasPrefix(filepath.Base(dir), SnapshotPrefix) {
			return nil
		}
		rel, relErr := filepath.Rel(l.baseDir, dir)
		if relErr != nil {
			return nil
		}
		folders = append(folders, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk snapshot directory: %w", err)
	}

	// Folder names sort chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(folders)))

	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders, nil
}
