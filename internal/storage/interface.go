package storage

import (
	"context"
	"errors"
)

// ErrNoSnapshots is returned when a store holds no snapshot folder yet
var ErrNoSnapshots = errors.New("no snapshots found")

// SnapshotStore persists the files of generated dashboard snapshots
type SnapshotStore interface {
	// Close releases the store
	Close() error

	// StoreFile writes one file into a snapshot folder
	StoreFile(ctx context.Context, folder, filename string, data []byte) error

	// GetFile reads a file by its path relative to the store root
	GetFile(ctx context.Context, path string) ([]byte, error)

	// ListSnapshots returns snapshot folders, newest first
	ListSnapshots(ctx context.Context, limit int) ([]string, error)
}

// LatestSnapshot returns the most recent snapshot folder of store
func LatestSnapshot(ctx context.Context, store SnapshotStore) (string, error) {
	folders, err := store.ListSnapshots(ctx, 1)
	if err != nil {
		return "", err
	}
	if len(folders) == 0 {
		return "", ErrNoSnapshots
	}
	return folders[0], nil
}
