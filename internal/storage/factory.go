package storage

import (
	"context"
	"errors"
	"fmt"

	"pricecast/internal/config"
)

// NewSnapshotStore picks the snapshot backend from configuration: GCS when
// GCS_BUCKET is set, the local reports directory otherwise.
func NewSnapshotStore(ctx context.Context, cfg *config.Config) (SnapshotStore, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}

	if cfg.GCSBucket != "" {
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil
	}

	localClient, err := NewLocalStorageClient(cfg.LocalReportsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
	}
	return localClient, nil
}

// Location describes where a store keeps snapshot folders
func Location(store SnapshotStore) string {
	switch s := store.(type) {
	case *LocalStorageClient:
		return s.BaseDir()
	case *GCSClient:
		return "gs://" + s.Bucket()
	default:
		return ""
	}
}
