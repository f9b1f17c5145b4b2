package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"pricecast/internal/logger"
)

// GCSClient keeps snapshots in a Google Cloud Storage bucket. Object names
// are the snapshot folder joined with the file name.
type GCSClient struct {
	client *storage.Client
	bucket string
	log    *logger.Logger
}

// NewGCSClient creates a new GCS client for bucketName
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	if bucketName == "" {
		return nil, errors.New("GCS bucket name must not be empty")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSClient{
		client: client,
		bucket: bucketName,
		log:    logger.Component("storage"),
	}, nil
}

// Bucket is the bucket snapshots are written to
func (g *GCSClient) Bucket() string {
	return g.bucket
}

// Close closes the GCS client
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads one snapshot file
func (g *GCSClient) StoreFile(ctx context.Context, folder, filename string, data []byte) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("invalid file name %q", filename)
	}
	objectPath := path.Join(folder, filename)

	g.log.Debug("Storing snapshot file", map[string]interface{}{
		"uri": "gs://" + g.bucket + "/" + objectPath,
	})

	writer := g.client.Bucket(g.bucket).Object(objectPath).NewWriter(ctx)
	writer.ContentType = ContentType(filename)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"generated-at": time.Now().UTC().Format(time.RFC3339),
		"filename":     filename,
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write %s to GCS: %w", objectPath, err)
	}
	// The upload is only committed on Close
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload of %s: %w", objectPath, err)
	}
	return nil
}

// GetFile downloads an object by its path inside the bucket
func (g *GCSClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(filePath).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for file %s: %w", filePath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListSnapshots lists snapshot folders holding an index.html, newest first
func (g *GCSClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var folders []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		if folder, ok := snapshotFolderOf(attrs.Name); ok {
			folders = append(folders, folder)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(folders)))

	if limit > 0 && limit < len(folders) {
		folders = folders[:limit]
	}
	return folders, nil
}

// snapshotFolderOf returns the folder of an object named
// .../PriceSnapshot-*/index.html
func snapshotFolderOf(objectName string) (string, bool) {
	if path.Base(objectName) != "index.html" {
		return "", false
	}
	folder := path.Dir(objectName)
	if !strings.HasPrefix(path.Base(folder), SnapshotPrefix) {
		return "", false
	}
	return folder, true
}
