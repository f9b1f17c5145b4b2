package storage

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// SnapshotPrefix starts the name of every snapshot folder
const SnapshotPrefix = "PriceSnapshot-"

// SnapshotFolderPath generates a consistent folder path for snapshots
// Format: YYYY/MM/DD/PriceSnapshot-YYYY-MM-DD-HH-MM-SS[-label]
func SnapshotFolderPath(timestamp time.Time, label string) string {
	timestamp = timestamp.UTC()
	folder := fmt.Sprintf("%04d/%02d/%02d/%s%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		SnapshotPrefix,
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
	if slug := Slug(label); slug != "" {
		folder += "-" + slug
	}
	return folder
}

// Slug lower-cases s and keeps only letters and digits, joined by dashes
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

// ContentType determines the MIME type of a snapshot file from its extension
func ContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	case ".csv":
		return "text/csv"
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
