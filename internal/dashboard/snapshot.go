package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"time"

	"pricecast/internal/charts"
	"pricecast/internal/models"
	"pricecast/internal/storage"
)

// Snapshot file names
const (
	SnapshotIndexFile = "index.html"
	SnapshotChartFile = "chart.html"
	SnapshotPNGFile   = "chart.png"
	SnapshotDataFile  = "data.json"
)

// Snapshot is a generated view together with the files that reproduce it
// offline
type Snapshot struct {
	View  *View
	Files map[string][]byte
}

// SnapshotData is the data.json document of a snapshot
type SnapshotData struct {
	Mode        string              `json:"mode"`
	Commodity   string              `json:"commodity"`
	State       string              `json:"state,omitempty"`
	Horizon     int                 `json:"horizon"`
	ViewState   string              `json:"view_state"`
	Title       string              `json:"title"`
	GeneratedAt time.Time           `json:"generated_at"`
	Errors      []string            `json:"errors,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	Fatal       string              `json:"fatal,omitempty"`
	History     []models.PricePoint `json:"history,omitempty"`
	Forecast    []models.PricePoint `json:"forecast,omitempty"`
	States      []models.StateValue `json:"states,omitempty"`
}

// BuildSnapshot generates the view for req and renders its files. Line views
// get a standalone chart page and a PNG next to index.html.
func (s *Service) BuildSnapshot(ctx context.Context, req Request) (*Snapshot, error) {
	view := s.Generate(ctx, req)
	snap := &Snapshot{View: view, Files: make(map[string][]byte)}

	if req.Mode == LineView && view.PNGLink != "" {
		var png bytes.Buffer
		if err := charts.RenderLinePNG(&png, view.History, view.Forecast, view.Title); err != nil {
			return nil, fmt.Errorf("failed to render chart image: %w", err)
		}
		snap.Files[SnapshotPNGFile] = png.Bytes()

		var page bytes.Buffer
		if err := charts.RenderLinePage(&page, view.History, view.Forecast, req.Commodity, req.State); err != nil {
			return nil, fmt.Errorf("failed to render chart page: %w", err)
		}
		snap.Files[SnapshotChartFile] = page.Bytes()

		// The snapshot is served without the HTTP server
		view.PNGLink = SnapshotPNGFile
	}

	var index bytes.Buffer
	if err := s.RenderPage(&index, view); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	snap.Files[SnapshotIndexFile] = index.Bytes()

	data, err := json.MarshalIndent(newSnapshotData(view), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot data: %w", err)
	}
	snap.Files[SnapshotDataFile] = data

	return snap, nil
}

func newSnapshotData(view *View) SnapshotData {
	d := SnapshotData{
		Mode:        string(view.Request.Mode),
		Commodity:   view.Request.Commodity,
		Horizon:     view.Request.Horizon,
		ViewState:   view.State.String(),
		Title:       view.Title,
		GeneratedAt: view.GeneratedAt,
		Errors:      view.Errors,
		Warnings:    view.Warnings,
		Fatal:       view.Fatal,
		States:      view.StateValues,
	}
	if view.Request.Mode == LineView {
		d.State = view.Request.State
		d.History = view.History.Points
		d.Forecast = view.Forecast.Points
	}
	return d
}

// FolderLabel names the snapshot folder after what it shows
func (snap *Snapshot) FolderLabel() string {
	req := snap.View.Request
	if req.Mode == MapView {
		return req.Commodity + " map"
	}
	return req.Commodity + " " + req.State
}

// Save writes every file of the snapshot into a new timestamped folder of
// store and returns the folder
func (snap *Snapshot) Save(ctx context.Context, store storage.SnapshotStore) (string, error) {
	folder := storage.SnapshotFolderPath(snap.View.GeneratedAt, snap.FolderLabel())

	names := make([]string, 0, len(snap.Files))
	for name := range snap.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := store.StoreFile(ctx, folder, name, snap.Files[name]); err != nil {
			return "", fmt.Errorf("failed to store %s: %w", name, err)
		}
	}
	return folder, nil
}

// LoadSnapshotData reads back the data.json of a stored snapshot folder
func LoadSnapshotData(ctx context.Context, store storage.SnapshotStore, folder string) (*SnapshotData, error) {
	raw, err := store.GetFile(ctx, path.Join(folder, SnapshotDataFile))
	if err != nil {
		return nil, err
	}
	var data SnapshotData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse %s of %s: %w", SnapshotDataFile, folder, err)
	}
	return &data, nil
}
