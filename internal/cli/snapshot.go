package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pricecast/internal/config"
	"pricecast/internal/dashboard"
	"pricecast/internal/logger"
	"pricecast/internal/reference"
	"pricecast/internal/storage"
)

// NewStandaloneSnapshotCmd returns the snapshot command as a root command
// carrying its own copy of the global flags
func NewStandaloneSnapshotCmd(use, ver string) *cobra.Command {
	opts := &options{}
	cmd := newSnapshotCmd(opts)
	cmd.Use = use
	cmd.Version = ver
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	opts.addFlags(cmd)
	return cmd
}

// newSnapshotCmd renders one dashboard view to a timestamped folder of
// static files
func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		view      string
		commodity string
		state     string
		horizon   int
		raw       bool
		dir       string
		list      bool
		limit     int
		latest    bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a dashboard view to static files",
		Long:  "Generate a line or map view and store index.html, data.json and, for line views, chart.html and chart.png",
		Example: `  # Line view from the live service
  pricecast snapshot --commodity Rice --state Kerala

  # Map view from the bundled fixtures into ./out
  pricecast snapshot --mock --view map --commodity Onion --dir out

  # Show what was stored
  pricecast snapshot --list --limit 5
  pricecast snapshot --latest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list || latest {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				logger.GetGlobalLogger().SetOutput(cmd.ErrOrStderr())
				store, err := openSnapshotStore(cmd.Context(), cfg, dir)
				if err != nil {
					return err
				}
				defer store.Close()
				if latest {
					return printLatestSnapshot(cmd.Context(), cmd.OutOrStdout(), store)
				}
				return printSnapshotList(cmd.Context(), cmd.OutOrStdout(), store, limit)
			}

			app, err := opts.newApp(cmd)
			if err != nil {
				return err
			}

			values := url.Values{}
			values.Set("view", view)
			values.Set("horizon", strconv.Itoa(horizon))
			if commodity != "" {
				values.Set("commodity", commodity)
			}
			if state != "" {
				values.Set("state", state)
			}
			if raw {
				values.Set("raw", "on")
			}
			req, err := dashboard.ParseRequest(values, app.Dashboard.Tables())
			if err != nil {
				return err
			}

			snap, err := app.Dashboard.BuildSnapshot(cmd.Context(), req)
			if err != nil {
				return err
			}

			store, err := openSnapshotStore(cmd.Context(), app.Config, dir)
			if err != nil {
				return err
			}
			defer store.Close()

			folder, err := snap.Save(cmd.Context(), store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, snap.View.Title)
			printWarnings(cmd.ErrOrStderr(), append(append([]string{}, snap.View.Errors...), snap.View.Warnings...))
			if snap.View.State == dashboard.Failed {
				return fmt.Errorf("%s (snapshot kept in %s)", snap.View.Fatal, folder)
			}
			fmt.Fprintln(out, snapshotLocation(store, folder))
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", string(dashboard.LineView), "line or map")
	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity display name (default: first in the table)")
	cmd.Flags().StringVar(&state, "state", "", "state display name for line views (default: first in the table)")
	cmd.Flags().IntVar(&horizon, "horizon", reference.DefaultHorizon, "days to predict")
	cmd.Flags().BoolVar(&raw, "raw", false, "include the raw data tables")
	cmd.Flags().StringVar(&dir, "dir", "", "local output directory (overrides LOCAL_REPORTS_DIR and GCS_BUCKET)")
	cmd.Flags().BoolVar(&list, "list", false, "list stored snapshots, newest first, instead of rendering")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum snapshots shown by --list (0 for all)")
	cmd.Flags().BoolVar(&latest, "latest", false, "summarize the newest stored snapshot instead of rendering")
	cmd.MarkFlagsMutuallyExclusive("list", "latest")
	return cmd
}

// openSnapshotStore opens the configured snapshot backend. An explicit dir
// always selects local storage.
func openSnapshotStore(ctx context.Context, cfg *config.Config, dir string) (storage.SnapshotStore, error) {
	if dir != "" {
		local := *cfg
		local.LocalReportsDir = dir
		local.GCSBucket = ""
		cfg = &local
	}
	return storage.NewSnapshotStore(ctx, cfg)
}

func snapshotLocation(store storage.SnapshotStore, folder string) string {
	if local, ok := store.(*storage.LocalStorageClient); ok {
		return filepath.Join(local.BaseDir(), filepath.FromSlash(folder))
	}
	return storage.Location(store) + "/" + folder
}

func printSnapshotList(ctx context.Context, w io.Writer, store storage.SnapshotStore, limit int) error {
	folders, err := store.ListSnapshots(ctx, limit)
	if err != nil {
		return err
	}
	if len(folders) == 0 {
		printNote(w, "No snapshots in "+storage.Location(store))
		return nil
	}
	for _, folder := range folders {
		fmt.Fprintln(w, snapshotLocation(store, folder))
	}
	return nil
}

func printLatestSnapshot(ctx context.Context, w io.Writer, store storage.SnapshotStore) error {
	folder, err := storage.LatestSnapshot(ctx, store)
	if err != nil {
		return fmt.Errorf("%w in %s", err, storage.Location(store))
	}
	data, err := dashboard.LoadSnapshotData(ctx, store, folder)
	if err != nil {
		return err
	}

	printTitle(w, data.Title)
	table := dashboard.Table{
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Folder", snapshotLocation(store, folder)},
			{"Generated", data.GeneratedAt.UTC().Format(time.RFC3339)},
			{"View", data.Mode},
			{"Status", data.ViewState},
			{"Horizon", strconv.Itoa(data.Horizon)},
		},
	}
	switch data.Mode {
	case string(dashboard.MapView):
		table.Rows = append(table.Rows, []string{"States", strconv.Itoa(len(data.States))})
	default:
		table.Rows = append(table.Rows,
			[]string{"History points", strconv.Itoa(len(data.History))},
			[]string{"Forecast points", strconv.Itoa(len(data.Forecast))},
		)
	}
	if err := printTable(w, table); err != nil {
		return err
	}
	printWarnings(w, append(append([]string{}, data.Errors...), data.Warnings...))
	return nil
}
