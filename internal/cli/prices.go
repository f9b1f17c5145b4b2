package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pricecast/internal/charts"
	"pricecast/internal/dashboard"
	"pricecast/internal/fetchers"
	"pricecast/internal/models"
	"pricecast/internal/reference"
)

// seriesFlags select one state and commodity by display name
type seriesFlags struct {
	state     string
	commodity string
	asJSON    bool
}

func (f *seriesFlags) add(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.state, "state", "", "state display name, e.g. \"Tamil Nadu\"")
	cmd.Flags().StringVar(&f.commodity, "commodity", "", "commodity display name, e.g. \"Tur dal\"")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the series as JSON")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("commodity")
}

// resolve maps the display names to the codes the price service expects
func (f *seriesFlags) resolve(tables *reference.Tables) (string, string, error) {
	code, ok := tables.StateCode(f.state)
	if !ok {
		return "", "", fmt.Errorf("unknown state %q (see 'pricecast states')", f.state)
	}
	token, ok := tables.CommodityToken(f.commodity)
	if !ok {
		return "", "", fmt.Errorf("unknown commodity %q (see 'pricecast commodities')", f.commodity)
	}
	return code, token, nil
}

func newHistoryCmd(opts *options) *cobra.Command {
	var flags seriesFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print historical modal prices for a state and commodity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			code, token, err := flags.resolve(app.Fetcher.Tables())
			if err != nil {
				return err
			}

			series, err := app.Fetcher.FetchHistory(cmd.Context(), code, token)
			if err != nil {
				return err
			}
			return printSeries(cmd, flags, "Historical Data", series)
		},
	}

	flags.add(cmd)
	return cmd
}

func newForecastCmd(opts *options) *cobra.Command {
	var (
		flags   seriesFlags
		horizon int
	)

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Print predicted prices for a state and commodity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := reference.ValidateHorizon(horizon); err != nil {
				return err
			}
			app, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			code, token, err := flags.resolve(app.Fetcher.Tables())
			if err != nil {
				return err
			}

			series, err := app.Fetcher.FetchForecast(cmd.Context(), code, token, horizon)
			if err != nil {
				return err
			}
			return printSeries(cmd, flags, "Predictions", series)
		},
	}

	flags.add(cmd)
	cmd.Flags().IntVar(&horizon, "horizon", reference.DefaultHorizon,
		"days to predict ("+strconv.Itoa(reference.MinHorizon)+"-"+strconv.Itoa(reference.MaxHorizon)+")")
	return cmd
}

func printSeries(cmd *cobra.Command, flags seriesFlags, title string, series models.PriceSeries) error {
	out := cmd.OutOrStdout()
	if flags.asJSON {
		return printJSON(out, series)
	}

	printTitle(out, charts.LineTitle(flags.commodity, flags.state)+": "+title)
	if series.IsEmpty() {
		printNote(out, charts.NoDataMessage)
		return nil
	}
	return printTable(out, dashboard.SeriesTable(title, series))
}

func newMapCmd(opts *options) *cobra.Command {
	var (
		commodity string
		horizon   int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Print the headline forecast of every state",
		Long:  "Fetch the forecast for every state and print the value the choropleth map would colour it by",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := reference.ValidateHorizon(horizon); err != nil {
				return err
			}
			app, err := opts.newApp(cmd)
			if err != nil {
				return err
			}
			tables := app.Fetcher.Tables()
			token, ok := tables.CommodityToken(commodity)
			if !ok {
				return fmt.Errorf("unknown commodity %q (see 'pricecast commodities')", commodity)
			}

			result := app.Fetcher.FetchForecastAllStates(cmd.Context(), token, horizon)
			values := fetchers.MergeWithDefaults(tables.States(), result.Predictions)

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, values)
			}

			printTitle(out, charts.MapTitle(commodity))
			warnings := make([]string, 0, len(result.Failures))
			for _, f := range result.Failures {
				warnings = append(warnings,
					fmt.Sprintf("Could not fetch prediction for %s: %s", f.State.DisplayName, fetchers.UserMessage(f.Err)))
			}
			printWarnings(cmd.ErrOrStderr(), warnings)
			if err := printTable(out, dashboard.StateTable(values)); err != nil {
				return err
			}
			printNote(out, fmt.Sprintf("%d of %d states fetched", result.Succeeded(), len(values)))
			return nil
		},
	}

	cmd.Flags().StringVar(&commodity, "commodity", "", "commodity display name")
	cmd.Flags().IntVar(&horizon, "horizon", reference.DefaultHorizon, "days to predict")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the state values as JSON")
	_ = cmd.MarkFlagRequired("commodity")
	return cmd
}
