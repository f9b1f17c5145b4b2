package cli

import (
	"github.com/spf13/cobra"

	"pricecast/internal/config"
	"pricecast/internal/logger"
	"pricecast/internal/server"
)

// options are the persistent flags shared by every subcommand
type options struct {
	logLevel  string
	logFormat string
	mock      bool
	mocksDir  string
}

// NewRootCmd creates the root Cobra command for the pricecast CLI
func NewRootCmd(ver string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "pricecast",
		Short:         "Indian commodity price history, forecasts and maps",
		Long:          "pricecast serves the commodity price dashboard and queries the price service from a terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(cmd)
	cmd.AddCommand(
		newServeCmd(opts),
		newHistoryCmd(opts),
		newForecastCmd(opts),
		newMapCmd(opts),
		newStatesCmd(),
		newCommoditiesCmd(),
		newSnapshotCmd(opts),
	)

	return cmd
}

const rootCmdExample = `  # Start the dashboard on $PORT
  pricecast serve

  # Historical modal prices of rice in Kerala
  pricecast history --state Kerala --commodity Rice

  # 200 day forecast as JSON
  pricecast forecast --state Kerala --commodity Rice --horizon 200 --json

  # Headline forecast for every state
  pricecast map --commodity Onion

  # Write a dashboard snapshot from the bundled fixtures
  pricecast snapshot --mock --view map --commodity Onion`

func (o *options) addFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&o.logFormat, "log-format", "", "log format json|text (overrides LOG_FORMAT)")
	cmd.PersistentFlags().BoolVar(&o.mock, "mock", false, "serve prices and boundaries from MOCKS_DIR")
	cmd.PersistentFlags().StringVar(&o.mocksDir, "mocks-dir", "", "fixture directory (overrides MOCKS_DIR)")
}

// loadConfig reads the environment and applies the command line overrides
func (o *options) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if o.mock {
		cfg.MockupMode = true
	}
	if o.mocksDir != "" {
		cfg.MocksDir = o.mocksDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

// newApp builds the price sources for a one-shot terminal command. Logs go
// to stderr so stdout carries only the result.
func (o *options) newApp(cmd *cobra.Command) (*server.Server, error) {
	cfg, err := o.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger.GetGlobalLogger().SetOutput(cmd.ErrOrStderr())
	return server.NewServer(cfg)
}
