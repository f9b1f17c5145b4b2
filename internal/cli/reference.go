package cli

import (
	"github.com/spf13/cobra"

	"pricecast/internal/dashboard"
	"pricecast/internal/reference"
)

func newStatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List the states the price service knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := dashboard.Table{Headers: []string{"State", "Code"}}
			for _, s := range reference.Default().States() {
				t.Rows = append(t.Rows, []string{s.DisplayName, s.Code})
			}
			return printTable(cmd.OutOrStdout(), t)
		},
	}
}

func newCommoditiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commodities",
		Short: "List the commodities the price service knows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := dashboard.Table{Headers: []string{"Commodity", "Token"}}
			for _, c := range reference.Default().Commodities() {
				t.Rows = append(t.Rows, []string{c.DisplayName, c.Token})
			}
			return printTable(cmd.OutOrStdout(), t)
		},
	}
}
