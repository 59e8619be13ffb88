package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dealsLimit int

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List the top-scored deals from the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		deals, err := s.ListTopDeals(ctx, dealsLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, deal := range deals {
			fmt.Fprintf(out, "%3d. %-30s %3d/100  %s\n",
				i+1, deal.Record.CompanyName, deal.Score.Score, deal.Record.SourceName)
		}
		return nil
	},
}

func init() {
	dealsCmd.Flags().IntVar(&dealsLimit, "limit", 25, "max deals to list")
	rootCmd.AddCommand(dealsCmd)
}
