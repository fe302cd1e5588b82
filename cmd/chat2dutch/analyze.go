package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/chat2dutch/internal/bootstrap"
	"github.com/at-ishikawa/chat2dutch/internal/cli"
	"github.com/at-ishikawa/chat2dutch/internal/config"
	"github.com/at-ishikawa/chat2dutch/internal/quiz"
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze learning progress and statistics",
	}
	cmd.AddCommand(newAnalyzeReportCommand())
	return cmd
}

func newAnalyzeReportCommand() *cobra.Command {
	var year, month int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show a monthly report of the words marked known and unknown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != 0 && year == 0 {
				return fmt.Errorf("--month requires --year to be specified")
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("--month must be between 1 and 12")
			}

			return runWithStores(cmd, func(ctx context.Context, _ *config.Config, _ *bootstrap.App, stores quiz.Stores) error {
				return cli.RunAnalyzeReport(ctx, cmd.OutOrStdout(), stores.Dictionary, year, month)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Filter by year (e.g., 2025)")
	cmd.Flags().IntVar(&month, "month", 0, "Filter by month (1-12), requires --year")

	return cmd
}
