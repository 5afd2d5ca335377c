// filepath: internal/cli/stats_command.go
package cli

import (
	"encoding/json"

	"archivehub/internal/analytics"

	"github.com/spf13/cobra"
)

type StatsOptions struct {
	Top int
}

// statsReport is printed by the stats command.
type statsReport struct {
	Overview     analytics.Overview       `json:"overview"`
	Public       analytics.PublicStats    `json:"public"`
	SearchTrends []analytics.KeywordCount `json:"searchTrends"`
}

func NewStatsCommand(globalOptions *GlobalOptions) *cobra.Command {
	statsOptions := &StatsOptions{}

	statsCommand := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, globalOptions, statsOptions)
		},
	}
	statsCommand.Flags().IntVar(&statsOptions.Top, "top", 10, "Number of search keywords to show (0 for all).")

	return statsCommand
}

func runStats(cmd *cobra.Command, globalOptions *GlobalOptions, opt *StatsOptions) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}
	agg := analytics.New(a.engine)

	var report statsReport
	if report.Overview, err = agg.Overview(); err != nil {
		return err
	}
	if report.Public, err = agg.PublicStats(); err != nil {
		return err
	}
	if report.SearchTrends, err = agg.SearchTrends(opt.Top); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
