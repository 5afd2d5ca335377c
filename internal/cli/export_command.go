// filepath: internal/cli/export_command.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"archivehub/internal/export"

	"github.com/spf13/cobra"
)

func NewExportCommand(globalOptions *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write a SQLite copy of the store for reporting",
		Long: `Creates a new SQLite database with documents, collections, news, research requests,
users (without password hashes) and the search log. The target file must not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, globalOptions, args[0])
		},
	}
}

func runExport(cmd *cobra.Command, globalOptions *GlobalOptions, target string) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}
	snap, err := a.engine.Load()
	if err != nil {
		return err
	}
	report, err := export.SQLite(cmd.Context(), snap, target)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported to %s\n", report.Path)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, table := range export.Tables {
		fmt.Fprintf(w, "%s\t%d\n", table, report.Rows[table])
	}
	return w.Flush()
}
