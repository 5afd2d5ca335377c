// filepath: internal/cli/backup_command.go
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"archivehub/internal/housekeeping"
	"archivehub/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type PruneOptions struct {
	Watch bool
}

func NewBackupCommand(globalOptions *GlobalOptions) *cobra.Command {
	backupCommand := &cobra.Command{
		Use:   "backup",
		Short: "List, restore and prune store backups",
	}

	backupCommand.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List backups, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupList(cmd, globalOptions)
		},
	})

	backupCommand.AddCommand(&cobra.Command{
		Use:   "restore NAME",
		Short: "Replace the store with a backup",
		Long:  "Writes the named backup over the store. The replaced store is itself backed up first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupRestore(cmd, globalOptions, args[0])
		},
	})

	pruneOptions := &PruneOptions{}
	pruneCommand := &cobra.Command{
		Use:   "prune",
		Short: "Delete backups beyond the age and size limits",
		Long: `Deletes backups older than --backup-max-age, then the oldest ones while the total
exceeds --backup-max-size. The newest backup is always kept. With --watch the cleanup
repeats every store.housekeeping_interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackupPrune(cmd, globalOptions, pruneOptions)
		},
	}
	pruneCommand.Flags().BoolVar(&pruneOptions.Watch, "watch", false, "Keep running and prune at the housekeeping interval.")
	backupCommand.AddCommand(pruneCommand)

	return backupCommand
}

func runBackupList(cmd *cobra.Command, globalOptions *GlobalOptions) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}
	backups, err := a.engine.Rotator().List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(backups) == 0 {
		fmt.Fprintf(out, "No backups in %s\n", a.engine.Rotator().Dir())
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tCREATED")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%s\n", b.Name, humanize.Bytes(uint64(b.Size)), humanize.Time(b.CreatedAt))
	}
	return w.Flush()
}

func runBackupRestore(cmd *cobra.Command, globalOptions *GlobalOptions, name string) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}
	snap, err := a.engine.Rotator().Open(name)
	if err != nil {
		return err
	}
	if err := a.engine.Save(snap); err != nil {
		return err
	}
	logging.Log.Infof("Store restored from backup %s", name)
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", a.engine.Path(), name)
	return nil
}

func runBackupPrune(cmd *cobra.Command, globalOptions *GlobalOptions, opt *PruneOptions) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}
	deps := housekeeping.Dependencies{Backups: a.engine.Rotator()}
	policy := housekeeping.Policy{
		MaxAge:        a.cfg.BackupMaxAgeDuration,
		MaxTotalBytes: a.cfg.BackupMaxSizeBytes,
	}

	if opt.Watch {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return watchPrune(ctx, housekeeping.NewService(deps, policy, a.cfg.HousekeepingDuration))
	}

	report, err := housekeeping.Run(deps, policy, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Message)
	return nil
}

func watchPrune(ctx context.Context, svc *housekeeping.Service) error {
	svc.Start()
	<-ctx.Done()
	svc.Stop()
	return nil
}
