// filepath: internal/cli/check_command.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"archivehub/internal/logging"
	"archivehub/internal/models"
	"archivehub/internal/shared"
	"archivehub/internal/store"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type CheckOptions struct {
	RestoreLatest bool
}

func NewCheckCommand(globalOptions *GlobalOptions) *cobra.Command {

	checkOptions := &CheckOptions{}

	checkCommand := &cobra.Command{
		Use:   "check",
		Short: "Verify that the store decodes and print record counts",
		Long: `Loads the store file and prints the number of records per collection.
A corrupt store fails the command unless --restore-latest is given, in which case the
newest backup that decodes is written back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, globalOptions, checkOptions)
		},
	}

	checkOptions.registerFlags(checkCommand)

	return checkCommand
}

func (opt *CheckOptions) registerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&opt.RestoreLatest, "restore-latest", false, "Restore the newest usable backup when the store is corrupt.")
}

func runCheck(cmd *cobra.Command, globalOptions *GlobalOptions, opt *CheckOptions) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}

	snap, err := a.engine.Load()
	switch {
	case err == nil:
	case errors.Is(err, store.ErrStoreNotFound):
		return fmt.Errorf("%w (run 'archivehub init' first)", err)
	case errors.Is(err, store.ErrCorruptStore) && opt.RestoreLatest:
		logging.Log.Warnf("Store is corrupt: %v. Looking for a usable backup...", err)
		if snap, err = restoreLatest(a.engine); err != nil {
			return err
		}
	default:
		return err
	}

	out := cmd.OutOrStdout()
	if info, err := os.Stat(a.engine.Path()); err == nil {
		fmt.Fprintf(out, "Store: %s (%s)\n", a.engine.Path(), humanize.Bytes(uint64(info.Size())))
	}
	printCounts(out, snap)
	return nil
}

// restoreLatest writes back the newest backup that decodes.
func restoreLatest(engine *store.Engine) (*models.Snapshot, error) {
	rotator := engine.Rotator()
	backups, err := rotator.List()
	if err != nil {
		return nil, err
	}
	for _, b := range slices.Backward(backups) {
		snap, err := rotator.Open(b.Name)
		if err != nil {
			logging.Log.Warnf("Skipping backup %s: %v", b.Name, err)
			continue
		}
		if err := engine.Save(snap); err != nil {
			return nil, err
		}
		logging.Log.Infof("Store restored from backup %s", b.Name)
		return snap, nil
	}
	return nil, shared.ErrorStoreBroken
}

func printCounts(out io.Writer, s *models.Snapshot) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		count int
	}{
		{"documents", len(s.Documents)},
		{"collections", len(s.Collections)},
		{"news", len(s.News)},
		{"gallery", len(s.Gallery)},
		{"notifications", len(s.Notifications)},
		{"research_requests", len(s.ResearchRequests)},
		{"contact_messages", len(s.ContactMessages)},
		{"users", len(s.Users)},
		{"pages", len(s.Pages)},
		{"newsletter_subscribers", len(s.NewsletterSubscribers)},
		{"search_queries", len(s.Analytics.SearchQueries)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.name, r.count)
	}
	w.Flush()
}
