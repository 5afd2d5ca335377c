package cli

import (
	"fmt"
	"os"

	"archivehub/internal/config"

	"github.com/spf13/cobra"
)

// Version of the archivehub binary.
var Version = "0.4.0"

type GlobalOptions struct {
	CfgFilePath string
	LogLevel    string

	Conf *config.Config
}

func NewRootCMD() *cobra.Command {

	globalOptions := &GlobalOptions{}

	rootCMD := &cobra.Command{
		Use:     "archivehub",
		Short:   "Digital archive store tool",
		Long:    "Maintains the JSON store behind the digital archive: bootstrap, integrity checks, backups and statistics.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd, globalOptions)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewInitCommand(globalOptions))
	rootCMD.AddCommand(NewCheckCommand(globalOptions))
	rootCMD.AddCommand(NewBackupCommand(globalOptions))
	rootCMD.AddCommand(NewStatsCommand(globalOptions))
	rootCMD.AddCommand(NewExportCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	// flags that can be used for each command
	cmd.PersistentFlags().StringVar(&options.CfgFilePath, "config_path", defaultConfigPath, "Path to the base configuration file. (Env: ARCHIVE_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&options.LogLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: ARCHIVE_LOG_LEVEL)")
	cmd.PersistentFlags().String("store-path", "", "Path of the JSON store file. (Env: ARCHIVE_STORE_PATH)")
	cmd.PersistentFlags().String("backup-dir", "", "Directory for store backups. (Env: ARCHIVE_BACKUP_DIR)")
	cmd.PersistentFlags().Int("backup-retention", 0, "Number of backups to keep. (Env: ARCHIVE_BACKUP_RETENTION)")
	cmd.PersistentFlags().String("backup-max-age", "", "Delete backups older than this, e.g. '30d'. (Env: ARCHIVE_BACKUP_MAX_AGE)")
	cmd.PersistentFlags().String("backup-max-size", "", "Cap on total backup size, e.g. '500MB'. (Env: ARCHIVE_BACKUP_MAX_SIZE)")
	cmd.PersistentFlags().Bool("audit-enabled", false, "Enable detailed audit logging. (Env: ARCHIVE_AUDIT_ENABLED=true)")
}

func Execute() {

	rootCmd := NewRootCMD()

	// Run the command based on os.Args
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
