// filepath: internal/cli/init_command.go
package cli

import (
	"fmt"
	"os"
	"time"

	"archivehub/internal/config"
	"archivehub/internal/initconfig"
	"archivehub/internal/logging"
	"archivehub/internal/models"

	"github.com/spf13/cobra"
)

type InitOptions struct {
	Seed        string
	WriteConfig bool
}

func NewInitCommand(globalOptions *GlobalOptions) *cobra.Command {
	initOptions := &InitOptions{}

	initCommand := &cobra.Command{
		Use:   "init",
		Short: "Create the store if missing and ensure the admin account",
		Long: `Writes a default store when none exists, creates the configured admin user
(or resets its password with --reset_pw) and applies an optional TOML seed file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, globalOptions, initOptions)
		},
	}

	initOptions.registerFlags(initCommand)

	return initCommand
}

func (opt *InitOptions) registerFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&opt.Seed, "seed", "", "Path to a TOML file with users and collections to create. (Env: ARCHIVE_SEED)")
	cmd.Flags().String("password", "", "Password for the admin user. (Env: ARCHIVE_ADMIN_PASSWORD)")
	cmd.Flags().Bool("reset_pw", false, "Reset the admin password. (Env: ARCHIVE_ADMIN_RESET_PASSWORD=true)")
	cmd.Flags().BoolVar(&opt.WriteConfig, "write-config", false, "Write the effective configuration to --config_path if that file does not exist.")
}

func runInit(cmd *cobra.Command, globalOptions *GlobalOptions, opt *InitOptions) error {
	a, err := newApp(globalOptions)
	if err != nil {
		return err
	}

	created, err := a.engine.Bootstrap(func() *models.Snapshot { return models.DefaultSnapshot(time.Now()) })
	if err != nil {
		return fmt.Errorf("failed to bootstrap store: %w", err)
	}
	if !created {
		logging.Log.Infof("Store already present at %s", a.engine.Path())
	}

	if err := a.userSvc.InitializeAdminUser(a.cfg); err != nil {
		return err
	}

	seed := opt.Seed
	if seed == "" {
		seed = os.Getenv(envPrefix + "_SEED")
	}
	if seed != "" {
		if err := initconfig.Run(a.userSvc, a.repo, seed); err != nil {
			return err
		}
	}

	if opt.WriteConfig {
		if err := writeConfigIfMissing(globalOptions.CfgFilePath, a.cfg); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Store ready at %s\n", a.engine.Path())
	return nil
}

// writeConfigIfMissing never overwrites an existing file. Passwords are not part of the file.
func writeConfigIfMissing(path string, cfg *config.Config) error {
	if _, err := os.Stat(path); err == nil {
		logging.Log.Infof("Configuration file %s already exists, not overwriting", path)
		return nil
	}
	if err := config.SaveConfig(path, cfg); err != nil {
		return fmt.Errorf("failed to write configuration to %s: %w", path, err)
	}
	logging.Log.Infof("Configuration written to %s", path)
	return nil
}
