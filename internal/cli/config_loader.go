// filepath: internal/cli/config_loader.go
package cli

import (
	"fmt"
	"os"

	"archivehub/internal/config"
	"archivehub/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix         = "ARCHIVE"
	defaultConfigPath = "config.toml"
)

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	"logging.level":          "log-level",
	"logging.audit_enabled":  "audit-enabled",
	"store.path":             "store-path",
	"store.backup_dir":       "backup-dir",
	"store.backup_retention": "backup-retention",
	"store.backup_max_age":   "backup-max-age",
	"store.backup_max_size":  "backup-max-size",
	"admin.password":         "password",
	"admin.reset_password":   "reset_pw",
}

// envKeys maps configuration keys to their environment variables.
var envKeys = map[string]string{
	"store.path":                  envPrefix + "_STORE_PATH",
	"store.backup_dir":            envPrefix + "_BACKUP_DIR",
	"store.backup_retention":      envPrefix + "_BACKUP_RETENTION",
	"store.backup_max_age":        envPrefix + "_BACKUP_MAX_AGE",
	"store.backup_max_size":       envPrefix + "_BACKUP_MAX_SIZE",
	"store.housekeeping_interval": envPrefix + "_STORE_HOUSEKEEPING_INTERVAL",
	"logging.level":               envPrefix + "_LOG_LEVEL",
	"logging.audit_enabled":       envPrefix + "_AUDIT_ENABLED",
	"session.timeout":             envPrefix + "_SESSION_TIMEOUT",
	"admin.username":              envPrefix + "_ADMIN_USERNAME",
	"admin.password":              envPrefix + "_ADMIN_PASSWORD",
	"admin.reset_password":        envPrefix + "_ADMIN_RESET_PASSWORD",
}

// initializeConfig loads the TOML file, then applies environment and flag overrides.
func initializeConfig(cmd *cobra.Command, options *GlobalOptions) error {
	// 1. Check environment variable for config path first
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" && !cmd.Flags().Changed("config_path") {
		options.CfgFilePath = envPath
	}

	cfg, err := config.LoadConfig(options.CfgFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", options.CfgFilePath, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	v, err := newOverrideLayer(cmd.Flags())
	if err != nil {
		return err
	}
	applyOverrides(cfg, v)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)
	options.Conf = cfg
	options.LogLevel = cfg.Logging.Level

	return nil
}

// newOverrideLayer binds the environment and the command's flags. A flag wins over
// the environment only when it was set explicitly.
func newOverrideLayer(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return v, nil
}

func applyOverrides(c *config.Config, v *viper.Viper) {
	if v.IsSet("store.path") {
		c.Store.Path = v.GetString("store.path")
	}
	if v.IsSet("store.backup_dir") {
		c.Store.BackupDir = v.GetString("store.backup_dir")
	}
	if v.IsSet("store.backup_retention") {
		c.Store.BackupRetention = v.GetInt("store.backup_retention")
	}
	if v.IsSet("store.backup_max_age") {
		c.Store.BackupMaxAge = v.GetString("store.backup_max_age")
	}
	if v.IsSet("store.backup_max_size") {
		c.Store.BackupMaxSize = v.GetString("store.backup_max_size")
	}
	if v.IsSet("store.housekeeping_interval") {
		c.Store.Housekeeping = v.GetString("store.housekeeping_interval")
	}
	if v.IsSet("logging.level") {
		c.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.audit_enabled") {
		c.Logging.AuditEnabled = v.GetBool("logging.audit_enabled")
	}
	if v.IsSet("session.timeout") {
		c.Session.Timeout = v.GetString("session.timeout")
	}
	if v.IsSet("admin.username") {
		c.Admin.Username = v.GetString("admin.username")
	}
	if v.IsSet("admin.password") {
		c.AdminPassword = v.GetString("admin.password")
	}
	if v.IsSet("admin.reset_password") {
		c.ResetAdminPassword = v.GetBool("admin.reset_password")
	}
}
