// filepath: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"archivehub/internal/shared"

	"github.com/BurntSushi/toml"
)

// Defaults applied when neither the file, the environment nor a flag sets a value.
const (
	DefaultStorePath       = "./data/database.json"
	DefaultBackupDir       = "./backups"
	DefaultBackupRetention = 7
	DefaultBackupMaxAge    = "0"
	DefaultBackupMaxSize   = "0"
	DefaultHousekeeping    = "1h"
	DefaultLogLevel        = "info"
	DefaultSessionTimeout  = "1h"
	DefaultAdminUsername   = "admin"
)

// Config holds the application's configuration.
type Config struct {
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
	Session SessionConfig `toml:"session"`
	Admin   AdminConfig   `toml:"admin"`

	AdminPassword      string `toml:"-"` // Not loaded from file, set by CLI/env
	ResetAdminPassword bool   `toml:"-"` // Not loaded from file, set by CLI/env

	BackupMaxAgeDuration   time.Duration `toml:"-"` // Runtime computed value
	BackupMaxSizeBytes     uint64        `toml:"-"` // Runtime computed value
	HousekeepingDuration   time.Duration `toml:"-"` // Runtime computed value
	SessionTimeoutDuration time.Duration `toml:"-"` // Runtime computed value
}

// StoreConfig holds the location of the store file and its backup policy.
type StoreConfig struct {
	Path            string `toml:"path"`
	BackupDir       string `toml:"backup_dir"`
	BackupRetention int    `toml:"backup_retention"`
	BackupMaxAge    string `toml:"backup_max_age"`  // e.g. "30d", "0" disables
	BackupMaxSize   string `toml:"backup_max_size"` // e.g. "500MB", "0" disables
	Housekeeping    string `toml:"housekeeping_interval"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level        string `toml:"level"`
	AuditEnabled bool   `toml:"audit_enabled"`
}

// SessionConfig holds the admin session settings.
type SessionConfig struct {
	Timeout string `toml:"timeout"`
}

// AdminConfig names the bootstrap administrator.
type AdminConfig struct {
	Username string `toml:"username"`
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrorCreateFile, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrorEncodeFile, err)
	}
	return nil
}

// ApplyDefaults fills every empty field with its documented default.
func (c *Config) ApplyDefaults() {
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Store.BackupDir == "" {
		c.Store.BackupDir = DefaultBackupDir
	}
	if c.Store.BackupRetention == 0 {
		c.Store.BackupRetention = DefaultBackupRetention
	}
	if c.Store.BackupMaxAge == "" {
		c.Store.BackupMaxAge = DefaultBackupMaxAge
	}
	if c.Store.BackupMaxSize == "" {
		c.Store.BackupMaxSize = DefaultBackupMaxSize
	}
	if c.Store.Housekeeping == "" {
		c.Store.Housekeeping = DefaultHousekeeping
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Session.Timeout == "" {
		c.Session.Timeout = DefaultSessionTimeout
	}
	if c.Admin.Username == "" {
		c.Admin.Username = DefaultAdminUsername
	}
}

// ParseAndValidate processes configuration strings into runtime values.
func (c *Config) ParseAndValidate() error {
	c.ApplyDefaults()

	if c.Store.BackupRetention < 1 {
		return fmt.Errorf("invalid backup_retention: must be at least 1, got %d", c.Store.BackupRetention)
	}

	maxAge, err := shared.ParseDuration(c.Store.BackupMaxAge)
	if err != nil {
		return fmt.Errorf("invalid backup_max_age: %w", err)
	}
	c.BackupMaxAgeDuration = maxAge

	maxSize, err := shared.ParseSize(c.Store.BackupMaxSize)
	if err != nil {
		return fmt.Errorf("invalid backup_max_size: %w", err)
	}
	c.BackupMaxSizeBytes = maxSize

	interval, err := shared.ParseDuration(c.Store.Housekeeping)
	if err != nil {
		return fmt.Errorf("invalid housekeeping_interval: %w", err)
	}
	c.HousekeepingDuration = interval

	timeout, err := shared.ParseDuration(c.Session.Timeout)
	if err != nil {
		return fmt.Errorf("invalid session timeout: %w", err)
	}
	if timeout == 0 {
		return fmt.Errorf("invalid session timeout: must be greater than zero")
	}
	c.SessionTimeoutDuration = timeout

	return nil
}
