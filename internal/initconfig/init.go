// filepath: internal/initconfig/init.go
package initconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"archivehub/internal/logging"
	"archivehub/internal/models"
	"archivehub/internal/repository"
	"archivehub/internal/services"

	"github.com/BurntSushi/toml"
)

const seedActor = "initconfig"

// Run applies a one-time seed file: missing users and collections are created,
// then the file is rewritten without passwords.
func Run(userSvc services.UserService, repo *repository.Repository, configPath string) error {
	logging.Log.Infof("Seed file found at: %s. Processing...", configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read seed file '%s': %w", configPath, err)
	}

	var config InitConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return fmt.Errorf("failed to parse TOML seed file '%s': %w", configPath, err)
	}

	logging.Log.Infof("Found %d user(s) and %d collection(s) in seed file.", len(config.Users), len(config.Collections))

	processUsers(userSvc, config.Users)
	processCollections(repo, config.Collections)

	clearPasswords(&config, configPath)
	return nil
}

// processUsers creates the users that don't exist yet.
func processUsers(userSvc services.UserService, users []InitUser) {
	for _, u := range users {
		if u.Name == "" || u.Password == "" {
			logging.Log.Warnf("Skipping user with empty name or password.")
			continue
		}

		_, err := userSvc.GetUserByUsername(u.Name)
		if err == nil {
			logging.Log.Infof("Skipping user: '%s' already exists.", u.Name)
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			logging.Log.Errorf("Failed to check if user '%s' exists: %v", u.Name, err)
			continue
		}

		logging.Log.Infof("Creating user: '%s'...", u.Name)
		in := models.UserInput{
			Username: u.Name,
			Password: u.Password,
			Role:     u.Role,
			Name:     u.FullName,
			Email:    u.Email,
		}
		if _, err := userSvc.CreateUser(context.Background(), seedActor, in); err != nil {
			logging.Log.Errorf("Failed to create user '%s': %v", u.Name, err)
		} else {
			logging.Log.Infof("Successfully created user: '%s'", u.Name)
		}
	}
}

// processCollections creates the collections whose name is not taken yet.
func processCollections(repo *repository.Repository, collections []models.CollectionInput) {
	existing, _, err := repo.Collections.List(repository.CollectionFilter{}, repository.ListOptions{})
	if err != nil {
		logging.Log.Errorf("Failed to list collections: %v", err)
		return
	}
	names := make(map[string]bool, len(existing))
	for _, c := range existing {
		names[strings.ToLower(c.Name)] = true
	}

	for _, c := range collections {
		if c.Name == "" {
			logging.Log.Warnf("Skipping collection with empty name.")
			continue
		}
		if names[strings.ToLower(c.Name)] {
			logging.Log.Infof("Skipping collection: '%s' already exists.", c.Name)
			continue
		}

		logging.Log.Infof("Creating collection: '%s'...", c.Name)
		if _, err := repo.Collections.Create(c); err != nil {
			logging.Log.Errorf("Failed to create collection '%s': %v", c.Name, err)
			continue
		}
		names[strings.ToLower(c.Name)] = true
		logging.Log.Infof("Successfully created collection: '%s'", c.Name)
	}
}

// clearPasswords attempts to overwrite the seed file with passwords removed.
func clearPasswords(config *InitConfig, configPath string) {
	logging.Log.Info("Attempting to clear passwords from seed file...")

	buf := new(bytes.Buffer)
	for i := range config.Users {
		config.Users[i].Password = ""
	}

	if err := toml.NewEncoder(buf).Encode(config); err != nil {
		logging.Log.Warnf("Could not re-encode seed file to clear passwords: %v", err)
		logging.Log.Warnf("SECURITY: Please manually remove passwords from '%s'", configPath)
		return
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0600); err != nil {
		logging.Log.Warnf("Failed to write back to seed file to clear passwords: %v", err)
		logging.Log.Warnf("SECURITY: Please manually remove passwords from '%s'", configPath)
		return
	}

	logging.Log.Info("Successfully cleared passwords from seed file.")
}
