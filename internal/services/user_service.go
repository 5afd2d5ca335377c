// filepath: internal/services/user_service.go
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"archivehub/internal/config"
	"archivehub/internal/logging"
	"archivehub/internal/models"
	"archivehub/internal/repository"
)

var _ UserService = (*userService)(nil)

// userService handles business logic for staff accounts.
type userService struct {
	Repo    *repository.Repository
	Auditor Auditor
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.Repository, auditor Auditor) *userService {
	return &userService{Repo: repo, Auditor: auditor}
}

// === Pass-through Repository Methods ===

func (s *userService) GetUserByUsername(username string) (models.User, error) {
	return s.Repo.Users.GetByUsername(username)
}

func (s *userService) GetUserByID(id string) (models.User, error) {
	return s.Repo.Users.Get(id)
}

func (s *userService) GetUsers() ([]models.User, error) {
	users, _, err := s.Repo.Users.List(repository.ListOptions{Sort: "createdAt", Order: "asc"})
	return users, err
}

func (s *userService) RecordLogin(id string, at time.Time) error {
	return s.Repo.Users.RecordLogin(id, at)
}

// === Business Logic Methods ===

// CreateUser creates a staff account.
func (s *userService) CreateUser(ctx context.Context, actor string, in models.UserInput) (models.User, error) {
	logging.Log.Debugf("UserService: Attempting to create user '%s'", in.Username)
	user, err := s.Repo.Users.Create(in)
	if err != nil {
		if !errors.Is(err, repository.ErrConflict) && !errors.Is(err, repository.ErrValidation) {
			logging.Log.Errorf("UserService: Failed to create user '%s': %v", in.Username, err)
		}
		return models.User{}, err
	}
	s.audit(ctx, "user.create", actor, user.ID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	return user, nil
}

// UpdateUser applies a patch. Demoting the only superadmin is refused.
func (s *userService) UpdateUser(ctx context.Context, actor string, id string, patch models.UserPatch) (models.User, error) {
	logging.Log.Debugf("UserService: Updating user ID %s", id)

	original, err := s.Repo.Users.Get(id)
	if err != nil {
		return models.User{}, err
	}
	if patch.Role != nil && *patch.Role != models.RoleSuperadmin && original.Role == models.RoleSuperadmin {
		if err := s.ensureAnotherSuperadmin(); err != nil {
			return models.User{}, err
		}
	}

	user, err := s.Repo.Users.Update(id, patch)
	if err != nil {
		return models.User{}, err
	}
	details := map[string]interface{}{"username": user.Username}
	if patch.Role != nil {
		details["role"] = user.Role
	}
	if patch.Password != nil {
		details["password_changed"] = true
	}
	s.audit(ctx, "user.update", actor, user.ID, details)
	return user, nil
}

// DeleteUser removes an account. The only superadmin cannot be deleted.
func (s *userService) DeleteUser(ctx context.Context, actor string, id string) error {
	logging.Log.Debugf("UserService: Deleting user ID %s", id)

	user, err := s.Repo.Users.Get(id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleSuperadmin {
		if err := s.ensureAnotherSuperadmin(); err != nil {
			return err
		}
	}
	if err := s.Repo.Users.Delete(id); err != nil {
		return err
	}
	s.audit(ctx, "user.delete", actor, id, map[string]interface{}{"username": user.Username})
	return nil
}

func (s *userService) ensureAnotherSuperadmin() error {
	n, err := s.Repo.Users.CountByRole(models.RoleSuperadmin)
	if err != nil {
		return fmt.Errorf("failed to check for other superadmins: %w", err)
	}
	if n <= 1 {
		return ErrLastSuperadmin
	}
	return nil
}

// InitializeAdminUser ensures the configured admin exists and handles password resets.
func (s *userService) InitializeAdminUser(cfg *config.Config) error {
	username := cfg.Admin.Username
	if username == "" {
		username = config.DefaultAdminUsername
	}
	admin, err := s.Repo.Users.GetByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return s.createAdminUser(username, cfg.AdminPassword)
	}
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if cfg.ResetAdminPassword {
		return s.resetAdminPassword(admin, cfg.AdminPassword)
	}
	return nil
}

// createAdminUser creates the initial superadmin.
func (s *userService) createAdminUser(username, password string) error {
	if password == "" {
		password = generateRandomPassword(10)
		logging.Log.Infof("No admin password provided. Generated a random password for '%s': %s", username, password)
	}

	user, err := s.Repo.Users.Create(models.UserInput{
		Username: username,
		Password: password,
		Role:     models.RoleSuperadmin,
		Name:     "Administrator",
	})
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.audit(context.Background(), "user.create", "system", user.ID, map[string]interface{}{
		"username": user.Username,
		"role":     user.Role,
	})
	logging.Log.Info("Admin user created successfully.")
	return nil
}

// resetAdminPassword replaces the admin's password from the startup flags.
func (s *userService) resetAdminPassword(admin models.User, password string) error {
	if password == "" {
		return ErrResetPassword
	}
	if _, err := s.Repo.Users.Update(admin.ID, models.UserPatch{Password: &password}); err != nil {
		return fmt.Errorf("failed to reset admin password: %w", err)
	}
	s.audit(context.Background(), "user.update", "system", admin.ID, map[string]interface{}{
		"username":         admin.Username,
		"password_changed": true,
	})
	logging.Log.Info("Admin password has been reset.")
	return nil
}

func (s *userService) audit(ctx context.Context, action, actor, id string, details map[string]interface{}) {
	if s.Auditor == nil {
		return
	}
	s.Auditor.Log(ctx, action, actor, "User:"+id, details)
}

// generateRandomPassword creates a cryptographically secure random password.
func generateRandomPassword(length int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		logging.Log.Fatalf("Failed to generate random password: %v", err)
	}
	for i := range b {
		b[i] = chars[int(b[i])%len(chars)]
	}
	return string(b)
}
