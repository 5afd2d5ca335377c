// filepath: internal/services/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"archivehub/internal/logging"
	"archivehub/internal/models"
	"archivehub/internal/repository"
	"archivehub/internal/services"
)

// Service checks credentials and manages admin sessions.
type Service struct {
	users    services.UserService
	sessions *SessionStore
	auditor  services.Auditor
	nowFn    func() time.Time
}

// NewService creates a new instance of Service.
func NewService(users services.UserService, sessions *SessionStore, auditor services.Auditor) *Service {
	return &Service{users: users, sessions: sessions, auditor: auditor, nowFn: time.Now}
}

// Login verifies the password and opens a session. Unknown users and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, fmt.Errorf("username and password required: %w", repository.ErrValidation)
	}
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logging.Log.Warnf("Login failed - user not found: %s", username)
			s.audit(ctx, "auth.login_failed", username, map[string]interface{}{"reason": "unknown user"})
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !repository.CheckPassword(user.Password, password) {
		logging.Log.Warnf("Login failed - invalid password for user: %s", username)
		s.audit(ctx, "auth.login_failed", username, map[string]interface{}{"reason": "invalid password"})
		return Session{}, ErrInvalidCredentials
	}

	now := s.nowFn().UTC()
	if err := s.users.RecordLogin(user.ID, now); err != nil {
		return Session{}, fmt.Errorf("failed to record login: %w", err)
	}
	session, err := s.sessions.Create(Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
	})
	if err != nil {
		return Session{}, err
	}
	s.audit(ctx, "auth.login", user.Username, map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return session, nil
}

// Logout ends the session for token.
func (s *Service) Logout(ctx context.Context, token string) {
	if session, err := s.sessions.Get(token); err == nil {
		s.audit(ctx, "auth.logout", session.Username, nil)
	}
	s.sessions.Destroy(token)
}

// Check returns the current account behind token.
func (s *Service) Check(token string) (models.User, error) {
	session, err := s.sessions.Get(token)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.users.GetUserByID(session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.sessions.Destroy(token)
			return models.User{}, ErrNoSession
		}
		return models.User{}, err
	}
	return user, nil
}

// RequireRole resolves token to its account and checks the account's current role.
func (s *Service) RequireRole(token string, roles ...string) (models.User, error) {
	user, err := s.Check(token)
	if err != nil {
		return models.User{}, err
	}
	if !slices.Contains(roles, user.Role) {
		logging.Log.Debugf("Role check failed for '%s': has %s, needs one of %v", user.Username, user.Role, roles)
		return models.User{}, ErrForbidden
	}
	return user, nil
}

func (s *Service) audit(ctx context.Context, action, actor string, details map[string]interface{}) {
	if s.auditor == nil {
		return
	}
	s.auditor.Log(ctx, action, actor, "Session", details)
}
