// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"time"

	"archivehub/internal/config"
	"archivehub/internal/models"
)

// Auditor defines the interface for recording security-relevant events.
type Auditor interface {
	// Log records an event.
	// ctx: context to trace request IDs (if available)
	// action: what happened (e.g., "user.create", "auth.login")
	// actor: who did it (username)
	// resource: what was affected (e.g., "User:USR01H...")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// UserService defines the interface for the user service.
type UserService interface {
	GetUserByUsername(username string) (models.User, error)
	GetUserByID(id string) (models.User, error)
	GetUsers() ([]models.User, error)
	CreateUser(ctx context.Context, actor string, in models.UserInput) (models.User, error)
	UpdateUser(ctx context.Context, actor string, id string, patch models.UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, actor string, id string) error
	RecordLogin(id string, at time.Time) error
	InitializeAdminUser(cfg *config.Config) error
}
