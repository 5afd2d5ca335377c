// filepath: internal/services/auth/errors.go
package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("authentication required")
	ErrForbidden          = errors.New("insufficient permissions")
)
