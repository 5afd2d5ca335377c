// filepath: internal/services/service_errors.go
package services

import (
	"errors"
	"fmt"

	"archivehub/internal/repository"
)

// Standard errors returned by the service layer.
var (
	ErrLastSuperadmin = fmt.Errorf("cannot remove the last superadmin: %w", repository.ErrConflict)
	ErrResetPassword  = errors.New("cannot reset admin password: reset requested but no password was provided")
)
