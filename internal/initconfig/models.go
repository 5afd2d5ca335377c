// filepath: internal/initconfig/models.go
package initconfig

import "archivehub/internal/models"

// InitConfig is the root struct for parsing the TOML seed file.
type InitConfig struct {
	Users       []InitUser               `toml:"user"`
	Collections []models.CollectionInput `toml:"collection"`
}

// InitUser represents a user entry in the TOML seed file.
type InitUser struct {
	Name     string `toml:"name"`
	Role     string `toml:"role"`
	Password string `toml:"password"`
	FullName string `toml:"full_name"`
	Email    string `toml:"email"`
}
