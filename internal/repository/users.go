package repository

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"archivehub/internal/idgen"
	"archivehub/internal/logging"
	"archivehub/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var userRoles = []string{
	models.RoleSuperadmin,
	models.RoleArchivist,
	models.RoleCataloguer,
	models.RoleEditor,
}

// ValidRole reports whether role is a known user role.
func ValidRole(role string) bool { return slices.Contains(userRoles, role) }

// CheckPassword reports whether password matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

var userSortKeys = comparators[models.User]{
	"id":        stringCmp(func(u models.User) string { return u.ID }),
	"username":  stringCmp(func(u models.User) string { return u.Username }),
	"role":      stringCmp(func(u models.User) string { return u.Role }),
	"name":      stringCmp(func(u models.User) string { return u.Name }),
	"createdAt": func(a, b models.User) int { return compareTime(a.CreatedAt, b.CreatedAt) },
}

// UserRepo manages staff accounts. Passwords are stored as bcrypt hashes.
type UserRepo struct{ *base }

func (r *UserRepo) List(opts ListOptions) ([]models.User, int, error) {
	var (
		items []models.User
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.Users, nil, userSortKeys, opts, "", 0)
		return err
	})
	return items, total, err
}

// Get returns the user with id.
func (r *UserRepo) Get(id string) (models.User, error) {
	var user models.User
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Users, func(u models.User) bool { return u.ID == id })
		if i < 0 {
			return notFound("user", id)
		}
		user = s.Users[i]
		return nil
	})
	return user, err
}

// GetByUsername looks a user up case-insensitively.
func (r *UserRepo) GetByUsername(username string) (models.User, error) {
	var user models.User
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Users, func(u models.User) bool { return strings.EqualFold(u.Username, username) })
		if i < 0 {
			return notFound("user", username)
		}
		user = s.Users[i]
		return nil
	})
	return user, err
}

// CountByRole returns how many users hold role.
func (r *UserRepo) CountByRole(role string) (int, error) {
	n := 0
	err := r.view(func(s *models.Snapshot) error {
		for _, u := range s.Users {
			if u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Create hashes the password and stores a new user. Usernames are unique ignoring case.
func (r *UserRepo) Create(in models.UserInput) (models.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return models.User{}, invalid("username and password are required")
	}
	if in.Role == "" {
		in.Role = models.RoleCataloguer
	}
	if !ValidRole(in.Role) {
		return models.User{}, invalid("unknown role %q", in.Role)
	}
	hashed, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	permissions := in.Permissions
	if permissions == nil && in.Role == models.RoleSuperadmin {
		permissions = []string{"all"}
	}

	now := r.now()
	user := models.User{
		ID:          idgen.NewAt(idgen.PrefixUser, now),
		Username:    in.Username,
		Password:    hashed,
		Role:        in.Role,
		Name:        in.Name,
		Email:       in.Email,
		Permissions: nonNil(permissions),
		CreatedAt:   now,
	}
	err = r.update(func(s *models.Snapshot) error {
		if slices.ContainsFunc(s.Users, func(u models.User) bool { return strings.EqualFold(u.Username, in.Username) }) {
			return fmt.Errorf("%w: %s", ErrUserExists, in.Username)
		}
		s.Users = append(s.Users, user)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	logging.Log.Debugf("UserRepo: created user '%s' (%s)", user.Username, user.Role)
	return user, nil
}

// Update applies a patch. A new password is hashed before it is stored.
func (r *UserRepo) Update(id string, p models.UserPatch) (models.User, error) {
	if p.Role != nil && !ValidRole(*p.Role) {
		return models.User{}, invalid("unknown role %q", *p.Role)
	}
	var hashed string
	if p.Password != nil {
		if *p.Password == "" {
			return models.User{}, invalid("password cannot be empty")
		}
		var err error
		if hashed, err = hashPassword(*p.Password); err != nil {
			return models.User{}, err
		}
	}
	var user models.User
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Users, func(u models.User) bool { return u.ID == id })
		if i < 0 {
			return notFound("user", id)
		}
		p.Apply(&s.Users[i])
		if hashed != "" {
			s.Users[i].Password = hashed
		}
		user = s.Users[i]
		return nil
	})
	return user, err
}

// RecordLogin stores the time of a successful login.
func (r *UserRepo) RecordLogin(id string, at time.Time) error {
	at = at.UTC()
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Users, func(u models.User) bool { return u.ID == id })
		if i < 0 {
			return notFound("user", id)
		}
		s.Users[i].LastLogin = &at
		return nil
	})
}

// Delete removes the user with id.
func (r *UserRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.Users, func(u models.User) bool { return u.ID == id })
		if i < 0 {
			return notFound("user", id)
		}
		s.Users = slices.Delete(s.Users, i, i+1)
		return nil
	})
}
