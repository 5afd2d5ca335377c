package repository

import (
	"testing"
	"time"

	"archivehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreate(t *testing.T) {
	repo, _ := setupTestRepo(t)

	admin, err := repo.Users.Create(models.UserInput{Username: "admin", Password: "s3cret", Role: models.RoleSuperadmin})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", admin.Password)
	assert.True(t, CheckPassword(admin.Password, "s3cret"))
	assert.False(t, CheckPassword(admin.Password, "wrong"))
	assert.Equal(t, []string{"all"}, admin.Permissions)
	assert.Nil(t, admin.LastLogin)

	t.Run("Duplicate Username", func(t *testing.T) {
		_, err := repo.Users.Create(models.UserInput{Username: "ADMIN", Password: "x"})
		assert.ErrorIs(t, err, ErrUserExists)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("Default Role", func(t *testing.T) {
		u, err := repo.Users.Create(models.UserInput{Username: "cat", Password: "x"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleCataloguer, u.Role)
		assert.Empty(t, u.Permissions)
	})

	t.Run("Validation", func(t *testing.T) {
		_, err := repo.Users.Create(models.UserInput{Username: "x", Password: "x", Role: "janitor"})
		assert.ErrorIs(t, err, ErrValidation)
		_, err = repo.Users.Create(models.UserInput{Username: "", Password: "x"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	n, err := repo.Users.CountByRole(models.RoleSuperadmin)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUserUpdateAndLogin(t *testing.T) {
	repo, clock := setupTestRepo(t)
	u, err := repo.Users.Create(models.UserInput{Username: "archivist", Password: "old", Role: models.RoleArchivist})
	require.NoError(t, err)

	got, err := repo.Users.Update(u.ID, models.UserPatch{Password: models.String("new"), Name: models.String("Chief Archivist")})
	require.NoError(t, err)
	assert.True(t, CheckPassword(got.Password, "new"))
	assert.Equal(t, "Chief Archivist", got.Name)
	assert.Equal(t, models.RoleArchivist, got.Role)

	_, err = repo.Users.Update(u.ID, models.UserPatch{Password: models.String("")})
	assert.ErrorIs(t, err, ErrValidation)

	clock.Advance(time.Hour)
	require.NoError(t, repo.Users.RecordLogin(u.ID, clock.Now()))
	got, err = repo.Users.GetByUsername("Archivist")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Equal(t, clock.Now(), *got.LastLogin)

	require.NoError(t, repo.Users.Delete(u.ID))
	_, err = repo.Users.Get(u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
