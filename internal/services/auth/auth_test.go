// filepath: internal/services/auth/auth_test.go
package auth_test

import (
	"context"
	"testing"
	"time"

	"archivehub/internal/models"
	"archivehub/internal/repository"
	"archivehub/internal/services/auth"
	"archivehub/internal/services/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testUser(t *testing.T, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return models.User{ID: "USR1", Username: "archivist", Password: string(hash), Role: models.RoleArchivist}
}

func setupAuth(t *testing.T) (*auth.Service, *mocks.MockUserService, *mocks.MockAuditor, *auth.SessionStore) {
	t.Helper()
	users := new(mocks.MockUserService)
	auditor := new(mocks.MockAuditor)
	auditor.On("Log", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return()
	sessions := auth.NewSessionStore(time.Hour)
	return auth.NewService(users, sessions, auditor), users, auditor, sessions
}

func TestLogin_Success(t *testing.T) {
	svc, users, auditor, sessions := setupAuth(t)
	user := testUser(t, "correct")
	users.On("GetUserByUsername", "archivist").Return(user, nil)
	users.On("RecordLogin", "USR1", mock.AnythingOfType("time.Time")).Return(nil)

	session, err := svc.Login(context.Background(), "archivist", "correct")
	require.NoError(t, err)

	assert.Len(t, session.Token, 64)
	assert.Equal(t, "USR1", session.UserID)
	assert.Equal(t, models.RoleArchivist, session.Role)
	assert.Equal(t, 1, sessions.Count())
	users.AssertCalled(t, "RecordLogin", "USR1", mock.AnythingOfType("time.Time"))
	auditor.AssertCalled(t, "Log", mock.Anything, "auth.login", "archivist", "Session", mock.Anything)
}

func TestLogin_Failures(t *testing.T) {
	svc, users, _, sessions := setupAuth(t)
	users.On("GetUserByUsername", "archivist").Return(testUser(t, "correct"), nil)
	users.On("GetUserByUsername", "ghost").Return(models.User{}, repository.ErrNotFound)

	tests := []struct {
		name, username, password string
		want                     error
	}{
		{"wrong password", "archivist", "nope", auth.ErrInvalidCredentials},
		{"unknown user", "ghost", "whatever", auth.ErrInvalidCredentials},
		{"missing password", "archivist", "", repository.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, sessions.Count())
	users.AssertNotCalled(t, "RecordLogin", mock.Anything, mock.Anything)
}

func TestCheckAndRequireRole(t *testing.T) {
	svc, users, _, _ := setupAuth(t)
	user := testUser(t, "correct")
	users.On("GetUserByUsername", "archivist").Return(user, nil)
	users.On("RecordLogin", "USR1", mock.Anything).Return(nil)
	users.On("GetUserByID", "USR1").Return(user, nil)

	session, err := svc.Login(context.Background(), "archivist", "correct")
	require.NoError(t, err)

	got, err := svc.Check(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "archivist", got.Username)

	_, err = svc.RequireRole(session.Token, models.RoleSuperadmin, models.RoleArchivist)
	assert.NoError(t, err)

	_, err = svc.RequireRole(session.Token, models.RoleSuperadmin)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.Check("not-a-token")
	assert.ErrorIs(t, err, auth.ErrNoSession)

	svc.Logout(context.Background(), session.Token)
	_, err = svc.Check(session.Token)
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestCheck_DeletedUserEndsSession(t *testing.T) {
	svc, users, _, sessions := setupAuth(t)
	users.On("GetUserByID", "USR9").Return(models.User{}, repository.ErrNotFound)

	session, err := sessions.Create(auth.Session{UserID: "USR9", Username: "gone"})
	require.NoError(t, err)

	_, err = svc.Check(session.Token)
	assert.ErrorIs(t, err, auth.ErrNoSession)
	assert.Zero(t, sessions.Count())
}

func TestSessionStore_Expiry(t *testing.T) {
	sessions := auth.NewSessionStore(20 * time.Millisecond)
	session, err := sessions.Create(auth.Session{UserID: "USR1"})
	require.NoError(t, err)

	_, err = sessions.Get(session.Token)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	_, err = sessions.Get(session.Token)
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestSessionStore_UniqueTokens(t *testing.T) {
	sessions := auth.NewSessionStore(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := sessions.Create(auth.Session{UserID: "USR1"})
		require.NoError(t, err)
		assert.False(t, seen[s.Token])
		seen[s.Token] = true
	}
}
