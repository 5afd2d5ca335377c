// filepath: internal/services/mocks/user_mock.go
package mocks

import (
	"context"
	"time"

	"archivehub/internal/config"
	"archivehub/internal/models"
	"archivehub/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of services.UserService
type MockUserService struct {
	mock.Mock
}

var _ services.UserService = (*MockUserService)(nil)

func (m *MockUserService) GetUserByUsername(username string) (models.User, error) {
	args := m.Called(username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(id string) (models.User, error) {
	args := m.Called(id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, actor string, in models.UserInput) (models.User, error) {
	args := m.Called(ctx, actor, in)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, actor string, id string, patch models.UserPatch) (models.User, error) {
	args := m.Called(ctx, actor, id, patch)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor string, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockUserService) RecordLogin(id string, at time.Time) error {
	args := m.Called(id, at)
	return args.Error(0)
}

func (m *MockUserService) InitializeAdminUser(cfg *config.Config) error {
	args := m.Called(cfg)
	return args.Error(0)
}
