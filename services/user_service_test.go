package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) (*UserService, *mockUserStore) {
	logger := gecho.NewDefaultLogger()
	cfg := testConfig()
	users := newMockUserStore(t)
	cache := NewCacheServiceWithClient(logger, cfg, nil)
	return NewUserService(logger, cfg, users, cache, NewEmailService(logger, cfg)), users
}

func TestCreateUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		user     tables.User
		password string
		message  string
	}{
		{"missing username", tables.User{FullName: "Ann", Role: tables.RoleWaiter}, "secret1", "Username is required"},
		{"short username", tables.User{Username: "ab", FullName: "Ann", Role: tables.RoleWaiter}, "secret1", "Username must be at least 3 characters"},
		{"missing full name", tables.User{Username: "ann", Role: tables.RoleWaiter}, "secret1", "Full name is required"},
		{"missing role", tables.User{Username: "ann", FullName: "Ann"}, "secret1", "Role is required"},
		{"bad email", tables.User{Username: "ann", FullName: "Ann", Role: tables.RoleWaiter, Email: "ann@"}, "secret1", "Invalid email format"},
		{"short password", tables.User{Username: "ann", FullName: "Ann", Role: tables.RoleWaiter}, "12345", "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newUserFixture(t)

			_, err := service.CreateUser(context.Background(), &tt.user, tt.password)
			require.Error(t, err)
			assert.True(t, lib.IsValidation(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	service, users := newUserFixture(t)

	users.On("Save", mock.Anything, mock.MatchedBy(func(u *tables.User) bool {
		ok, err := lib.VerifyPassword("secret1", u.Password)
		return err == nil && ok && u.Username == "ann"
	})).Return(&tables.User{ID: 1, Username: "ann", FullName: "Ann", Role: tables.RoleWaiter}, nil).Once()

	saved, err := service.CreateUser(context.Background(), &tables.User{Username: " ann ", FullName: "Ann", Role: tables.RoleWaiter}, "secret1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	service, users := newUserFixture(t)

	users.On("Save", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("insert user: %w", lib.ErrConflict)).Once()

	_, err := service.CreateUser(context.Background(), &tables.User{Username: "ann", FullName: "Ann", Role: tables.RoleWaiter}, "secret1")
	assert.EqualError(t, err, "Username already exists")
}

func TestChangePassword(t *testing.T) {
	service, users := newUserFixture(t)

	hash, err := lib.HashPassword("secret1", 4)
	require.NoError(t, err)
	user := &tables.User{ID: 3, Username: "ann", FullName: "Ann", Role: tables.RoleWaiter, Password: hash, IsActive: true}

	users.On("FindByID", mock.Anything, int64(3)).Return(user, nil).Twice()
	users.On("UpdatePassword", mock.Anything, int64(3), mock.AnythingOfType("string")).Return(nil).Once()

	err = service.ChangePassword(context.Background(), 3, "wrong-one", "newsecret")
	assert.EqualError(t, err, "Current password is incorrect")

	require.NoError(t, service.ChangePassword(context.Background(), 3, "secret1", "newsecret"))
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("skips when users exist", func(t *testing.T) {
		service, users := newUserFixture(t)
		users.On("Count", mock.Anything).Return(2, nil).Once()

		require.NoError(t, service.EnsureAdmin(context.Background()))
	})

	t.Run("creates the configured admin", func(t *testing.T) {
		service, users := newUserFixture(t)
		service.cfg.Auth.AdminPassword = "changeme"

		users.On("Count", mock.Anything).Return(0, nil).Once()
		users.On("Save", mock.Anything, mock.MatchedBy(func(u *tables.User) bool {
			return u.Username == "admin" && u.Role == tables.RoleAdmin && u.IsActive
		})).Return(&tables.User{ID: 1, Username: "admin", Role: tables.RoleAdmin, IsActive: true}, nil).Once()

		require.NoError(t, service.EnsureAdmin(context.Background()))
	})
}
