package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MonkyMars/gecho"
)

type UserService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	users        UserStore
	cacheService *CacheService
	emailService *EmailService
}

func NewUserService(logger *gecho.Logger, cfg *structs.Config, users UserStore, cacheService *CacheService, emailService *EmailService) *UserService {
	return &UserService{
		logger:       logger,
		cfg:          cfg,
		users:        users,
		cacheService: cacheService,
		emailService: emailService,
	}
}

func validateUser(user *tables.User) error {
	user.Username = strings.TrimSpace(user.Username)
	user.FullName = strings.TrimSpace(user.FullName)
	user.Email = strings.TrimSpace(user.Email)

	if user.Username == "" {
		return lib.NewValidationError("Username is required")
	}
	if len(user.Username) < 3 {
		return lib.NewValidationError("Username must be at least 3 characters")
	}
	if user.FullName == "" {
		return lib.NewValidationError("Full name is required")
	}
	if user.Role == "" {
		return lib.NewValidationError("Role is required")
	}
	if !user.Role.Valid() {
		return lib.NewValidationError("Invalid role: %s", user.Role)
	}
	if err := lib.ValidateVar(user.Email, "omitempty,email"); err != nil {
		return lib.NewValidationError("Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < lib.MinPasswordLength {
		return lib.NewValidationError("Password must be at least %d characters", lib.MinPasswordLength)
	}
	return nil
}

// CreateUser validates the user, stores a bcrypt hash of password and sends
// a welcome mail when the user has an email address.
func (us *UserService) CreateUser(ctx context.Context, user *tables.User, password string) (*tables.User, error) {
	if err := validateUser(user); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := lib.HashPassword(password, us.cfg.Auth.BcryptCost)
	if err != nil {
		us.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}
	user.Password = hash

	saved, err := us.users.Save(ctx, user)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			us.logger.Warn("User creation failed - duplicate username", gecho.Field("username", user.Username))
			return nil, lib.NewValidationError("Username already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	us.logger.Info("Created user", gecho.Field("username", saved.Username), gecho.Field("role", saved.Role))

	if err := us.emailService.SendWelcomeEmail(saved); err != nil {
		us.logger.Warn("Failed to send welcome email", gecho.Field("error", err), gecho.Field("user_id", saved.ID))
	}
	return saved, nil
}

// UpdateUser replaces the profile fields. The password hash is kept.
func (us *UserService) UpdateUser(ctx context.Context, user *tables.User) error {
	if err := validateUser(user); err != nil {
		return err
	}

	if err := us.users.Update(ctx, user); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			return lib.NewValidationError("Username already exists")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	us.forget(ctx, user.ID)
	us.logger.Info("Updated user", gecho.Field("user_id", user.ID))
	return nil
}

// ChangePassword replaces the password after checking the current one.
func (us *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := us.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	valid, err := lib.VerifyPassword(currentPassword, user.Password)
	if err != nil {
		us.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", userID))
		return err
	}
	if !valid {
		return lib.NewValidationError("Current password is incorrect")
	}

	return us.setPassword(ctx, user, newPassword)
}

// ResetPassword sets a new password without the current one, for admins.
func (us *UserService) ResetPassword(ctx context.Context, userID int64, newPassword string) error {
	user, err := us.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return us.setPassword(ctx, user, newPassword)
}

func (us *UserService) setPassword(ctx context.Context, user *tables.User, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := lib.HashPassword(newPassword, us.cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	if err := us.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	us.forget(ctx, user.ID)
	us.logger.Info("Password changed", gecho.Field("user_id", user.ID))

	if err := us.emailService.SendPasswordChangedEmail(user); err != nil {
		us.logger.Warn("Failed to send password changed email", gecho.Field("error", err), gecho.Field("user_id", user.ID))
	}
	return nil
}

func (us *UserService) GetAllUsers(ctx context.Context) ([]tables.User, error) {
	return us.users.FindAll(ctx)
}

func (us *UserService) GetUsersByRole(ctx context.Context, role tables.UserRole) ([]tables.User, error) {
	if !role.Valid() {
		return nil, lib.NewValidationError("Invalid role: %s", role)
	}
	return us.users.FindByRole(ctx, role)
}

func (us *UserService) GetActiveUsers(ctx context.Context) ([]tables.User, error) {
	return us.users.FindActive(ctx)
}

func (us *UserService) GetUserByID(ctx context.Context, id int64) (*tables.User, error) {
	user, err := us.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, lib.NewNotFoundError("User not found with ID: %d", id)
	}
	return user, nil
}

func (us *UserService) UpdateUserStatus(ctx context.Context, id int64, active bool) error {
	if err := us.users.UpdateActive(ctx, id, active); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	us.forget(ctx, id)
	us.logger.Info("Updated user status", gecho.Field("user_id", id), gecho.Field("active", active))
	return nil
}

// DeleteUser removes the account. Orders keep their rows with the waiter cleared.
func (us *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := us.users.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	us.forget(ctx, id)
	us.logger.Info("Deleted user", gecho.Field("user_id", id))
	return nil
}

func (us *UserService) CountUsers(ctx context.Context) (int, error) {
	return us.users.Count(ctx)
}

// EnsureAdmin creates the configured admin account when no user exists yet.
func (us *UserService) EnsureAdmin(ctx context.Context) error {
	count, err := us.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	if us.cfg.Auth.AdminPassword == "" {
		us.logger.Warn("No users exist and ADMIN_PASSWORD is not set, skipping admin bootstrap")
		return nil
	}

	admin := &tables.User{
		Username: us.cfg.Auth.AdminUsername,
		FullName: us.cfg.Auth.AdminFullName,
		Role:     tables.RoleAdmin,
		IsActive: true,
	}
	if _, err := us.CreateUser(ctx, admin, us.cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	us.logger.Info("Bootstrapped admin user", gecho.Field("username", admin.Username))
	return nil
}

func (us *UserService) forget(ctx context.Context, userID int64) {
	if err := us.cacheService.InvalidateUserCache(ctx, userID); err != nil {
		us.logger.Warn("Failed to invalidate user cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}
