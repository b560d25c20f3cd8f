package repository

import (
	"coffeeshop_server/database"
	"coffeeshop_server/lib"
	"coffeeshop_server/structs/tables"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
)

type UserRepository struct {
	db     *database.DB
	logger *gecho.Logger
}

func NewUserRepository(db *database.DB, logger *gecho.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) list(ctx context.Context, query *database.QueryBuilder[tables.User], what string) ([]tables.User, error) {
	users, err := query.OrderBy("u.username", database.ASC).All(ctx)
	if err != nil {
		r.logger.Error("Failed to list users", gecho.Field("query", what), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to list users (%s): %w", what, lib.MapPgError(err))
	}
	return users, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]tables.User, error) {
	return r.list(ctx, database.Query[tables.User](r.db), "all")
}

func (r *UserRepository) FindByRole(ctx context.Context, role tables.UserRole) ([]tables.User, error) {
	return r.list(ctx, database.Query[tables.User](r.db).Where("u.role", role), "by role")
}

func (r *UserRepository) FindActive(ctx context.Context) ([]tables.User, error) {
	return r.list(ctx, database.Query[tables.User](r.db).Where("u.is_active", true), "active")
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*tables.User, error) {
	user, err := database.FindByID[tables.User](ctx, r.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %d: %w", id, lib.MapPgError(err))
	}
	return user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*tables.User, error) {
	user, err := database.Query[tables.User](r.db).Where("u.username", username).First(ctx)
	if err != nil {
		r.logger.Error("Failed to find user by username", gecho.Field("username", username), gecho.Field("error", err))
		return nil, fmt.Errorf("failed to find user %q: %w", username, lib.MapPgError(err))
	}
	return user, nil
}

// Save inserts the user. The password must already be hashed.
func (r *UserRepository) Save(ctx context.Context, user *tables.User) (*tables.User, error) {
	saved, err := database.Query[tables.User](r.db).Insert(ctx, user)
	if err != nil {
		if !lib.IsUniqueViolation(err) {
			r.logger.Error("Failed to save user", gecho.Field("username", user.Username), gecho.Field("error", err))
		}
		return nil, fmt.Errorf("failed to save user: %w", lib.MapPgError(err))
	}
	return saved, nil
}

// Update writes the profile fields. The password hash is left untouched.
func (r *UserRepository) Update(ctx context.Context, user *tables.User) error {
	return updateByID[tables.User](ctx, r.db, "user", user.ID, map[string]any{
		"username":  user.Username,
		"role":      user.Role,
		"full_name": user.FullName,
		"email":     nullString(user.Email),
		"is_active": user.IsActive,
	})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return updateByID[tables.User](ctx, r.db, "user", id, map[string]any{"password": hash})
}

func (r *UserRepository) UpdateActive(ctx context.Context, id int64, active bool) error {
	return updateByID[tables.User](ctx, r.db, "user", id, map[string]any{"is_active": active})
}

func (r *UserRepository) DeleteByID(ctx context.Context, id int64) error {
	return deleteByID[tables.User](ctx, r.db, "user", id)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	count, err := database.CountAll[tables.User](ctx, r.db)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", lib.MapPgError(err))
	}
	return count, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := database.Query[tables.User](r.db).Where("u.username", username).Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check username %q: %w", username, lib.MapPgError(err))
	}
	return exists, nil
}
