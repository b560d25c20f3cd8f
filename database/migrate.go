package database

import (
	"coffeeshop_server/database/migrations"
	"context"
	"fmt"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun/migrate"
)

// Migrate applies every pending embedded migration. Concurrent instances
// serialize on the migration lock table.
func (db *DB) Migrate(ctx context.Context) error {
	migrator := migrate.NewMigrator(db.DB, migrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			db.logger.Error("Failed to release migration lock", gecho.Field("error", err))
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if group.IsZero() {
		db.logger.Info("Database schema is up to date")
		return nil
	}

	db.logger.Info("Applied database migrations", gecho.Field("group", group.String()))
	return nil
}
