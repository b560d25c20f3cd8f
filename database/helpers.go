package database

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// Transaction runs fn inside a single transaction. A returned error or a panic
// rolls everything back; otherwise the transaction is committed.
func Transaction(ctx context.Context, db *DB, fn func(ctx context.Context, tx bun.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.logger.Error("Failed to begin transaction", gecho.Field("error", err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			stackTrace := string(debug.Stack())
			db.logger.Error(fmt.Sprintf("PANIC RECOVERED: %v", p),
				gecho.Field("panic_value", p),
				gecho.Field("stack_trace", stackTrace))
			_ = tx.Rollback()
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			db.logger.Debug("Rolling back transaction due to error", gecho.Field("error", err))
			if rbErr := tx.Rollback(); rbErr != nil {
				db.logger.Error("Failed to roll back transaction", gecho.Field("error", rbErr))
			}
		} else {
			if err = tx.Commit(); err != nil {
				db.logger.Error("Failed to commit transaction", gecho.Field("error", err))
				err = fmt.Errorf("failed to commit transaction: %w", err)
			}
		}
	}()

	err = fn(ctx, tx)
	return err
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db *DB, id int64) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// ExistsByID reports whether a row with the given id exists
func ExistsByID[T any](ctx context.Context, db *DB, id int64) (bool, error) {
	return Query[T](db).Where("id", id).Exists(ctx)
}

// CountAll counts every row of the model's table
func CountAll[T any](ctx context.Context, db *DB) (int, error) {
	return Query[T](db).Count(ctx)
}

// DeleteByID is a helper to delete a record by ID
func DeleteByID[T any](ctx context.Context, db *DB, id int64) (int, error) {
	return Query[T](db).Where("id", id).Delete(ctx)
}

// UpdateByID is a helper to update a record by ID
func UpdateByID[T any](ctx context.Context, db *DB, id int64, data map[string]any) (int, error) {
	return Query[T](db).Where("id", id).Update(ctx, data)
}
