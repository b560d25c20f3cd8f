// Package repository translates entity operations into bun queries. Lookups
// that find nothing return (nil, nil); operations that need an existing row
// return lib.ErrNotFound.
package repository

import (
	"coffeeshop_server/database"
	"coffeeshop_server/lib"
	"context"
	"fmt"
	"time"
)

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(locationOrLocal(loc))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's calendar day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).Add(24*time.Hour - time.Second)
}

func locationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// nullString stores empty optional text as NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func updateByID[T any](ctx context.Context, db *database.DB, entity string, id int64, data map[string]any) error {
	affected, err := database.UpdateByID[T](ctx, db, id, data)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", entity, id, lib.MapPgError(err))
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, lib.ErrNotFound)
	}
	return nil
}

func deleteByID[T any](ctx context.Context, db *database.DB, entity string, id int64) error {
	affected, err := database.DeleteByID[T](ctx, db, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", entity, id, lib.MapPgError(err))
	}
	if affected == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, lib.ErrNotFound)
	}
	return nil
}
