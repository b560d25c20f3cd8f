package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/uptrace/bun"
)

// run applies the builder timeout and, outside a transaction, the retry policy.
func (q *QueryBuilder[T]) run(ctx context.Context, fn func(ctx context.Context) error) error {
	// Apply timeout if specified
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	if q.tx != nil {
		return fn(ctx)
	}

	return q.db.WithRetry(ctx, func() error {
		return fn(ctx)
	})
}

// All executes the query and returns all matching records
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	var data []T

	err := q.run(ctx, func(ctx context.Context) error {
		data = nil // Reset on retry
		return q.buildSelect(&data).Scan(ctx)
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	if data == nil {
		data = []T{}
	}
	return data, nil
}

// First executes the query and returns the first matching record.
// No match is reported as (nil, nil).
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	var data T

	err := q.run(ctx, func(ctx context.Context) error {
		return q.buildSelect(&data).Limit(1).Scan(ctx)
	})

	if err != nil {
		// Return nil for no rows instead of error
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// Count executes the query and returns the count of matching records
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	start := time.Now()
	var count int

	err := q.run(ctx, func(ctx context.Context) error {
		var model T
		var err error
		count, err = q.buildSelect(&model).Count(ctx)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute count query: %w (took %v)", err, time.Since(start))
	}

	return count, nil
}

// Exists checks if any records match the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	start := time.Now()
	var exists bool

	err := q.run(ctx, func(ctx context.Context) error {
		var model T
		var err error
		exists, err = q.buildSelect(&model).Exists(ctx)
		return err
	})

	if err != nil {
		return false, fmt.Errorf("failed to execute exists query: %w (took %v)", err, time.Since(start))
	}

	return exists, nil
}

// Insert inserts a new record. Store defaults and the generated id are
// scanned back into data.
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()

	err := q.run(ctx, func(ctx context.Context) error {
		_, err := q.idb().NewInsert().Model(data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records in one statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []*T) ([]*T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	err := q.run(ctx, func(ctx context.Context) error {
		_, err := q.idb().NewInsert().Model(&data).Returning("*").Exec(ctx)
		return err
	})

	if err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update sets the given columns on every matching row and advances
// updated_at. It returns the number of rows affected.
func (q *QueryBuilder[T]) Update(ctx context.Context, data map[string]any) (int, error) {
	start := time.Now()
	var rowsAffected int64

	if len(data) == 0 {
		return 0, errors.New("update requires at least one column")
	}

	// Stable column order keeps the generated SQL deterministic
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	err := q.run(ctx, func(ctx context.Context) error {
		var model T
		query := q.idb().NewUpdate().Model(&model)

		for _, key := range keys {
			query = query.Set("? = ?", bun.Ident(key), data[key])
		}
		if _, ok := data["updated_at"]; !ok {
			query = query.Set("updated_at = current_timestamp")
		}

		query = applyWheres(query, q.wheres, q.whereGroups)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	var rowsAffected int64

	if len(q.wheres) == 0 && len(q.whereGroups) == 0 {
		return 0, errors.New("refusing to delete without a where clause")
	}

	err := q.run(ctx, func(ctx context.Context) error {
		var model T
		query := applyWheres(q.idb().NewDelete().Model(&model), q.wheres, q.whereGroups)

		res, err := query.Exec(ctx)
		if err != nil {
			return err
		}
		rowsAffected, _ = res.RowsAffected()
		return nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	return int(rowsAffected), nil
}
