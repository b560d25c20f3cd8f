package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no rows", sql.ErrNoRows, false},
		{"deadline", context.DeadlineExceeded, false},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"foreign key", fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"}), false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"cannot connect now", &pgconn.PgError{Code: "57P03"}, true},
		{"query canceled", &pgconn.PgError{Code: "57014"}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"other", errors.New("something odd"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isRetryableError(tc.err))
		})
	}
}

func TestRetryConfigFromAttempts(t *testing.T) {
	assert.False(t, RetryConfigFromAttempts(1).EnableRetry)
	assert.False(t, RetryConfigFromAttempts(0).EnableRetry)

	cfg := RetryConfigFromAttempts(4)
	assert.True(t, cfg.EnableRetry)
	assert.Equal(t, 4, cfg.MaxAttempts)
}

func fastRetry(attempts int) RetryConfig {
	cfg := RetryConfigFromAttempts(attempts)
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("single attempt by default", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry(1), func() error {
			calls++
			return &pgconn.PgError{Code: "40001"}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry(3), func() error {
			calls++
			if calls < 3 {
				return &pgconn.PgError{Code: "40P01"}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent errors", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry(3), func() error {
			calls++
			return &pgconn.PgError{Code: "23505"}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry(2), func() error {
			calls++
			return errors.New("connection reset by peer")
		})
		assert.Error(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("reports every retry", func(t *testing.T) {
		cfg := fastRetry(3)
		var attempts []int
		cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
			attempts = append(attempts, attempt)
		}

		err := RetryWithBackoff(context.Background(), cfg, func() error {
			return &pgconn.PgError{Code: "40001"}
		})
		assert.Error(t, err)
		assert.Equal(t, []int{1, 2}, attempts)
	})

	t.Run("stops when the context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cfg := fastRetry(5)
		cfg.OnRetry = func(int, error, time.Duration) { cancel() }

		calls := 0
		err := RetryWithBackoff(ctx, cfg, func() error {
			calls++
			return &pgconn.PgError{Code: "40001"}
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
