package database

import (
	"coffeeshop_server/lib"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// RetryConfig describes the backoff applied to single-statement queries.
// Statements inside a transaction are never retried.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	EnableRetry  bool

	// OnRetry is called before each new attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		EnableRetry:  true,
	}
}

// RetryConfigFromAttempts enables retries only when more than one attempt is configured.
func RetryConfigFromAttempts(attempts int) RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = attempts
	cfg.EnableRetry = attempts > 1
	return cfg
}

// Transient SQLSTATE classes: transaction rollback (serialization failure,
// deadlock), connection exception and insufficient resources.
var retryableStateClasses = []string{"40", "08", "53"}

var retryableStates = map[string]bool{
	"57P01": true, // admin_shutdown
	"57P02": true, // crash_shutdown
	"57P03": true, // cannot_connect_now
}

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"connection closed",
	"bad connection",
	"too many clients",
	"server is not accepting",
	"unexpected eof",
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrNoRows) {
		return false
	}

	// Store-reported errors are classified by SQLSTATE only
	if code := lib.SQLState(err); code != "" {
		if retryableStates[code] {
			return true
		}
		for _, class := range retryableStateClasses {
			if strings.HasPrefix(code, class) {
				return true
			}
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, transient := range transientMessages {
		if strings.Contains(msg, transient) {
			return true
		}
	}
	return false
}

// RetryWithBackoff runs operation until it succeeds, fails permanently or
// the attempts are used up. The delay doubles (by Multiplier) up to MaxDelay.
func RetryWithBackoff(ctx context.Context, config RetryConfig, operation func() error) error {
	if !config.EnableRetry {
		return operation()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil || !isRetryableError(lastErr) || attempt == config.MaxAttempts {
			return lastErr
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = min(time.Duration(float64(delay)*config.Multiplier), config.MaxDelay)
	}

	return lastErr
}
