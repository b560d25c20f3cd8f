package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvAsTimeDuration(t *testing.T) {
	t.Setenv("TEST_DURATION_STRING", "90s")
	t.Setenv("TEST_DURATION_SECONDS", "15")
	t.Setenv("TEST_DURATION_BROKEN", "soon")

	assert.Equal(t, 90*time.Second, getEnvAsTimeDuration("TEST_DURATION_STRING", time.Minute))
	assert.Equal(t, 15*time.Second, getEnvAsTimeDuration("TEST_DURATION_SECONDS", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_BROKEN", time.Minute))
	assert.Equal(t, time.Minute, getEnvAsTimeDuration("TEST_DURATION_MISSING", time.Minute))
}

func TestGetEnvAsSlice(t *testing.T) {
	t.Setenv("TEST_SLICE", " a, b ,,c ")

	assert.Equal(t, []string{"a", "b", "c"}, getEnvAsSlice("TEST_SLICE", nil))
	assert.Equal(t, []string{"x"}, getEnvAsSlice("TEST_SLICE_MISSING", []string{"x"}))
}

func TestGetEnvAsIntAndBool(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "forty")
	t.Setenv("TEST_BOOL", "false")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_INT_BAD", 1))
	assert.False(t, getEnvAsBool("TEST_BOOL", true))
	assert.True(t, getEnvAsBool("TEST_BOOL_MISSING", true))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "pg")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "false")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg := Load()
	require.NotNil(t, cfg.Database)

	assert.Equal(t, "pg", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 1, cfg.Database.RetryAttempts)
	assert.False(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, "ORD", cfg.Orders.NumberPrefix)
	assert.Equal(t, time.UTC, cfg.Server.Location)
	assert.Equal(t, "orders_topic", cfg.Broker.OrderExchange)
}
