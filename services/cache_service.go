package services

import (
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	menuKeyPrefix         = "menu:"
	menuItemsAllKey       = "menu:items:all"
	menuItemsAvailableKey = "menu:items:available"
	categoriesAllKey      = "menu:categories:all"
	categoriesActiveKey   = "menu:categories:active"
)

// CacheService provides Redis caching with connection pooling and retry
// logic. A service without a client treats every read as a miss and every
// write as a no-op, so the application runs without Redis.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	var client *redis.Client
	if cfg.Cache.Enabled {
		client = newRedisClient(cfg.Cache)
	} else {
		logger.Warn("Redis cache disabled, token blacklist and rate limits are not enforced")
	}

	return NewCacheServiceWithClient(logger, cfg, client)
}

func NewCacheServiceWithClient(logger *gecho.Logger, cfg *structs.Config, client *redis.Client) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: client,
	}
}

func newRedisClient(cfg *structs.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,

		// Connection pool settings
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		PoolTimeout:     cfg.PoolTimeout,
		ConnMaxIdleTime: cfg.IdleTimeout,

		// Timeouts
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,

		// Retry settings
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: cfg.MinRetryBackoff,
		MaxRetryBackoff: cfg.MaxRetryBackoff,
	})
}

func (cs *CacheService) Enabled() bool {
	return cs != nil && cs.client != nil
}

// Close closes the Redis connection pool
func (cs *CacheService) Close() error {
	if cs.Enabled() {
		return cs.client.Close()
	}
	return nil
}

// withRetry executes a Redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(ctx context.Context, operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == maxRetries {
			break
		}

		// Only retry on network/connection errors, not on logical errors like key not found
		if !isRetryableCacheError(err) {
			return err
		}

		maxBackoff := 2000 // max 2000ms = 2s
		base := 100        // 100ms base

		backoff := base * (1 << attempt) // exponential
		backoff = min(backoff, maxBackoff)

		// add jitter of up to half the backoff
		jitterBytes := make([]byte, 4)
		backoffWithJitter := backoff
		if _, err := rand.Read(jitterBytes); err == nil {
			jitter := int(binary.BigEndian.Uint32(jitterBytes) % uint32(backoff/2+1))
			backoffWithJitter = backoff/2 + jitter
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(backoffWithJitter) * time.Millisecond):
		}
	}

	return fmt.Errorf("redis operation failed after %d retries: %w", maxRetries, lastErr)
}

// isRetryableCacheError determines if an error is worth retrying
func isRetryableCacheError(err error) bool {
	if err == nil {
		return false
	}

	// Don't retry on nil results (key not found)
	if errors.Is(err, redis.Nil) {
		return false
	}

	// Retry on network/connection errors
	errStr := err.Error()
	retryableErrors := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}

	for _, retryableErr := range retryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// Set sets a key with TTL and automatic retry logic
func (cs *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Set(ctx, key, value, ttl).Err()
	}, 3)
}

// Get retrieves a key. A missing key yields "".
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	if !cs.Enabled() {
		return "", nil
	}

	var result string
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil // Don't retry on key not found
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)
	if err != nil {
		return "", err
	}

	return result, nil
}

// Delete removes keys with automatic retry logic
func (cs *CacheService) Delete(ctx context.Context, keys ...string) error {
	if !cs.Enabled() || len(keys) == 0 {
		return nil
	}
	return cs.withRetry(ctx, func() error {
		return cs.client.Del(ctx, keys...).Err()
	}, 3)
}

// Exists checks if a key exists with automatic retry logic
func (cs *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	if !cs.Enabled() {
		return false, nil
	}

	var result bool
	err := cs.withRetry(ctx, func() error {
		count, err := cs.client.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		result = count > 0
		return nil
	}, 3)

	return result, err
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	if !cs.Enabled() {
		return nil
	}

	return cs.withRetry(ctx, func() error {
		var cursor uint64
		for {
			keys, nextCursor, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = nextCursor
			if cursor == 0 {
				return nil
			}
		}
	}, 3)
}

// BlacklistToken adds a token's jti to the blacklist until the token expires
func (cs *CacheService) BlacklistToken(ctx context.Context, jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}

	return cs.Set(ctx, blacklistKey(jti), "true", ttl)
}

// IsTokenBlacklisted checks if a JTI exists in Redis
func (cs *CacheService) IsTokenBlacklisted(ctx context.Context, jti uuid.UUID) (bool, error) {
	val, err := cs.Get(ctx, blacklistKey(jti))
	if err != nil {
		return false, err
	}

	return val == "true", nil
}

func blacklistKey(jti uuid.UUID) string {
	return fmt.Sprintf("blacklist:%s", jti.String())
}

func userKey(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// GetUserFromCache retrieves a cached user; (nil, nil) on a miss.
func (cs *CacheService) GetUserFromCache(ctx context.Context, userID int64) (*tables.User, error) {
	return getJSON[tables.User](ctx, cs, userKey(userID))
}

// SetUserInCache stores a user object in cache with TTL. The password hash
// is never serialized.
func (cs *CacheService) SetUserInCache(ctx context.Context, user *tables.User) error {
	if user == nil {
		// Nothing to cache
		return nil
	}
	return setJSON(ctx, cs, userKey(user.ID), user, cs.config.Auth.CacheUserTTL)
}

// InvalidateUserCache removes a user from cache
func (cs *CacheService) InvalidateUserCache(ctx context.Context, userID int64) error {
	return cs.Delete(ctx, userKey(userID))
}

// IncrementRateLimit atomically increments a rate limit counter
func (cs *CacheService) IncrementRateLimit(ctx context.Context, ip, endpoint string, ttl time.Duration) (int, error) {
	if !cs.Enabled() {
		return 0, nil
	}

	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(ctx, func() error {
		val, err := cs.client.Incr(ctx, key).Result()
		if err != nil {
			return err
		}
		result = val

		// Set expiration only on first increment
		if val == 1 {
			return cs.client.Expire(ctx, key, ttl).Err()
		}

		return nil
	}, 3)

	return int(result), err
}

// ResetRateLimit clears the counter, e.g. after a successful login.
func (cs *CacheService) ResetRateLimit(ctx context.Context, ip, endpoint string) error {
	return cs.Delete(ctx, fmt.Sprintf("ratelimit:%s:%s", ip, endpoint))
}

// ============================================================================
// Menu Caching Methods
// ============================================================================

func (cs *CacheService) menuTTL() time.Duration {
	if cs.config.Cache.MenuTTL > 0 {
		return cs.config.Cache.MenuTTL
	}
	return 5 * time.Minute // fallback default
}

func (cs *CacheService) GetMenuItems(ctx context.Context, availableOnly bool) ([]tables.MenuItem, error) {
	items, err := getJSON[[]tables.MenuItem](ctx, cs, menuItemsKey(availableOnly))
	if err != nil || items == nil {
		return nil, err
	}
	return *items, nil
}

func (cs *CacheService) SetMenuItems(ctx context.Context, availableOnly bool, items []tables.MenuItem) error {
	return setJSON(ctx, cs, menuItemsKey(availableOnly), items, cs.menuTTL())
}

func menuItemsKey(availableOnly bool) string {
	if availableOnly {
		return menuItemsAvailableKey
	}
	return menuItemsAllKey
}

func (cs *CacheService) GetCategories(ctx context.Context, activeOnly bool) ([]tables.Category, error) {
	categories, err := getJSON[[]tables.Category](ctx, cs, categoriesKey(activeOnly))
	if err != nil || categories == nil {
		return nil, err
	}
	return *categories, nil
}

func (cs *CacheService) SetCategories(ctx context.Context, activeOnly bool, categories []tables.Category) error {
	return setJSON(ctx, cs, categoriesKey(activeOnly), categories, cs.menuTTL())
}

func categoriesKey(activeOnly bool) string {
	if activeOnly {
		return categoriesActiveKey
	}
	return categoriesAllKey
}

// InvalidateMenu drops every cached menu list. Called after any menu item or
// category write.
func (cs *CacheService) InvalidateMenu(ctx context.Context) error {
	if err := cs.DeletePattern(ctx, menuKeyPrefix+"*"); err != nil {
		cs.logger.Warn("Failed to invalidate menu cache", gecho.Field("error", err))
		return err
	}
	return nil
}

// Ping tests the Redis connection
func (cs *CacheService) Ping(ctx context.Context) error {
	if !cs.Enabled() {
		return errors.New("redis cache is disabled")
	}
	return cs.client.Ping(ctx).Err()
}

// GetConnectionStats returns Redis connection pool statistics
func (cs *CacheService) GetConnectionStats() map[string]any {
	if !cs.Enabled() {
		return map[string]any{"enabled": false}
	}

	stats := cs.client.PoolStats()
	return map[string]any{
		"enabled":     true,
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

func setJSON[T any](ctx context.Context, cs *CacheService, key string, value T, ttl time.Duration) error {
	if !cs.Enabled() {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(ctx, key, data, ttl)
}

func getJSON[T any](ctx context.Context, cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if val == "" {
		return nil, nil // not found in cache
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}

	return &result, nil
}
