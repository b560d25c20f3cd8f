package config

import (
	"coffeeshop_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

// GetConfig returns the process configuration, read from the environment once.
func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load builds a fresh configuration from the current environment.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:         getEnvAsString("APP_NAME", "Coffee Shop POS"),
			Environment:     getEnvAsString("APP_ENV", "development"),
			Port:            getEnvAsString("APP_PORT", ":8082"),
			ReadTimeout:     getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			ShutdownTimeout: getEnvAsTimeDuration("SERVER_SHUTDOWN_TIME_OUT", 10*time.Second),
			MaxHeaderBytes:  getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:    int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
			Location:        getEnvAsLocation("APP_TIMEZONE", time.Local),
		},
		Cors: &structs.CorsConfig{
			AllowOrigins:     getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowMethods:     getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			AllowHeaders:     getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			Driver:        getEnvAsString("DB_DRIVER", "pgx"),
			URL:           getEnvAsString("DATABASE_URL", ""),
			Host:          getEnvAsString("DB_HOST", "localhost"),
			Port:          getEnvAsInt("DB_PORT", 5432),
			User:          getEnvAsString("DB_USER", "postgres"),
			Password:      getEnvAsString("DB_PASSWORD", "password"),
			Name:          getEnvAsString("DB_NAME", "coffeeshop_db"),
			SSLMode:       getEnvAsString("DB_SSL_MODE", "disable"),
			MaxConns:      getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:      getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime:   getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:   getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 10*time.Minute),
			DialTimeout:   getEnvAsTimeDuration("DB_DIAL_TIMEOUT", 30*time.Second),
			ReadTimeout:   getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:  getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
			QueryTimeout:  getEnvAsTimeDuration("DB_QUERY_TIMEOUT", 10*time.Second),
			RetryAttempts: getEnvAsInt("DB_RETRY_ATTEMPTS", 1),
			AutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", true),
			SlowQuery:     getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
		},
		Auth: &structs.AuthConfig{
			AccessTokenSecret: getEnvAsString("AUTH_ACCESS_TOKEN_SECRET", "default_access_secret"),
			AccessTokenExpiry: getEnvAsTimeDuration("AUTH_ACCESS_TOKEN_EXPIRY", 12*time.Hour),
			BlacklistCacheTTL: getEnvAsTimeDuration("AUTH_BLACKLIST_TTL", 12*time.Hour),
			CacheUserTTL:      getEnvAsTimeDuration("AUTH_USER_CACHE_TTL", 5*time.Minute),
			BcryptCost:        getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminUsername:     getEnvAsString("ADMIN_USERNAME", "admin"),
			AdminPassword:     getEnvAsString("ADMIN_PASSWORD", ""),
			AdminFullName:     getEnvAsString("ADMIN_FULL_NAME", "System Administrator"),
			LoginRateLimit:    getEnvAsInt("AUTH_LOGIN_RATE_LIMIT", 10),
			LoginRateWindow:   getEnvAsTimeDuration("AUTH_LOGIN_RATE_WINDOW", time.Minute),
		},
		Cache: &structs.CacheConfig{
			Enabled:         getEnvAsBool("REDIS_ENABLED", true),
			Address:         getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:        getEnvAsString("REDIS_USERNAME", ""),
			Password:        getEnvAsString("REDIS_PASSWORD", ""),
			DB:              getEnvAsInt("REDIS_DB", 0),
			PoolSize:        getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns:    getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxIdleConns:    getEnvAsInt("REDIS_MAX_IDLE_CONNS", 5),
			PoolTimeout:     getEnvAsTimeDuration("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:     getEnvAsTimeDuration("REDIS_IDLE_TIMEOUT", 5*time.Minute),
			DialTimeout:     getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:     getEnvAsTimeDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			MaxRetries:      getEnvAsInt("REDIS_MAX_RETRIES", 3),
			MinRetryBackoff: getEnvAsTimeDuration("REDIS_MIN_RETRY_BACKOFF", 8*time.Millisecond),
			MaxRetryBackoff: getEnvAsTimeDuration("REDIS_MAX_RETRY_BACKOFF", 512*time.Millisecond),
			MenuTTL:         getEnvAsTimeDuration("CACHE_MENU_TTL", 5*time.Minute),
		},
		Email: &structs.EmailConfig{
			ApiKey: getEnvAsString("RESEND_API_KEY", ""),
			From:   getEnvAsString("EMAIL_FROM", "Coffee Shop <noreply@example.com>"),
		},
		Broker: &structs.BrokerConfig{
			URL:            getEnvAsString("AMQP_URL", ""),
			OrderExchange:  getEnvAsString("AMQP_ORDER_EXCHANGE", "orders_topic"),
			PublishTimeout: getEnvAsTimeDuration("AMQP_PUBLISH_TIMEOUT", 5*time.Second),
		},
		Orders: &structs.OrdersConfig{
			StrictTransitions: getEnvAsBool("ORDER_STRICT_TRANSITIONS", true),
			NumberPrefix:      getEnvAsString("ORDER_NUMBER_PREFIX", "ORD"),
			NumberAttempts:    getEnvAsInt("ORDER_NUMBER_ATTEMPTS", 3),
		},
	}
}

func GetLogLevel() string {
	if level, ok := lookupEnv("LOG_LEVEL"); ok && level != "" {
		return level
	}
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}
