package structs

import "time"

type Config struct {
	Server   *ServerConfig
	Cors     *CorsConfig
	Database *DatabaseConfig
	Auth     *AuthConfig
	Cache    *CacheConfig
	Email    *EmailConfig
	Broker   *BrokerConfig
	Orders   *OrdersConfig
}

type ServerConfig struct {
	AppName         string        // Coffee Shop POS
	Environment     string        // development, production
	Port            string        // :8082
	ReadTimeout     time.Duration // in seconds
	WriteTimeout    time.Duration // in seconds
	IdleTimeout     time.Duration // in seconds
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int // in bytes
	MaxBodyBytes    int64
	Location        *time.Location // business day boundaries
}

type CorsConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type DatabaseConfig struct {
	Driver        string // pgx or pg
	URL           string // optional DSN, overrides the discrete fields
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxConns      int
	MinConns      int
	MaxLifetime   time.Duration
	MaxIdleTime   time.Duration
	DialTimeout   time.Duration
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	QueryTimeout  time.Duration
	RetryAttempts int
	AutoMigrate   bool
	SlowQuery     time.Duration
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	BlacklistCacheTTL time.Duration
	CacheUserTTL      time.Duration
	BcryptCost        int
	AdminUsername     string
	AdminPassword     string
	AdminFullName     string
	LoginRateLimit    int
	LoginRateWindow   time.Duration
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	MenuTTL         time.Duration
}

type EmailConfig struct {
	ApiKey string
	From   string
}

type BrokerConfig struct {
	URL            string
	OrderExchange  string
	PublishTimeout time.Duration
}

type OrdersConfig struct {
	StrictTransitions bool
	NumberPrefix      string
	NumberAttempts    int
}
