package database

import (
	"coffeeshop_server/structs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	DriverPgx = "pgx"
	DriverPg  = "pg"
)

// DB wraps the bun database handle with the logger, retry policy and query
// timeout the rest of the application runs under.
type DB struct {
	*bun.DB
	logger       *gecho.Logger
	retry        RetryConfig
	queryTimeout time.Duration
}

// Connect opens the connection pool, verifies it with a ping and returns the
// wrapped handle. A failing ping is returned as an error; callers at start-up
// treat it as fatal.
func Connect(ctx context.Context, cfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQLDB(cfg)
	if err != nil {
		return nil, err
	}

	// Apply pool settings from configuration
	sqldb.SetMaxOpenConns(cfg.MaxConns)
	sqldb.SetMaxIdleConns(cfg.MinConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.MaxIdleTime)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	bunDB.AddQueryHook(&connectionHealthHook{logger: logger, slowQuery: cfg.SlowQuery})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := bunDB.PingContext(pingCtx); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("driver", cfg.Driver),
		gecho.Field("host", cfg.Host),
		gecho.Field("database", cfg.Name),
	)

	return Wrap(bunDB, logger, cfg), nil
}

// Wrap adopts an existing bun handle, e.g. one opened by a test.
func Wrap(bunDB *bun.DB, logger *gecho.Logger, cfg *structs.DatabaseConfig) *DB {
	retry := RetryConfigFromAttempts(cfg.RetryAttempts)
	retry.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("Retrying database operation",
			gecho.Field("attempt", attempt),
			gecho.Field("delay_ms", delay.Milliseconds()),
			gecho.Field("error", err))
	}

	return &DB{
		DB:           bunDB,
		logger:       logger,
		retry:        retry,
		queryTimeout: cfg.QueryTimeout,
	}
}

func openSQLDB(cfg *structs.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case DriverPgx, "":
		connCfg, err := pgx.ParseConfig(DSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("invalid database configuration: %w", err)
		}
		if cfg.DialTimeout > 0 {
			connCfg.ConnectTimeout = cfg.DialTimeout
		}
		return stdlib.OpenDB(*connCfg), nil

	case DriverPg:
		opts := []pgdriver.Option{pgdriver.WithDSN(DSN(cfg))}
		if cfg.DialTimeout > 0 {
			opts = append(opts, pgdriver.WithDialTimeout(cfg.DialTimeout))
		}
		if cfg.ReadTimeout > 0 {
			opts = append(opts, pgdriver.WithReadTimeout(cfg.ReadTimeout))
		}
		if cfg.WriteTimeout > 0 {
			opts = append(opts, pgdriver.WithWriteTimeout(cfg.WriteTimeout))
		}
		return sql.OpenDB(pgdriver.NewConnector(opts...)), nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// DSN returns the configured URL, or builds one from the discrete settings.
func DSN(cfg *structs.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String()
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// GetStats returns connection pool statistics for monitoring
func (db *DB) GetStats() sql.DBStats {
	return db.DB.DB.Stats()
}

func (db *DB) Logger() *gecho.Logger {
	return db.logger
}

// WithRetry runs a single-statement operation under the configured retry policy.
func (db *DB) WithRetry(ctx context.Context, fn func() error) error {
	return RetryWithBackoff(ctx, db.retry, fn)
}

// WithTimeout bounds ctx by the configured query timeout.
func (db *DB) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// connectionHealthHook implements bun.QueryHook to monitor connection health
type connectionHealthHook struct {
	logger    *gecho.Logger
	slowQuery time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.slowQuery > 0 && duration > h.slowQuery {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err != nil && (errors.Is(event.Err, io.EOF) || errors.Is(event.Err, io.ErrUnexpectedEOF)) {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
