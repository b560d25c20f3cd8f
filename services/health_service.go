package services

import (
	"context"
	"database/sql"
	"runtime"
	"time"

	"github.com/MonkyMars/gecho"
)

var uptimeStart time.Time

func init() {
	uptimeStart = time.Now()
}

type serverHealthStatus struct {
	Uptime       float64   `json:"uptime"`        // in seconds
	CurrentTime  time.Time `json:"current_time"`  // server current time
	ServiceAlive bool      `json:"service_alive"` // always true if service is running
	RamStats     *RamStats `json:"ram_stats"`
}

type RamStats struct {
	TotalMB     uint64 `json:"total_mb"`
	UsedMB      uint64 `json:"used_mb"`
	FreeMB      uint64 `json:"free_mb"`
	UsedPercent uint64 `json:"used_percent"`
}

type dependencyStatus struct {
	Enabled        bool   `json:"enabled"`
	Connected      bool   `json:"connected"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	Error          string `json:"error,omitempty"`
}

type databaseHealthStatus struct {
	Connected      bool             `json:"connected"`
	LastChecked    time.Time        `json:"last_checked"`
	ResponseTimeMs int64            `json:"response_time_ms"`
	OpenConns      int              `json:"open_connections"`
	InUse          int              `json:"in_use"`
	Idle           int              `json:"idle"`
	Cache          dependencyStatus `json:"cache"`
	Broker         dependencyStatus `json:"broker"`
}

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Health(ctx context.Context) error
	GetStats() sql.DBStats
}

// BrokerProbe is satisfied by *broker.Publisher.
type BrokerProbe interface {
	IsAlive() error
}

type HealthService struct {
	logger       *gecho.Logger
	db           Pinger
	cacheService *CacheService
	broker       BrokerProbe
	status       serverHealthStatus
}

func NewHealthService(logger *gecho.Logger, db Pinger, cacheService *CacheService, broker BrokerProbe) *HealthService {
	return &HealthService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
		broker:       broker,
		status: serverHealthStatus{
			Uptime:       0,
			CurrentTime:  time.Now(),
			ServiceAlive: true,
			RamStats:     getRamStats(),
		},
	}
}

func getRamStats() *RamStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	totalMB := m.Sys / 1024 / 1024
	usedMB := m.Alloc / 1024 / 1024
	freeMB := totalMB - usedMB
	usedPercent := uint64(0)
	if totalMB > 0 {
		usedPercent = (usedMB * 100) / totalMB
	}

	return &RamStats{
		TotalMB:     totalMB,
		UsedMB:      usedMB,
		FreeMB:      freeMB,
		UsedPercent: usedPercent,
	}
}

func (hs *HealthService) GetServerHealthStatus() serverHealthStatus {
	status := hs.status
	status.Uptime = time.Since(uptimeStart).Seconds()
	status.CurrentTime = time.Now()
	status.RamStats = getRamStats()
	return status
}

// GetDatabaseHealthStatus pings the store. Cache and broker are reported
// alongside but only the store decides the returned error.
func (hs *HealthService) GetDatabaseHealthStatus(ctx context.Context) (databaseHealthStatus, error) {
	start := time.Now()
	err := hs.db.Health(ctx)
	elapsed := time.Since(start).Milliseconds()

	stats := hs.db.GetStats()
	dbStatus := databaseHealthStatus{
		Connected:      err == nil,
		LastChecked:    time.Now(),
		ResponseTimeMs: elapsed,
		OpenConns:      stats.OpenConnections,
		InUse:          stats.InUse,
		Idle:           stats.Idle,
		Cache:          hs.cacheStatus(ctx),
		Broker:         hs.brokerStatus(),
	}

	if err != nil {
		hs.logger.Error("Database health check failed", gecho.Field("error", err))
	}

	return dbStatus, err
}

func (hs *HealthService) cacheStatus(ctx context.Context) dependencyStatus {
	if !hs.cacheService.Enabled() {
		return dependencyStatus{}
	}

	start := time.Now()
	err := hs.cacheService.Ping(ctx)
	status := dependencyStatus{
		Enabled:        true,
		Connected:      err == nil,
		ResponseTimeMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func (hs *HealthService) brokerStatus() dependencyStatus {
	if hs.broker == nil {
		return dependencyStatus{}
	}

	err := hs.broker.IsAlive()
	status := dependencyStatus{Enabled: true, Connected: err == nil}
	if err != nil {
		status.Error = err.Error()
	}
	return status
}
