package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/mem"
)

// Health states reported by HealthService.
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Pinger is the part of *sql.DB the health check needs.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReport is the aggregated liveness snapshot.
type HealthReport struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Memory        struct {
		UsedBytes  uint64 `json:"usedBytes"`
		TotalBytes uint64 `json:"totalBytes"`
	} `json:"memory"`
}

// Healthy reports whether every dependency is up.
func (r HealthReport) Healthy() bool { return r.Status == StatusUp }

// HealthServiceProvider defines the interface for health checks.
type HealthServiceProvider interface {
	Check(ctx context.Context) HealthReport
}

// HealthService reports process uptime, host memory and database reachability.
type HealthService struct {
	db        Pinger
	startedAt time.Time
	now       func() time.Time
	memory    func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewHealthService creates a new HealthService. startedAt is the process start time.
func NewHealthService(db Pinger, startedAt time.Time) *HealthService {
	return &HealthService{
		db:        db,
		startedAt: startedAt,
		now:       time.Now,
		memory:    mem.VirtualMemoryWithContext,
	}
}

// Check collects the report. Memory stats are best effort.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	var r HealthReport
	r.Status, r.Database = StatusUp, StatusUp

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.db.PingContext(pingCtx); err != nil {
		log.Error().Err(err).Msg("Health check: database ping failed")
		r.Status, r.Database = StatusDown, StatusDown
	}

	if vm, err := s.memory(ctx); err == nil {
		r.Memory.UsedBytes = vm.Used
		r.Memory.TotalBytes = vm.Total
	} else {
		log.Debug().Err(err).Msg("Health check: memory stats unavailable")
	}

	if !s.startedAt.IsZero() {
		r.UptimeSeconds = int64(s.now().Sub(s.startedAt).Seconds())
	}
	return r
}
