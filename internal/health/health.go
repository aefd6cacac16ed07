package health

import (
	"context"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Checker struct {
	db      *pgxpool.Pool
	started time.Time
}

type Status struct {
	Status        string         `json:"status"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Database      DatabaseHealth `json:"database"`
	Goroutines    int            `json:"goroutines"`
	Memory        MemoryStats    `json:"memory"`
}

type MemoryStats struct {
	AllocMB float64 `json:"alloc_mb"`
	SysMB   float64 `json:"sys_mb"`
	NumGC   uint32  `json:"num_gc"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

func NewChecker(db *pgxpool.Pool) *Checker {
	return &Checker{db: db, started: time.Now()}
}

func (c *Checker) Check(ctx context.Context) Status {
	dbHealth := c.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return Status{
		Status:        status,
		UptimeSeconds: int64(time.Since(c.started).Seconds()),
		Database:      dbHealth,
		Goroutines:    runtime.NumGoroutine(),
		Memory: MemoryStats{
			AllocMB: float64(memStats.Alloc) / 1024 / 1024,
			SysMB:   float64(memStats.Sys) / 1024 / 1024,
			NumGC:   memStats.NumGC,
		},
	}
}

func (c *Checker) checkDatabase(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := c.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	status := "healthy"
	if err != nil {
		status = "unhealthy"
	}

	return DatabaseHealth{Status: status, ResponseTime: responseTime}
}
