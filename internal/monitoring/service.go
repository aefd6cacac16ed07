package monitoring

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"caretrek-backend/pkg/logger"
)

// SystemSnapshot is the payload for the monitoring endpoint.
type SystemSnapshot struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryUsed    uint64  `json:"memory_used"`
	MemoryTotal   uint64  `json:"memory_total"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskUsed      uint64  `json:"disk_used"`
	DiskTotal     uint64  `json:"disk_total"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
	CollectedAt   string  `json:"collected_at"`
}

// Service samples host metrics on a ticker and exposes the latest
// snapshot, both as Prometheus gauges and through Snapshot.
type Service struct {
	interval time.Duration
}

func NewService(interval time.Duration) *Service {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Service{interval: interval}
}

// Start runs the collection loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.collect()
			}
		}
	}()
}

func (s *Service) collect() {
	snap, err := s.sample(0)
	if err != nil {
		logger.Warn("system metrics collection failed", "error", err)
		return
	}
	updateSystemGauges(snap)
}

// Snapshot samples the host once. CPU usage is measured over one
// second, so this blocks briefly.
func (s *Service) Snapshot() (*SystemSnapshot, error) {
	return s.sample(time.Second)
}

func (s *Service) sample(cpuWindow time.Duration) (*SystemSnapshot, error) {
	snap := &SystemSnapshot{
		Goroutines:  runtime.NumGoroutine(),
		CollectedAt: time.Now().UTC().Format(time.RFC3339),
	}

	cpuPercents, err := cpu.Percent(cpuWindow, false)
	if err != nil {
		return nil, err
	}
	if len(cpuPercents) > 0 {
		snap.CPUPercent = cpuPercents[0]
	}

	memStats, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	snap.MemoryUsed = memStats.Used
	snap.MemoryTotal = memStats.Total
	snap.MemoryPercent = memStats.UsedPercent

	diskStats, err := disk.Usage("/")
	if err != nil {
		return nil, err
	}
	snap.DiskUsed = diskStats.Used
	snap.DiskTotal = diskStats.Total
	snap.DiskPercent = diskStats.UsedPercent

	return snap, nil
}
