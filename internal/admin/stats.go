// AngelaMos | 2026
// stats.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

type Overview struct {
	Backends []BackendStatus `json:"backends"`
	Counts   DomainCounts    `json:"counts"`
	Runtime  RuntimeStats    `json:"runtime"`
	Host     *HostStats      `json:"host,omitempty"`
}

type BackendStatus struct {
	Name    string      `json:"name"`
	Healthy bool        `json:"healthy"`
	Pool    *PoolStatus `json:"pool,omitempty"`
}

// PoolStatus is the common view of a connection pool, whichever client
// owns it. Fields a client does not track stay zero.
type PoolStatus struct {
	Max         int     `json:"max,omitempty"`
	Open        int     `json:"open"`
	InUse       int     `json:"in_use"`
	Idle        int     `json:"idle"`
	Waits       int64   `json:"waits"`
	WaitTime    string  `json:"wait_time,omitempty"`
	Timeouts    int64   `json:"timeouts"`
	Utilization float64 `json:"utilization"`
}

// SQLPool adapts database/sql pool statistics.
func SQLPool(stats func() sql.DBStats) func() PoolStatus {
	return func() PoolStatus {
		s := stats()
		p := PoolStatus{
			Max:      s.MaxOpenConnections,
			Open:     s.OpenConnections,
			InUse:    s.InUse,
			Idle:     s.Idle,
			Waits:    s.WaitCount,
			WaitTime: s.WaitDuration.Round(time.Millisecond).String(),
		}
		if s.MaxOpenConnections > 0 {
			p.Utilization = float64(s.InUse) / float64(s.MaxOpenConnections)
		}
		return p
	}
}

// RedisPool adapts go-redis pool statistics.
func RedisPool(stats func() *redis.PoolStats) func() PoolStatus {
	return func() PoolStatus {
		s := stats()
		p := PoolStatus{
			Open:     int(s.TotalConns),
			Idle:     int(s.IdleConns),
			InUse:    int(s.TotalConns) - int(s.IdleConns),
			Waits:    int64(s.Misses),
			Timeouts: int64(s.Timeouts),
		}
		if s.TotalConns > 0 {
			p.Utilization = float64(p.InUse) / float64(s.TotalConns)
		}
		return p
	}
}

type DomainCounts struct {
	Users        int64            `json:"users"`
	UsersByRole  map[string]int64 `json:"users_by_role"`
	Jobs         int64            `json:"jobs"`
	Applications int64            `json:"applications"`
}

type RuntimeStats struct {
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	CPUs       int    `json:"cpus"`
	HeapAlloc  uint64 `json:"heap_alloc_bytes"`
	HeapSys    uint64 `json:"heap_sys_bytes"`
	GCCycles   uint32 `json:"gc_cycles"`
	Uptime     string `json:"uptime"`
}

var processStart = time.Now()

func readRuntimeStats() RuntimeStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return RuntimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		HeapAlloc:  ms.HeapAlloc,
		HeapSys:    ms.HeapSys,
		GCCycles:   ms.NumGC,
		Uptime:     time.Since(processStart).Round(time.Second).String(),
	}
}

type HostStats struct {
	Hostname       string  `json:"hostname"`
	Platform       string  `json:"platform"`
	UptimeSeconds  uint64  `json:"uptime_seconds"`
	MemTotal       uint64  `json:"mem_total_bytes"`
	MemAvailable   uint64  `json:"mem_available_bytes"`
	MemUsedPercent float64 `json:"mem_used_percent"`
	Load1          float64 `json:"load1"`
	Load5          float64 `json:"load5"`
	Load15         float64 `json:"load15"`
}

// readHostStats samples the machine the API runs on. Load averages are
// left zero on platforms that do not report them.
func readHostStats(ctx context.Context) (*HostStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read memory: %w", err)
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read host info: %w", err)
	}

	stats := &HostStats{
		Hostname:       info.Hostname,
		Platform:       info.Platform,
		UptimeSeconds:  info.Uptime,
		MemTotal:       vm.Total,
		MemAvailable:   vm.Available,
		MemUsedPercent: vm.UsedPercent,
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		stats.Load1, stats.Load5, stats.Load15 = avg.Load1, avg.Load5, avg.Load15
	}

	return stats, nil
}
