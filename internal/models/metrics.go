package models

import "time"

// SystemMetrics is a point-in-time view of process counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	GenerationRuns           uint64    `json:"generation_runs"`
	LastAssignedSlots        int       `json:"last_assigned_slots"`
	LastUnfilledCells        int       `json:"last_unfilled_cells"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
