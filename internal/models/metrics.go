package models

import "time"

// SystemMetrics is a lightweight snapshot of instrumentation counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	Mutations                uint64    `json:"mutations"`
	RejectedTransitions      uint64    `json:"rejectedTransitions"`
	SnapshotSaves            uint64    `json:"snapshotSaves"`
	AverageSnapshotSaveMs    float64   `json:"averageSnapshotSaveMs"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
