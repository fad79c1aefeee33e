package chatguard

import (
	"sync"
	"sync/atomic"
	"time"
)

// RosterMetrics provides roster cache and fetch statistics.
type RosterMetrics struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`

	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
	Expirations   int64 `json:"expirations"`
	Invalidations int64 `json:"invalidations"`

	Fetches            int64         `json:"fetches"`
	FailedFetches      int64         `json:"failed_fetches"`
	AverageFetch       time.Duration `json:"average_fetch"`
	MaxFetch           time.Duration `json:"max_fetch"`
	MinFetch           time.Duration `json:"min_fetch"`
	FetchDurationTotal time.Duration `json:"fetch_duration_total"`
	LastReset          time.Time     `json:"last_reset"`
}

// HitRatio returns hits / (hits + misses), or 0 before any lookup.
func (m RosterMetrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// rosterMonitor holds the internal counters behind RosterMetrics.
type rosterMonitor struct {
	hits          atomic.Int64
	misses        atomic.Int64
	evictions     atomic.Int64
	expirations   atomic.Int64
	invalidations atomic.Int64

	mu            sync.Mutex
	fetches       int64
	failed        int64
	totalDuration time.Duration
	maxDuration   time.Duration
	minDuration   time.Duration
	lastReset     time.Time
}

func newRosterMonitor() *rosterMonitor {
	return &rosterMonitor{lastReset: time.Now()}
}

func (m *rosterMonitor) hit() { m.hits.Add(1) }
func (m *rosterMonitor) miss() { m.misses.Add(1) }
func (m *rosterMonitor) eviction() { m.evictions.Add(1) }
func (m *rosterMonitor) expiration() { m.expirations.Add(1) }
func (m *rosterMonitor) invalidation() { m.invalidations.Add(1) }

// recordFetch records one call to the roster source.
func (m *rosterMonitor) recordFetch(d time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches++
	if !success {
		m.failed++
	}
	m.totalDuration += d
	if d > m.maxDuration {
		m.maxDuration = d
	}
	if m.fetches == 1 || d < m.minDuration {
		m.minDuration = d
	}
}

func (m *rosterMonitor) snapshot() RosterMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg time.Duration
	if m.fetches > 0 {
		avg = m.totalDuration / time.Duration(m.fetches)
	}
	return RosterMetrics{
		Hits:               m.hits.Load(),
		Misses:             m.misses.Load(),
		Evictions:          m.evictions.Load(),
		Expirations:        m.expirations.Load(),
		Invalidations:      m.invalidations.Load(),
		Fetches:            m.fetches,
		FailedFetches:      m.failed,
		AverageFetch:       avg,
		MaxFetch:           m.maxDuration,
		MinFetch:           m.minDuration,
		FetchDurationTotal: m.totalDuration,
		LastReset:          m.lastReset,
	}
}

func (m *rosterMonitor) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits.Store(0)
	m.misses.Store(0)
	m.evictions.Store(0)
	m.expirations.Store(0)
	m.invalidations.Store(0)
	m.fetches = 0
	m.failed = 0
	m.totalDuration = 0
	m.maxDuration = 0
	m.minDuration = 0
	m.lastReset = time.Now()
}
