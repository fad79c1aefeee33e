package chatguard

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports RosterCache statistics to Prometheus. Values are read
// from the cache on every scrape.
//
// Example:
//
//	registry := prometheus.NewRegistry()
//	registry.MustRegister(chatguard.NewCollector(cache, "chatguard"))
type Collector struct {
	cache *RosterCache

	entries       *prometheus.Desc
	capacity      *prometheus.Desc
	hits          *prometheus.Desc
	misses        *prometheus.Desc
	evictions     *prometheus.Desc
	expirations   *prometheus.Desc
	invalidations *prometheus.Desc
	fetches       *prometheus.Desc
	failedFetches *prometheus.Desc
	fetchSeconds  *prometheus.Desc
}

// NewCollector creates a Collector for cache. Metric names are prefixed with
// namespace when it is not empty.
func NewCollector(cache *RosterCache, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "admin_cache", name), help, nil, nil)
	}
	return &Collector{
		cache:         cache,
		entries:       desc("entries", "Number of chats with a cached administrator roster."),
		capacity:      desc("capacity", "Maximum number of cached administrator rosters."),
		hits:          desc("hits_total", "Roster lookups served from the cache."),
		misses:        desc("misses_total", "Roster lookups that required a fetch."),
		evictions:     desc("evictions_total", "Rosters evicted to respect the capacity."),
		expirations:   desc("expirations_total", "Rosters dropped because their TTL elapsed."),
		invalidations: desc("invalidations_total", "Rosters dropped by explicit invalidation."),
		fetches:       desc("fetches_total", "Calls made to the roster source."),
		failedFetches: desc("fetch_failures_total", "Calls to the roster source that failed."),
		fetchSeconds:  desc("fetch_duration_seconds_total", "Total time spent fetching rosters."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.capacity
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.invalidations
	ch <- c.fetches
	ch <- c.failedFetches
	ch <- c.fetchSeconds
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.cache.Metrics()
	ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(m.Entries))
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(m.Capacity))
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(m.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(m.Misses))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(m.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(m.Expirations))
	ch <- prometheus.MustNewConstMetric(c.invalidations, prometheus.CounterValue, float64(m.Invalidations))
	ch <- prometheus.MustNewConstMetric(c.fetches, prometheus.CounterValue, float64(m.Fetches))
	ch <- prometheus.MustNewConstMetric(c.failedFetches, prometheus.CounterValue, float64(m.FailedFetches))
	ch <- prometheus.MustNewConstMetric(c.fetchSeconds, prometheus.CounterValue, m.FetchDurationTotal.Seconds())
}
