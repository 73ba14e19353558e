package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nash-dir/lesserpandas/pkg/pool"
)

// PoolStatsFunc returns a snapshot of one object pool.
type PoolStatsFunc func() pool.Stats

// poolCollector exports registered pool snapshots at gather time.
type poolCollector struct {
	mu    sync.RWMutex
	pools map[string]PoolStatsFunc
	desc  *prometheus.Desc
}

var pools = &poolCollector{
	pools: make(map[string]PoolStatsFunc),
	desc: prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "pool_objects"),
		"Object pool usage by pool and statistic (allocated, in_use, hits, misses)",
		[]string{"pool", "stat"}, nil,
	),
}

func init() {
	prometheus.MustRegister(pools)
}

// RegisterPool exposes a pool under name. Registering a name again replaces
// the previous source.
func RegisterPool(name string, stats PoolStatsFunc) {
	pools.mu.Lock()
	defer pools.mu.Unlock()
	pools.pools[name] = stats
}

// Describe implements prometheus.Collector.
func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	names := make([]string, 0, len(c.pools))
	for name := range c.pools {
		names = append(names, name)
	}
	sort.Strings(names)
	sources := make([]PoolStatsFunc, len(names))
	for i, name := range names {
		sources[i] = c.pools[name]
	}
	c.mu.RUnlock()

	for i, name := range names {
		s := sources[i]()
		for _, stat := range []struct {
			label string
			v     int64
		}{
			{"allocated", s.Allocated},
			{"in_use", s.InUse},
			{"hits", s.Hits},
			{"misses", s.Misses},
		} {
			ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(stat.v), name, stat.label)
		}
	}
}
