package scheduler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// JitterCollector is a debug-only Prometheus collector that records
// every observed (scheduled, actual) delta for post-hoc analysis: the
// raw sample stream plus running min/max/sum/count, exported as a
// histogram alongside four gauges. Attach it to a Scheduler with
// WithMetrics; leave it off (the default) to avoid the bookkeeping cost
// in hot scheduling paths.
type JitterCollector struct {
	mu      sync.Mutex
	deltas  []int64
	min     int64
	max     int64
	sum     int64
	count   int64
	maxKept int

	histogram prometheus.Histogram
	minGauge  prometheus.Gauge
	maxGauge  prometheus.Gauge
	sumGauge  prometheus.Gauge
	countGauge prometheus.Gauge
}

// NewJitterCollector creates a collector that retains at most maxKept
// raw deltas (oldest dropped first) for callers that want the sample
// stream, in addition to the unbounded running aggregates. maxKept <= 0
// disables raw retention; aggregates are always tracked.
func NewJitterCollector(maxKept int) *JitterCollector {
	return &JitterCollector{
		maxKept: maxKept,
		histogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_jitter_delta_microseconds",
			Help:    "Observed (actual - scheduled) execution delta in microseconds.",
			Buckets: prometheus.ExponentialBuckets(10, 2, 14),
		}),
		minGauge:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "scheduler_jitter_min_microseconds", Help: "Minimum observed jitter delta."}),
		maxGauge:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "scheduler_jitter_max_microseconds", Help: "Maximum observed jitter delta."}),
		sumGauge:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "scheduler_jitter_sum_microseconds", Help: "Running sum of observed jitter deltas."}),
		countGauge: prometheus.NewGauge(prometheus.GaugeOpts{Name: "scheduler_jitter_count", Help: "Number of dispatches observed."}),
	}
}

// Describe implements prometheus.Collector.
func (c *JitterCollector) Describe(ch chan<- *prometheus.Desc) {
	c.histogram.Describe(ch)
	c.minGauge.Describe(ch)
	c.maxGauge.Describe(ch)
	c.sumGauge.Describe(ch)
	c.countGauge.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *JitterCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	c.minGauge.Set(float64(c.min))
	c.maxGauge.Set(float64(c.max))
	c.sumGauge.Set(float64(c.sum))
	c.countGauge.Set(float64(c.count))
	c.mu.Unlock()

	c.histogram.Collect(ch)
	c.minGauge.Collect(ch)
	c.maxGauge.Collect(ch)
	c.sumGauge.Collect(ch)
	c.countGauge.Collect(ch)
}

// Observe records a single dispatch's jitter delta.
func (c *JitterCollector) Observe(deltaUs int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.count == 0 || deltaUs < c.min {
		c.min = deltaUs
	}
	if c.count == 0 || deltaUs > c.max {
		c.max = deltaUs
	}
	c.sum += deltaUs
	c.count++
	if c.maxKept > 0 {
		c.deltas = append(c.deltas, deltaUs)
		if len(c.deltas) > c.maxKept {
			c.deltas = c.deltas[len(c.deltas)-c.maxKept:]
		}
	}
	c.histogram.Observe(float64(deltaUs))
}

// Snapshot returns the retained raw deltas and running aggregates.
func (c *JitterCollector) Snapshot() (deltas []int64, min, max, sum, count int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.deltas))
	copy(out, c.deltas)
	return out, c.min, c.max, c.sum, c.count
}
