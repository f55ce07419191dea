// Package metrics provides the small counter/gauge/histogram/timer toolkit
// the framework uses for observability: concurrency-gate occupancy, retry
// attempts, and logical-send latency. It never affects control flow.
package metrics

import "time"

// MetricType identifies the kind of a metric.
type MetricType string

const (
	MetricTypeCounter   MetricType = "counter"
	MetricTypeGauge     MetricType = "gauge"
	MetricTypeHistogram MetricType = "histogram"
	MetricTypeTimer     MetricType = "timer"
)

// MetricMetadata provides introspection into a metric's configuration.
type MetricMetadata struct {
	Name        string
	Type        MetricType
	Description string
	Unit        string
	ConstLabels map[string]string
}

// DefaultDurationBuckets are sensible bucket boundaries for timer metrics
// measuring durations in milliseconds.
var DefaultDurationBuckets = []float64{
	1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000,
}

// MetricOption configures a metric at creation time.
type MetricOption func(*MetricOptions)

// MetricOptions holds the configuration a MetricOption mutates.
type MetricOptions struct {
	Description string
	Unit        string
	ConstLabels map[string]string
	Buckets     []float64
}

// WithDescription sets a human-readable description for the metric.
func WithDescription(desc string) MetricOption {
	return func(o *MetricOptions) { o.Description = desc }
}

// WithUnit sets the unit of measurement (e.g. "ms", "requests").
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) { o.Unit = unit }
}

// WithConstLabels sets constant, immutable labels for the metric.
func WithConstLabels(labels map[string]string) MetricOption {
	return func(o *MetricOptions) { o.ConstLabels = labels }
}

// WithBuckets sets explicit histogram/timer bucket boundaries.
func WithBuckets(buckets ...float64) MetricOption {
	return func(o *MetricOptions) { o.Buckets = buckets }
}

// WithDefaultDurationBuckets applies DefaultDurationBuckets.
func WithDefaultDurationBuckets() MetricOption {
	return func(o *MetricOptions) { o.Buckets = DefaultDurationBuckets }
}

// Counter tracks a monotonically increasing value.
type Counter interface {
	Inc()
	Add(delta float64)
	Value() float64
	Describe() MetricMetadata
}

// Gauge tracks a value that can move up or down.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
	Value() float64
	Describe() MetricMetadata
}

// Histogram tracks the distribution of observed values.
type Histogram interface {
	Observe(value float64)
	Count() uint64
	Sum() float64
	Mean() float64
	Quantile(q float64) float64
	Describe() MetricMetadata
}

// Timer measures durations.
type Timer interface {
	Record(duration time.Duration)
	// Time returns a function that records the elapsed time when called,
	// for use as: defer timer.Time()()
	Time() func()
	Count() uint64
	Mean() time.Duration
	Quantile(q float64) time.Duration
	Describe() MetricMetadata
}

// Metrics is a small factory for the framework's named metrics. A single
// Metrics value is shared across a gate or retry engine so repeated
// lookups of the same name return the same metric instance.
type Metrics interface {
	Counter(name string, opts ...MetricOption) Counter
	Gauge(name string, opts ...MetricOption) Gauge
	Histogram(name string, opts ...MetricOption) Histogram
	Timer(name string, opts ...MetricOption) Timer
}
