package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/beorn7/perks/quantile"
)

// metricCore holds the fields shared by every concrete metric type.
type metricCore struct {
	mu          sync.RWMutex
	name        string
	metricType  MetricType
	description string
	unit        string
	constLabels map[string]string
}

func newMetricCore(name string, metricType MetricType, opts ...MetricOption) *metricCore {
	options := &MetricOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return &metricCore{
		name:        name,
		metricType:  metricType,
		description: options.Description,
		unit:        options.Unit,
		constLabels: options.ConstLabels,
	}
}

func (mc *metricCore) describe() MetricMetadata {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return MetricMetadata{
		Name:        mc.name,
		Type:        mc.metricType,
		Description: mc.description,
		Unit:        mc.unit,
		ConstLabels: mc.constLabels,
	}
}

// counterImpl is a lock-free monotonic counter.
type counterImpl struct {
	*metricCore
	value atomic.Uint64 // bits of a float64, per math.Float64bits
}

func newCounter(name string, opts ...MetricOption) *counterImpl {
	return &counterImpl{metricCore: newMetricCore(name, MetricTypeCounter, opts...)}
}

func (c *counterImpl) Inc() { c.Add(1) }

func (c *counterImpl) Add(delta float64) {
	if delta < 0 {
		return
	}

	for {
		old := c.value.Load()
		next := floatBits(floatFromBits(old) + delta)
		if c.value.CompareAndSwap(old, next) {
			return
		}
	}
}

func (c *counterImpl) Value() float64 { return floatFromBits(c.value.Load()) }

// gaugeImpl is a lock-free bidirectional gauge.
type gaugeImpl struct {
	*metricCore
	value atomic.Uint64
}

func newGauge(name string, opts ...MetricOption) *gaugeImpl {
	return &gaugeImpl{metricCore: newMetricCore(name, MetricTypeGauge, opts...)}
}

func (g *gaugeImpl) Set(value float64) { g.value.Store(floatBits(value)) }
func (g *gaugeImpl) Inc()              { g.Add(1) }
func (g *gaugeImpl) Dec()              { g.Add(-1) }

func (g *gaugeImpl) Add(delta float64) {
	for {
		old := g.value.Load()
		next := floatBits(floatFromBits(old) + delta)
		if g.value.CompareAndSwap(old, next) {
			return
		}
	}
}

func (g *gaugeImpl) Value() float64 { return floatFromBits(g.value.Load()) }

// histogramImpl tracks observations via a streaming quantile estimator.
type histogramImpl struct {
	*metricCore
	mu     sync.Mutex
	stream *quantile.Stream
	count  uint64
	sum    float64
}

func newHistogram(name string, opts ...MetricOption) *histogramImpl {
	return &histogramImpl{
		metricCore: newMetricCore(name, MetricTypeHistogram, opts...),
		stream:     quantile.NewTargeted(map[float64]float64{0.5: 0.01, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001}),
	}
}

func (h *histogramImpl) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stream.Insert(value)
	h.count++
	h.sum += value
}

func (h *histogramImpl) Count() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.count
}

func (h *histogramImpl) Sum() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.sum
}

func (h *histogramImpl) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return 0
	}

	return h.sum / float64(h.count)
}

func (h *histogramImpl) Quantile(q float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stream.Query(q)
}

// timerImpl records durations by delegating to a histogram in milliseconds.
type timerImpl struct {
	*metricCore
	hist *histogramImpl
}

func newTimer(name string, opts ...MetricOption) *timerImpl {
	return &timerImpl{
		metricCore: newMetricCore(name, MetricTypeTimer, opts...),
		hist:       newHistogram(name, opts...),
	}
}

func (t *timerImpl) Record(d time.Duration) { t.hist.Observe(float64(d.Milliseconds())) }

func (t *timerImpl) Time() func() {
	start := time.Now()

	return func() { t.Record(time.Since(start)) }
}

func (t *timerImpl) Count() uint64      { return t.hist.Count() }
func (t *timerImpl) Mean() time.Duration { return time.Duration(t.hist.Mean()) * time.Millisecond }
func (t *timerImpl) Quantile(q float64) time.Duration {
	return time.Duration(t.hist.Quantile(q)) * time.Millisecond
}

// metricsCollector is the default in-process Metrics implementation: a
// name-keyed registry so repeated lookups of the same metric name return
// the same instance.
type metricsCollector struct {
	mu         sync.RWMutex
	counters   map[string]*counterImpl
	gauges     map[string]*gaugeImpl
	histograms map[string]*histogramImpl
	timers     map[string]*timerImpl
}

// NewMetricsCollector creates a new in-process metrics registry.
func NewMetricsCollector() Metrics {
	return &metricsCollector{
		counters:   make(map[string]*counterImpl),
		gauges:     make(map[string]*gaugeImpl),
		histograms: make(map[string]*histogramImpl),
		timers:     make(map[string]*timerImpl),
	}
}

func (m *metricsCollector) Counter(name string, opts ...MetricOption) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c
	}

	c := newCounter(name, opts...)
	m.counters[name] = c

	return c
}

func (m *metricsCollector) Gauge(name string, opts ...MetricOption) Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[name]; ok {
		return g
	}

	g := newGauge(name, opts...)
	m.gauges[name] = g

	return g
}

func (m *metricsCollector) Histogram(name string, opts ...MetricOption) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return h
	}

	h := newHistogram(name, opts...)
	m.histograms[name] = h

	return h
}

func (m *metricsCollector) Timer(name string, opts ...MetricOption) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[name]; ok {
		return t
	}

	t := newTimer(name, opts...)
	m.timers[name] = t

	return t
}

// NoopMetrics discards every observation; it is the default when a Client
// is built without a metrics sink.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, ...MetricOption) Counter     { return noopCounter{} }
func (NoopMetrics) Gauge(string, ...MetricOption) Gauge         { return noopGauge{} }
func (NoopMetrics) Histogram(string, ...MetricOption) Histogram { return noopHistogram{} }
func (NoopMetrics) Timer(string, ...MetricOption) Timer         { return noopTimer{} }

type noopCounter struct{}

func (noopCounter) Inc()               {}
func (noopCounter) Add(float64)        {}
func (noopCounter) Value() float64     { return 0 }
func (noopCounter) Describe() MetricMetadata { return MetricMetadata{} }

type noopGauge struct{}

func (noopGauge) Set(float64)    {}
func (noopGauge) Inc()           {}
func (noopGauge) Dec()           {}
func (noopGauge) Add(float64)    {}
func (noopGauge) Value() float64 { return 0 }
func (noopGauge) Describe() MetricMetadata { return MetricMetadata{} }

type noopHistogram struct{}

func (noopHistogram) Observe(float64)        {}
func (noopHistogram) Count() uint64          { return 0 }
func (noopHistogram) Sum() float64           { return 0 }
func (noopHistogram) Mean() float64          { return 0 }
func (noopHistogram) Quantile(float64) float64 { return 0 }
func (noopHistogram) Describe() MetricMetadata { return MetricMetadata{} }

type noopTimer struct{}

func (noopTimer) Record(time.Duration)          {}
func (noopTimer) Time() func()                  { return func() {} }
func (noopTimer) Count() uint64                 { return 0 }
func (noopTimer) Mean() time.Duration           { return 0 }
func (noopTimer) Quantile(float64) time.Duration { return 0 }
func (noopTimer) Describe() MetricMetadata       { return MetricMetadata{} }
