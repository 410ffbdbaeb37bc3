package otel

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标实现
//
// 把 Metrics 接口映射到 OpenTelemetry Meter,由 MeterProvider 的
// PeriodicReader 负责导出。同名仪器会被复用。
type OTelMetrics struct {
	meter      metric.Meter
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge
	mu         sync.Mutex
}

// NewOTelMetrics 创建 OpenTelemetry 指标实现
func NewOTelMetrics(meter metric.Meter) *OTelMetrics {
	return &OTelMetrics{
		meter:      meter,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// Counter 返回或创建计数器
func (m *OTelMetrics) Counter(name string) Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return &otelCounter{counter: c}
	}

	c, err := m.meter.Int64Counter(name, metric.WithDescription(describeMetric(name)))
	if err != nil {
		return &NoopCounter{}
	}

	m.counters[name] = c
	return &otelCounter{counter: c}
}

// Histogram 返回或创建直方图
func (m *OTelMetrics) Histogram(name string) Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.histograms[name]; ok {
		return &otelHistogram{histogram: h}
	}

	h, err := m.meter.Float64Histogram(name, metric.WithDescription(describeMetric(name)))
	if err != nil {
		return &NoopHistogram{}
	}

	m.histograms[name] = h
	return &otelHistogram{histogram: h}
}

// Gauge 返回或创建仪表
func (m *OTelMetrics) Gauge(name string) Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if g, ok := m.gauges[name]; ok {
		return &otelGauge{gauge: g}
	}

	g, err := m.meter.Float64Gauge(name, metric.WithDescription(describeMetric(name)))
	if err != nil {
		return &NoopGauge{}
	}

	m.gauges[name] = g
	return &otelGauge{gauge: g}
}

// describeMetric 查找预定义指标的描述文本
func describeMetric(name string) string {
	for _, d := range PredefinedMetrics {
		if d.Name == name {
			return d.Description
		}
	}
	return ""
}

// convertAttrs 转换通用属性为 OpenTelemetry 属性
func convertAttrs(attrs []Attr) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}

	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for _, a := range attrs {
		switch v := a.Value.(type) {
		case string:
			kvs = append(kvs, attribute.String(a.Key, v))
		case bool:
			kvs = append(kvs, attribute.Bool(a.Key, v))
		case int:
			kvs = append(kvs, attribute.Int(a.Key, v))
		case int64:
			kvs = append(kvs, attribute.Int64(a.Key, v))
		case float64:
			kvs = append(kvs, attribute.Float64(a.Key, v))
		default:
			kvs = append(kvs, attribute.String(a.Key, fmt.Sprint(v)))
		}
	}
	return kvs
}

// otelCounter OpenTelemetry 计数器
type otelCounter struct {
	counter metric.Int64Counter
}

// Add 增加计数
func (c *otelCounter) Add(ctx context.Context, value int64, attrs ...Attr) {
	c.counter.Add(ctx, value, metric.WithAttributes(convertAttrs(attrs)...))
}

// otelHistogram OpenTelemetry 直方图
type otelHistogram struct {
	histogram metric.Float64Histogram
}

// Record 记录值
func (h *otelHistogram) Record(ctx context.Context, value float64, attrs ...Attr) {
	h.histogram.Record(ctx, value, metric.WithAttributes(convertAttrs(attrs)...))
}

// otelGauge OpenTelemetry 仪表
type otelGauge struct {
	gauge metric.Float64Gauge
}

// Set 设置值
func (g *otelGauge) Set(ctx context.Context, value float64, attrs ...Attr) {
	g.gauge.Record(ctx, value, metric.WithAttributes(convertAttrs(attrs)...))
}

// compile-time interface check
var _ Metrics = (*OTelMetrics)(nil)
var _ Counter = (*otelCounter)(nil)
var _ Histogram = (*otelHistogram)(nil)
var _ Gauge = (*otelGauge)(nil)
