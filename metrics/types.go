// Package metrics 为 idkit 提供指标收集能力。
//
// 基于 OpenTelemetry 指标 API 构建，通过 Prometheus Exporter 暴露。每个 Meter
// 拥有独立的 Prometheus Registry，同一进程内可以创建多个互不干扰的 Meter。
//
// 快速开始：
//
//	meter, err := metrics.New(&metrics.Config{Enabled: true, ServiceName: "idkit"})
//	if err != nil {
//	    return err
//	}
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("idgen_generated_total", "生成的标识符数量")
//	counter.Inc(ctx, metrics.L("type", "ulid"))
//
//	http.Handle("/metrics", meter.Handler())
package metrics

import (
	"context"
	"net/http"
)

// Counter 只增不减的累计值
type Counter interface {
	// Inc 增加 1
	Inc(ctx context.Context, labels ...Label)

	// Add 增加给定的值，负数会被忽略
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 可任意增减的瞬时值
type Gauge interface {
	Set(ctx context.Context, val float64, labels ...Label)
	Inc(ctx context.Context, labels ...Label)
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 记录值的分布
type Histogram interface {
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂，创建出的指标可以并发使用
type Meter interface {
	// Counter 创建计数器，name 应符合 Prometheus 命名规范（如 idgen_generated_total）
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)

	// Gauge 创建仪表盘
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)

	// Histogram 创建直方图
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Handler 返回 Prometheus 文本格式的采集 Handler，noop Meter 返回 404
	Handler() http.Handler

	// Shutdown 关闭 Meter 与内置 HTTP 服务器，调用后不再接受新的记录
	Shutdown(ctx context.Context) error
}

// MetricOption 指标创建选项
type MetricOption func(*MetricOptions)

// MetricOptions 指标选项
type MetricOptions struct {
	// Unit 指标单位，建议使用 UCUM 单位代码，例如 "s"、"By"、"{id}"
	Unit string
}

// WithUnit 设置指标的单位
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}

func applyMetricOptions(opts []MetricOption) *MetricOptions {
	o := &MetricOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
