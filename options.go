package idkit

import (
	"io"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idgen"
	"github.com/ceyewan/idkit/metrics"
)

// Option Toolkit 初始化选项
type Option func(*options)

type options struct {
	logger  clog.Logger
	meter   metrics.Meter
	clock   idgen.Clock
	entropy io.Reader

	tracerProvider oteltrace.TracerProvider
}

// WithLogger 使用外部 Logger，忽略 Config.Log
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMeter 使用外部 Meter，忽略 Config.Metrics，Close 时不会关闭它
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithClock 替换生成器的时间来源
func WithClock(clock idgen.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithEntropy 替换生成器的随机来源
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		o.entropy = r
	}
}

// WithTracerProvider 使用外部 TracerProvider，忽略 Config.Trace
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}
