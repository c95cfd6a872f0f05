package idgen

import (
	"crypto/rand"
	"io"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/metrics"
)

// Option 组件初始化选项函数
type Option func(*Options)

// Options 组件初始化选项配置
type Options struct {
	Logger  clog.Logger
	Meter   metrics.Meter
	Clock   Clock
	Entropy io.Reader // 随机来源，默认 crypto/rand.Reader
}

// WithLogger 设置 Logger，组件会追加 "idgen" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger.WithNamespace("idgen")
		}
	}
}

// WithMeter 设置 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *Options) {
		if meter != nil {
			o.Meter = meter
		}
	}
}

// WithClock 设置时间来源
func WithClock(clock Clock) Option {
	return func(o *Options) {
		if clock != nil {
			o.Clock = clock
		}
	}
}

// WithEntropy 设置随机来源。必须可以并发读取，或者只被单个生成器使用。
func WithEntropy(r io.Reader) Option {
	return func(o *Options) {
		if r != nil {
			o.Entropy = r
		}
	}
}

func applyOptions(opts []Option) *Options {
	o := &Options{
		Logger:  clog.Discard(),
		Meter:   metrics.Discard(),
		Clock:   SystemClock{},
		Entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
