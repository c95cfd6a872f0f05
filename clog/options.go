package clog

import "io"

// Option Logger 选项
type Option func(*options)

type options struct {
	namespace     []string
	contextFields []contextField
	writer        io.Writer
}

type contextField struct {
	key  any
	name string
}

// WithNamespace 设置初始命名空间，例如 clog.WithNamespace("idkit", "detect")
func WithNamespace(parts ...string) Option {
	return func(o *options) {
		o.namespace = append(o.namespace, parts...)
	}
}

// WithContextField 从 ctx.Value(key) 提取值并以 name 输出
func WithContextField(key any, name string) Option {
	return func(o *options) {
		o.contextFields = append(o.contextFields, contextField{key: key, name: name})
	}
}

// WithWriter 输出到指定 Writer，忽略 Config.Output。主要用于测试。
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

func applyOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
