package detect

import (
	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idtype"
)

// Option Detector 选项
type Option func(*Detector)

// WithRegistry 使用自定义注册表，例如配置了 Snowflake 纪元的注册表
func WithRegistry(reg *idtype.Registry) Option {
	return func(d *Detector) {
		if reg != nil {
			d.reg = reg
		}
	}
}

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger.WithNamespace("detect")
		}
	}
}

// WithStrictMode 设置默认是否启用严格模式
func WithStrictMode(strict bool) Option {
	return func(d *Detector) {
		d.strict = strict
	}
}

// DetectOption 单次检测的选项
type DetectOption func(*detectOptions)

type detectOptions struct {
	hint   idtype.Tag
	strict bool
}

// WithHint 只按指定格式解析
func WithHint(tag idtype.Tag) DetectOption {
	return func(o *detectOptions) {
		o.hint = tag
	}
}

// WithStrict 要求输入与规范形式完全一致
func WithStrict() DetectOption {
	return func(o *detectOptions) {
		o.strict = true
	}
}
