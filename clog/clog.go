// Package clog 是 idkit 的结构化日志组件，基于标准库 log/slog。
//
// 各组件通过 WithLogger 选项接收 Logger，并用 WithNamespace 标识自己：
//
//	logger, _ := clog.New(&clog.Config{Level: "debug", Format: "json"})
//	gen := idgen.NewSnowflake(cfg, idgen.WithLogger(logger))
//	// 输出中带有 namespace=idgen.snowflake
//
// 未提供 Logger 时组件使用 Discard()，不产生任何输出。
package clog

import (
	"github.com/ceyewan/idkit/xerrors"
)

// New 创建 Logger，config 为 nil 时使用 NewDefaultConfig
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = NewDefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, xerrors.Wrap(err, "clog: invalid config")
	}
	return newLogger(config, applyOptions(opts...))
}

// Must 与 New 相同，出错时 panic
func Must(config *Config, opts ...Option) Logger {
	return xerrors.Must(New(config, opts...))
}
