package clog

import "context"

// Logger 结构化日志接口
//
// 子 Logger 通过 With 预设字段，通过 WithNamespace 扩展命名空间：
//
//	child := logger.WithNamespace("snowflake").With(clog.Int64("worker", 3))
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Context 版本会按 WithContextField 的规则从 ctx 中提取字段
	DebugContext(ctx context.Context, msg string, fields ...Field)
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)

	With(fields ...Field) Logger

	// WithNamespace 追加命名空间，各段以 "." 连接
	WithNamespace(parts ...string) Logger

	// SetLevel 运行时调整级别，对同一 New 派生出的所有子 Logger 生效
	SetLevel(level Level)

	// Flush 同步输出目标，输出到文件时调用 Sync
	Flush()
}
