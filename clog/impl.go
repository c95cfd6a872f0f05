package clog

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

// NamespaceKey 命名空间在日志中的字段名
const NamespaceKey = "namespace"

type loggerImpl struct {
	handler slog.Handler
	level   *slog.LevelVar
	file    *os.File
	opts    *options
	attrs   []slog.Attr
}

func newLogger(config *Config, o *options) (Logger, error) {
	w, file, err := resolveWriter(config, o)
	if err != nil {
		return nil, err
	}
	lvl, _ := ParseLevel(config.Level)
	level := new(slog.LevelVar)
	level.Set(slog.Level(lvl))

	return &loggerImpl{
		handler: newHandler(config, w, level),
		level:   level,
		file:    file,
		opts:    o,
	}, nil
}

func (l *loggerImpl) Debug(msg string, fields ...Field) {
	l.log(context.Background(), DebugLevel, msg, fields)
}

func (l *loggerImpl) Info(msg string, fields ...Field) {
	l.log(context.Background(), InfoLevel, msg, fields)
}

func (l *loggerImpl) Warn(msg string, fields ...Field) {
	l.log(context.Background(), WarnLevel, msg, fields)
}

func (l *loggerImpl) Error(msg string, fields ...Field) {
	l.log(context.Background(), ErrorLevel, msg, fields)
}

func (l *loggerImpl) DebugContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, DebugLevel, msg, fields)
}

func (l *loggerImpl) InfoContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, InfoLevel, msg, fields)
}

func (l *loggerImpl) WarnContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, WarnLevel, msg, fields)
}

func (l *loggerImpl) ErrorContext(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, ErrorLevel, msg, fields)
}

func (l *loggerImpl) With(fields ...Field) Logger {
	child := *l
	child.attrs = append(append([]slog.Attr(nil), l.attrs...), fields...)
	return &child
}

func (l *loggerImpl) WithNamespace(parts ...string) Logger {
	child := *l
	o := *l.opts
	o.namespace = append(append([]string(nil), l.opts.namespace...), parts...)
	child.opts = &o
	return &child
}

func (l *loggerImpl) SetLevel(level Level) {
	l.level.Set(slog.Level(level))
}

func (l *loggerImpl) Flush() {
	if l.file != nil {
		_ = l.file.Sync()
	}
}

func (l *loggerImpl) log(ctx context.Context, level Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, slog.Level(level)) {
		return
	}

	// skip: runtime.Callers, log, Info/Debug...
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pcs[0])

	if len(l.opts.namespace) > 0 {
		r.AddAttrs(slog.String(NamespaceKey, strings.Join(l.opts.namespace, ".")))
	}
	r.AddAttrs(l.attrs...)
	for _, cf := range l.opts.contextFields {
		if v := ctx.Value(cf.key); v != nil {
			r.AddAttrs(slog.Any(cf.name, v))
		}
	}
	for _, f := range fields {
		if f.Key != "" {
			r.AddAttrs(f)
		}
	}
	_ = l.handler.Handle(ctx, r)
}
