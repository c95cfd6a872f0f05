package clog

import (
	"log/slog"
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

// ErrInvalidConfig 日志配置不合法
var ErrInvalidConfig = xerrors.Sentinel(xerrors.CodeInvalidInput, "clog: invalid config")

// Level 日志级别，数值与 slog.Level 一致
type Level int

const (
	DebugLevel Level = Level(slog.LevelDebug)
	InfoLevel  Level = Level(slog.LevelInfo)
	WarnLevel  Level = Level(slog.LevelWarn)
	ErrorLevel Level = Level(slog.LevelError)
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// ParseLevel 解析级别名称，不区分大小写
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, xerrors.Wrapf(ErrInvalidConfig, "unknown log level %q", s)
	}
}
