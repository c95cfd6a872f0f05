package metrics

import (
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

// ErrInvalidConfig 指标配置不合法
var ErrInvalidConfig = xerrors.Sentinel(xerrors.CodeInvalidInput, "metrics: invalid config")

// Config 指标系统配置
//
// 典型配置（YAML）：
//
//	metrics:
//	  enabled: true
//	  service_name: "idkit"
//	  version: "v0.3.0"
//	  port: 9090
//	  path: "/metrics"
//	  runtime: true
type Config struct {
	// Enabled 为 false 时 New 返回 noop Meter，所有记录都是空操作
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// ServiceName 写入 OpenTelemetry Resource 的 service.name
	ServiceName string `json:"service_name" yaml:"service_name" mapstructure:"service_name"`

	// Version 写入 service.version
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// Port 大于 0 时启动独立的 HTTP 服务器暴露 Prometheus 指标
	Port int `json:"port" yaml:"port" mapstructure:"port"`

	// Path Prometheus 采集路径，必须以 "/" 开头，默认 "/metrics"
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Runtime 同时采集 Go 运行时指标（goroutine、GC、内存）
	Runtime bool `json:"runtime" yaml:"runtime" mapstructure:"runtime"`
}

// NewDefaultConfig 返回禁用状态的默认配置
func NewDefaultConfig() *Config {
	return &Config{
		ServiceName: "idkit",
		Path:        "/metrics",
	}
}

func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "idkit"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return xerrors.Wrapf(ErrInvalidConfig, "port %d out of range", c.Port)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return xerrors.Wrapf(ErrInvalidConfig, "path %q must start with /", c.Path)
	}
	return nil
}
