package trace

import (
	"github.com/ceyewan/idkit/xerrors"
)

// ErrInvalidConfig 链路追踪配置不合法
var ErrInvalidConfig = xerrors.Sentinel(xerrors.CodeInvalidInput, "trace: invalid config")

// Config 链路追踪配置
//
// 典型配置（YAML）：
//
//	trace:
//	  enabled: true
//	  service_name: "idkit"
//	  endpoint: "localhost:4317"
//	  sampler: 0.1
type Config struct {
	// Enabled 为 false 时不创建 TracerProvider，Span 使用全局 Provider（默认 noop）
	Enabled     bool    `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	ServiceName string  `json:"service_name" yaml:"service_name" mapstructure:"service_name"`
	Endpoint    string  `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"` // OTLP gRPC 地址
	Sampler     float64 `json:"sampler" yaml:"sampler" mapstructure:"sampler"`    // 采样率 [0, 1]
	Batcher     string  `json:"batcher" yaml:"batcher" mapstructure:"batcher"`    // batch | simple
	Insecure    bool    `json:"insecure" yaml:"insecure" mapstructure:"insecure"`
}

// NewDefaultConfig 返回禁用状态的默认配置
func NewDefaultConfig() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "idkit"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4317"
	}
	if c.Sampler == 0 {
		c.Sampler = 1.0
	}
	if c.Batcher == "" {
		c.Batcher = "batch"
	}
}

// Validate 补全默认值后校验配置
func (c *Config) Validate() error {
	if c == nil {
		return xerrors.Wrap(ErrInvalidConfig, "config is required")
	}
	c.setDefaults()
	if c.Sampler < 0 || c.Sampler > 1 {
		return xerrors.Wrapf(ErrInvalidConfig, "sampler must be between 0 and 1, got %v", c.Sampler)
	}
	if c.Batcher != "batch" && c.Batcher != "simple" {
		return xerrors.Wrapf(ErrInvalidConfig, "batcher must be \"batch\" or \"simple\", got %q", c.Batcher)
	}
	return nil
}
