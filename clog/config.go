package clog

import (
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config 日志配置
//
//	Level:  debug|info|warn|error
//	Format: json|console
//	Output: stdout|stderr|文件路径
type Config struct {
	Level      string `json:"level" yaml:"level" mapstructure:"level"`
	Format     string `json:"format" yaml:"format" mapstructure:"format"`
	Output     string `json:"output" yaml:"output" mapstructure:"output"`
	AddSource  bool   `json:"addSource" yaml:"addSource" mapstructure:"addSource"`
	SourceRoot string `json:"sourceRoot" yaml:"sourceRoot" mapstructure:"sourceRoot"` // 裁剪 caller 路径的前缀
}

// NewDefaultConfig 返回 info 级别、console 格式、输出到 stderr 的配置
func NewDefaultConfig() *Config {
	return &Config{Level: "info", Format: "console", Output: "stderr"}
}

// validate 补全默认值并检查取值
func (c *Config) validate() error {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	if _, err := ParseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Format) {
	case "json", "console":
		return nil
	default:
		return xerrors.Wrapf(ErrInvalidConfig, "format %q, must be json or console", c.Format)
	}
}
