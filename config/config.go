package config

import (
	"context"
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

// Config 加载器配置
type Config struct {
	Name      string   // 配置文件名称（不含扩展名），默认 "config"
	Paths     []string // 配置文件搜索路径，默认 [".", "./config"]
	FileType  string   // 配置文件类型 (yaml, json, etc.)，默认 yaml
	EnvPrefix string   // 环境变量前缀，默认 "IDKIT"
}

// setDefaults 设置默认值
func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{".", "./config"}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "IDKIT"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
}

func (c *Config) validate() error {
	switch c.FileType {
	case "yaml", "yml", "json", "toml":
		return nil
	default:
		return xerrors.Wrapf(ErrInvalidConfig, "unsupported file type %q", c.FileType)
	}
}

// New 创建配置加载器。
//
// 如果 cfg 为 nil，使用默认配置。
func New(cfg *Config, opts ...Option) (Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	c := *cfg
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return newLoader(&c, applyOptions(opts)), nil
}

// MustLoad 创建并加载配置，失败时 panic
func MustLoad(cfg *Config, opts ...Option) Loader {
	l, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	if err := l.Load(context.Background()); err != nil {
		panic(err)
	}
	return l
}
