package idkit

import (
	"context"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/config"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/metrics"
	"github.com/ceyewan/idkit/trace"
	"github.com/ceyewan/idkit/xerrors"
)

// ConfigKey LoadConfig 读取的配置节点
const ConfigKey = "idkit"

// Config 工具箱配置
//
// 典型配置（YAML）：
//
//	idkit:
//	  log:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    port: 9090
//	  trace:
//	    enabled: false
//	    endpoint: localhost:4317
//	  detect:
//	    strict: false
//	  snowflake:
//	    epoch_name: twitter
//	    worker_id: 3
//	    datacenter_id: 1
//	  nanoid:
//	    length: 21
//	  tsid:
//	    node: 7
type Config struct {
	Log       clog.Config     `yaml:"log" json:"log" mapstructure:"log"`
	Metrics   metrics.Config  `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
	Trace     trace.Config    `yaml:"trace" json:"trace" mapstructure:"trace"`
	Detect    DetectConfig    `yaml:"detect" json:"detect" mapstructure:"detect"`
	Snowflake SnowflakeConfig `yaml:"snowflake" json:"snowflake" mapstructure:"snowflake"`
	NanoID    NanoIDConfig    `yaml:"nanoid" json:"nanoid" mapstructure:"nanoid"`
	CUID2     CUID2Config     `yaml:"cuid2" json:"cuid2" mapstructure:"cuid2"`
	TSID      TSIDConfig      `yaml:"tsid" json:"tsid" mapstructure:"tsid"`
	TypeID    TypeIDConfig    `yaml:"typeid" json:"typeid" mapstructure:"typeid"`
}

// DetectConfig 检测配置
type DetectConfig struct {
	// Strict 要求输入与规范形式完全一致
	Strict bool `yaml:"strict" json:"strict" mapstructure:"strict"`
}

// SnowflakeConfig Snowflake 配置。EpochName 非空时优先于 Epoch。
type SnowflakeConfig struct {
	Epoch        int64  `yaml:"epoch" json:"epoch" mapstructure:"epoch"`                // Unix 毫秒
	EpochName    string `yaml:"epoch_name" json:"epoch_name" mapstructure:"epoch_name"` // unix | twitter | discord
	WorkerID     int64  `yaml:"worker_id" json:"worker_id" mapstructure:"worker_id"`
	DatacenterID int64  `yaml:"datacenter_id" json:"datacenter_id" mapstructure:"datacenter_id"`
}

// NanoIDConfig NanoID 配置
type NanoIDConfig struct {
	Alphabet string `yaml:"alphabet" json:"alphabet" mapstructure:"alphabet"`
	Length   int    `yaml:"length" json:"length" mapstructure:"length"`
}

// CUID2Config CUID2 配置
type CUID2Config struct {
	Length int `yaml:"length" json:"length" mapstructure:"length"`
}

// TSIDConfig TSID 配置
type TSIDConfig struct {
	Node int64 `yaml:"node" json:"node" mapstructure:"node"`
}

// TypeIDConfig TypeID 配置
type TypeIDConfig struct {
	Prefix string `yaml:"prefix" json:"prefix" mapstructure:"prefix"`
}

// NewDefaultConfig 返回默认配置：info 级别日志，不启用指标
func NewDefaultConfig() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "idkit"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.NanoID.Alphabet == "" {
		c.NanoID.Alphabet = idtype.DefaultNanoIDAlphabet
	}
	if c.NanoID.Length == 0 {
		c.NanoID.Length = idtype.NanoIDDefaultLength
	}
	if c.CUID2.Length == 0 {
		c.CUID2.Length = idtype.CUID2DefaultLength
	}
}

func (c *Config) validate() error {
	if err := c.Trace.Validate(); err != nil {
		return err
	}
	if err := c.Snowflake.validate(); err != nil {
		return err
	}
	if n := c.NanoID.Length; n < idtype.NanoIDMinLength || n > idtype.NanoIDMaxLength {
		return xerrors.Wrapf(ErrInvalidConfig, "nanoid.length %d not in [%d, %d]", n, idtype.NanoIDMinLength, idtype.NanoIDMaxLength)
	}
	if n := c.CUID2.Length; n < idtype.CUID2MinLength || n > idtype.CUID2MaxLength {
		return xerrors.Wrapf(ErrInvalidConfig, "cuid2.length %d not in [%d, %d]", n, idtype.CUID2MinLength, idtype.CUID2MaxLength)
	}
	if err := checkField(idtype.TSID, "node", c.TSID.Node); err != nil {
		return xerrors.Wrap(err, "tsid")
	}
	if c.TypeID.Prefix != "" {
		if _, err := idtype.NewTypeID(c.TypeID.Prefix, make([]byte, 16)); err != nil {
			return xerrors.Wrapf(ErrInvalidConfig, "typeid.prefix %q", c.TypeID.Prefix)
		}
	}
	return nil
}

func (c SnowflakeConfig) validate() error {
	epoch, err := c.epoch()
	if err != nil {
		return err
	}
	if epoch < 0 {
		return xerrors.Wrapf(ErrInvalidConfig, "snowflake.epoch %d is negative", epoch)
	}
	if err := checkField(idtype.Snowflake, "worker", c.WorkerID); err != nil {
		return xerrors.Wrap(err, "snowflake")
	}
	if err := checkField(idtype.Snowflake, "datacenter", c.DatacenterID); err != nil {
		return xerrors.Wrap(err, "snowflake")
	}
	return nil
}

// epoch 解析纪元，EpochName 优先
func (c SnowflakeConfig) epoch() (int64, error) {
	if c.EpochName == "" {
		return c.Epoch, nil
	}
	ms, ok := idtype.LookupEpoch(c.EpochName)
	if !ok {
		return 0, xerrors.Wrapf(ErrInvalidConfig, "unknown snowflake epoch %q, want unix, twitter or discord", c.EpochName)
	}
	return ms, nil
}

// checkField 按位结构检查字段取值范围
func checkField(tag idtype.Tag, name string, v int64) error {
	f, ok := idtype.Describe(tag).Layout.Field(name)
	if !ok {
		return xerrors.Wrapf(ErrInvalidConfig, "%s has no field %s", tag, name)
	}
	if v < 0 || uint64(v) > f.Max() {
		return xerrors.Wrapf(ErrInvalidConfig, "%s %d not in [0, %d]", name, v, f.Max())
	}
	return nil
}

// LoadConfig 通过 loader 加载并读取 "idkit" 节点，补全默认值后校验
func LoadConfig(ctx context.Context, loader config.Loader) (*Config, error) {
	if err := loader.Load(ctx); err != nil {
		return nil, xerrors.Wrap(err, "idkit: load config")
	}
	cfg := &Config{}
	if err := loader.UnmarshalKey(ConfigKey, cfg); err != nil {
		return nil, xerrors.Wrap(err, "idkit: decode config")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
