// Package idkit 是标识符工具箱的统一入口：识别、编码、解码字段、生成与比较。
//
// Toolkit 持有一个注册表、一个检测器以及按参数缓存的生成器，不存在进程级单例：
//
//	kit, err := idkit.New(&idkit.Config{
//	    Snowflake: idkit.SnowflakeConfig{EpochName: "twitter", WorkerID: 3},
//	})
//	if err != nil {
//	    return err
//	}
//	defer kit.Close(ctx)
//
//	res, err := kit.Detect("01ARZ3NDEKTSV4RRFFQ69G5FAV")
//	hex, err := kit.Encode(res.Raw, multibase.Hex, multibase.CaseAsIs)
//
//	id, err := kit.Generate(ctx, idtype.Snowflake, idkit.GenerateOptions{})
//	fmt.Println(kit.Canonical(id))
//
// 配置也可以通过 config 包从文件与环境变量加载：
//
//	loader, _ := config.New(&config.Config{Name: "idkit"})
//	cfg, err := idkit.LoadConfig(ctx, loader)
package idkit

import (
	"context"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/compare"
	"github.com/ceyewan/idkit/detect"
	"github.com/ceyewan/idkit/idgen"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/metrics"
	"github.com/ceyewan/idkit/multibase"
	"github.com/ceyewan/idkit/trace"
	"github.com/ceyewan/idkit/xerrors"
)

// Toolkit 工具箱实例，可并发使用
type Toolkit struct {
	cfg      Config
	reg      *idtype.Registry
	detector *detect.Detector
	logger   clog.Logger

	meter     metrics.Meter
	ownsMeter bool
	tracer    oteltrace.Tracer
	tp        *sdktrace.TracerProvider // 自己创建的 Provider，Close 时关闭
	genOpts   []idgen.Option

	mu         sync.Mutex
	generators map[string]idgen.Generator
}

// New 创建工具箱。cfg 为 nil 时使用默认配置。
func New(cfg *Config, opts ...Option) (*Toolkit, error) {
	c := Config{}
	if cfg != nil {
		c = *cfg
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logCfg := c.Log
		l, err := clog.New(&logCfg)
		if err != nil {
			return nil, xerrors.Wrap(err, "idkit: create logger")
		}
		logger = l
	}

	t := &Toolkit{
		cfg:        c,
		logger:     logger.WithNamespace("idkit"),
		meter:      o.meter,
		generators: make(map[string]idgen.Generator),
	}

	if t.meter == nil {
		metricsCfg := c.Metrics
		m, err := metrics.New(&metricsCfg, metrics.WithLogger(logger))
		if err != nil {
			return nil, xerrors.Wrap(err, "idkit: create meter")
		}
		t.meter = m
		t.ownsMeter = true
	}

	switch {
	case o.tracerProvider != nil:
		t.tracer = trace.Tracer(o.tracerProvider)
	case c.Trace.Enabled:
		traceCfg := c.Trace
		tp, err := trace.Init(context.Background(), &traceCfg)
		if err != nil {
			_ = t.Close(context.Background())
			return nil, xerrors.Wrap(err, "idkit: create tracer provider")
		}
		t.tp = tp
		t.tracer = trace.Tracer(tp)
	default:
		t.tracer = trace.Tracer(nil)
	}

	epoch, _ := c.Snowflake.epoch()
	t.reg = idtype.NewRegistry(idtype.WithSnowflakeEpoch(epoch))
	t.detector = detect.New(
		detect.WithRegistry(t.reg),
		detect.WithStrictMode(c.Detect.Strict),
		detect.WithLogger(logger),
	)

	t.genOpts = []idgen.Option{idgen.WithLogger(logger), idgen.WithMeter(t.meter)}
	if o.clock != nil {
		t.genOpts = append(t.genOpts, idgen.WithClock(o.clock))
	}
	if o.entropy != nil {
		t.genOpts = append(t.genOpts, idgen.WithEntropy(o.entropy))
	}

	t.logger.Debug("toolkit created",
		clog.Int64("snowflake_epoch", epoch),
		clog.Bool("strict", c.Detect.Strict),
		clog.Bool("metrics", c.Metrics.Enabled),
		clog.Bool("trace", t.tp != nil),
	)
	return t, nil
}

// Must 类似 New，但出错时 panic
func Must(cfg *Config, opts ...Option) *Toolkit {
	return xerrors.Must(New(cfg, opts...))
}

// Close 关闭 Toolkit 自己创建的 Meter 与 TracerProvider，外部注入的不受影响
func (t *Toolkit) Close(ctx context.Context) error {
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.ownsMeter {
		errs = append(errs, t.meter.Shutdown(ctx))
	}
	return xerrors.Combine(errs...)
}

// Registry 返回 Toolkit 使用的注册表（Snowflake 纪元来自配置）
func (t *Toolkit) Registry() *idtype.Registry { return t.reg }

// Meter 返回 Toolkit 使用的 Meter
func (t *Toolkit) Meter() metrics.Meter { return t.meter }

// ============================================================================
// 识别与解码
// ============================================================================

// Detect 识别 text 的格式，见 detect.Detector.Detect
func (t *Toolkit) Detect(text string, opts ...detect.DetectOption) (detect.Result, error) {
	return t.detector.Detect(text, opts...)
}

// DecodeFields 解出时间戳、版本等字段，格式没有字段时返回 false
func (t *Toolkit) DecodeFields(raw idtype.RawID) (idtype.Fields, bool) {
	return t.reg.Fields(raw)
}

// Canonical 渲染规范文本
func (t *Toolkit) Canonical(raw idtype.RawID) string {
	return t.reg.Canonical(raw)
}

// Compare 比较两个标识符，见 compare.Compare
func (t *Toolkit) Compare(a, b idtype.RawID) compare.Result {
	return compare.Compare(t.reg, a, b)
}

// ============================================================================
// 格式元数据
// ============================================================================

// TypeInfo 格式的静态信息
type TypeInfo struct {
	Tag          idtype.Tag `json:"type"`
	Description  string     `json:"description"`
	HasTimestamp bool       `json:"has_timestamp"`
	Sortable     bool       `json:"sortable"`
	BitLength    int        `json:"bit_length,omitempty"` // 变长格式为 0
	Generatable  bool       `json:"generatable"`
}

// Types 返回全部格式的信息，顺序与 idtype.Tags 一致
func Types() []TypeInfo {
	tags := idtype.Tags()
	out := make([]TypeInfo, 0, len(tags))
	for _, tag := range tags {
		d := idtype.Describe(tag)
		out = append(out, TypeInfo{
			Tag:          tag,
			Description:  d.Description,
			HasTimestamp: d.HasTimestamp,
			Sortable:     d.Sortable,
			BitLength:    d.BitLen(),
			Generatable:  Generatable(tag),
		})
	}
	return out
}

// ============================================================================
// 编码
// ============================================================================

// EncodingCanonical 表示格式自身的规范文本，只在 Toolkit 层面有意义
const EncodingCanonical multibase.Encoding = "canonical"

// ParseEncoding 解析编码名称，在 multibase.ParseEncoding 基础上支持 "canonical"
func ParseEncoding(name string) (multibase.Encoding, error) {
	if name == string(EncodingCanonical) {
		return EncodingCanonical, nil
	}
	return multibase.ParseEncoding(name)
}

// Encode 把标识符的字节编码为 enc 指定的文本，再按 c 做大小写变换。
// enc 为 EncodingCanonical 时输出规范文本；大小写敏感格式的规范文本拒绝大小写变换。
func (t *Toolkit) Encode(raw idtype.RawID, enc multibase.Encoding, c multibase.Case) (string, error) {
	if raw.IsZero() {
		return "", xerrors.Wrap(multibase.ErrEncode, "empty id")
	}
	if enc == EncodingCanonical {
		return t.encodeCanonical(raw, c)
	}
	s, err := multibase.Encode(enc, raw.Bytes())
	if err != nil {
		return "", err
	}
	return multibase.ApplyCase(enc, s, c)
}

func (t *Toolkit) encodeCanonical(raw idtype.RawID, c multibase.Case) (string, error) {
	s := t.reg.Canonical(raw)
	if c == multibase.CaseAsIs {
		return s, nil
	}
	if idtype.Describe(raw.Tag()).CaseSensitive {
		return "", xerrors.Wrapf(multibase.ErrCaseUnsafe, "%s canonical form", raw.Tag())
	}
	// 大小写不敏感的规范文本复用 hex 的变换规则
	return multibase.ApplyCase(multibase.Hex, s, c)
}
