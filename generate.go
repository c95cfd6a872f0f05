package idkit

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idgen"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/trace"
	"github.com/ceyewan/idkit/xerrors"
)

// GenerateOptions 单次生成的参数。为 nil 的子配置使用 Toolkit 配置中的值。
type GenerateOptions struct {
	Snowflake *SnowflakeConfig // snowflake
	NanoID    *NanoIDConfig    // nanoid
	CUID2     *CUID2Config     // cuid2
	TSID      *TSIDConfig      // tsid
	TypeID    *TypeIDConfig    // typeid

	// Namespace 与 Name 用于 uuidv3 / uuidv5。
	// Namespace 取 dns、url、oid、x500 或任意 UUID 文本。
	Namespace string
	Name      string
}

// 需要按调用顺序串行生成的格式，批量生成时不做并发
var sequential = map[idtype.Tag]bool{
	idtype.Snowflake: true,
	idtype.ULID:      true,
	idtype.UUIDv1:    true,
	idtype.UUIDv6:    true,
	idtype.TSID:      true,
}

// parallelThreshold 批量生成时启用并发的最小数量
const parallelThreshold = 256

// Generatable 报告该格式是否可以生成
func Generatable(tag idtype.Tag) bool {
	return tag.Valid()
}

// Generate 生成一个 tag 格式的标识符。
//
// uuid 生成 v4；uuidv3 / uuidv5 由 Namespace 与 Name 确定性生成；
// uuid-nil / uuid-max 返回常量。有状态的生成器（Snowflake、ULID、UUID v1/v6、TSID）
// 在 Toolkit 内按参数缓存，同一参数的调用共享单调状态。
func (t *Toolkit) Generate(ctx context.Context, tag idtype.Tag, o GenerateOptions) (idtype.RawID, error) {
	ctx, span := trace.Start(ctx, t.tracer, trace.SpanGenerate, attribute.String(trace.AttrIDType, tag.String()))
	defer span.End()

	id, err := t.generate(ctx, tag, o)
	trace.MarkSpanError(span, err)
	return id, err
}

func (t *Toolkit) generate(ctx context.Context, tag idtype.Tag, o GenerateOptions) (idtype.RawID, error) {
	if err := ctx.Err(); err != nil {
		return idtype.RawID{}, err
	}
	if direct, ok, err := t.generateDirect(tag, o); ok {
		return direct, err
	}

	g, err := t.generator(tag, o)
	if err != nil {
		return idtype.RawID{}, err
	}
	id, err := g.Generate()
	if err != nil {
		t.logger.WarnContext(ctx, "generate failed", clog.String("type", tag.String()), clog.Error(err))
		return idtype.RawID{}, err
	}
	return id, nil
}

// GenerateN 批量生成 n 个标识符。
//
// 有状态的格式按顺序生成，保证结果单调；其余格式在 n 较大时并发生成。
// 任一个失败即返回错误，已生成的结果被丢弃。
func (t *Toolkit) GenerateN(ctx context.Context, tag idtype.Tag, o GenerateOptions, n int) ([]idtype.RawID, error) {
	ctx, span := trace.Start(ctx, t.tracer, trace.SpanGenerateN,
		attribute.String(trace.AttrIDType, tag.String()),
		attribute.Int(trace.AttrIDCount, n),
	)
	defer span.End()

	out, err := t.generateN(ctx, span, tag, o, n)
	trace.MarkSpanError(span, err)
	return out, err
}

func (t *Toolkit) generateN(ctx context.Context, span oteltrace.Span, tag idtype.Tag, o GenerateOptions, n int) ([]idtype.RawID, error) {
	if n <= 0 {
		return nil, xerrors.WithCode(xerrors.Wrapf(idgen.ErrInvalidInput, "count %d must be positive", n), "count_out_of_range")
	}
	start := time.Now()
	out := make([]idtype.RawID, n)

	if sequential[tag] || n < parallelThreshold {
		span.SetAttributes(attribute.String(trace.AttrIDMode, "sequential"))
		for i := range out {
			id, err := t.generate(ctx, tag, o)
			if err != nil {
				return nil, err
			}
			out[i] = id
		}
	} else {
		span.SetAttributes(attribute.String(trace.AttrIDMode, "parallel"))
		if err := t.generateParallel(ctx, tag, o, out); err != nil {
			return nil, err
		}
	}

	t.logger.DebugContext(ctx, "batch generated",
		clog.String("type", tag.String()),
		clog.Int("count", n),
		clog.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func (t *Toolkit) generateParallel(ctx context.Context, tag idtype.Tag, o GenerateOptions, out []idtype.RawID) error {
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(out) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(out); lo += chunk {
		hi := min(lo+chunk, len(out))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				id, err := t.generate(ctx, tag, o)
				if err != nil {
					return err
				}
				out[i] = id
			}
			return nil
		})
	}
	return g.Wait()
}

// generateDirect 处理不需要生成器实例的格式
func (t *Toolkit) generateDirect(tag idtype.Tag, o GenerateOptions) (idtype.RawID, bool, error) {
	switch tag {
	case idtype.UUIDNil:
		return idgen.NilUUID(), true, nil
	case idtype.UUIDMax:
		return idgen.MaxUUID(), true, nil
	case idtype.UUIDv3, idtype.UUIDv5:
		if o.Name == "" {
			err := xerrors.WithCode(xerrors.Wrapf(idgen.ErrInvalidInput, "%s requires a name", tag), "missing_name")
			return idtype.RawID{}, true, xerrors.WithHint(err, "pass a namespace (dns, url, oid, x500 or a UUID) and a name")
		}
		version := 3
		if tag == idtype.UUIDv5 {
			version = 5
		}
		id, err := idgen.NameUUID(version, o.Namespace, o.Name)
		return id, true, err
	default:
		return idtype.RawID{}, false, nil
	}
}

// ============================================================================
// 生成器缓存
// ============================================================================

// generator 返回缓存的生成器，不存在时创建。
// 有状态或无参数的生成器总是缓存；带自定义参数的无状态生成器只在使用默认参数时缓存。
func (t *Toolkit) generator(tag idtype.Tag, o GenerateOptions) (idgen.Generator, error) {
	if !Generatable(tag) {
		return nil, xerrors.Wrapf(ErrUnsupported, "generate %s", tag)
	}
	key, build, cache := t.recipe(tag, o)

	t.mu.Lock()
	defer t.mu.Unlock()
	if g, ok := t.generators[key]; ok {
		return g, nil
	}
	g, err := build()
	if err != nil {
		return nil, err
	}
	if cache {
		t.generators[key] = g
		t.logger.Debug("generator created", clog.String("type", tag.String()), clog.String("key", key))
	}
	return g, nil
}

// recipe 返回生成器的缓存键与构造函数
func (t *Toolkit) recipe(tag idtype.Tag, o GenerateOptions) (string, func() (idgen.Generator, error), bool) {
	opts := t.genOpts
	switch tag {
	case idtype.Snowflake:
		sc := t.cfg.Snowflake
		if o.Snowflake != nil {
			sc = *o.Snowflake
		}
		epoch, err := sc.epoch()
		if err != nil {
			return "", func() (idgen.Generator, error) { return nil, err }, false
		}
		key := fmt.Sprintf("snowflake/%d/%d/%d", epoch, sc.DatacenterID, sc.WorkerID)
		return key, func() (idgen.Generator, error) {
			return idgen.NewSnowflake(&idgen.SnowflakeConfig{
				Epoch:        epoch,
				WorkerID:     sc.WorkerID,
				DatacenterID: sc.DatacenterID,
			}, opts...)
		}, true

	case idtype.TSID:
		tc := t.cfg.TSID
		if o.TSID != nil {
			tc = *o.TSID
		}
		return fmt.Sprintf("tsid/%d", tc.Node), func() (idgen.Generator, error) {
			return idgen.NewTSID(&idgen.TSIDConfig{Node: tc.Node}, opts...)
		}, true

	case idtype.NanoID:
		nc := t.cfg.NanoID
		if o.NanoID != nil {
			nc = *o.NanoID
		}
		return fmt.Sprintf("nanoid/%d/%s", nc.Length, nc.Alphabet), func() (idgen.Generator, error) {
			return idgen.NewNanoID(nc.Alphabet, nc.Length, opts...)
		}, o.NanoID == nil

	case idtype.CUID2:
		cc := t.cfg.CUID2
		if o.CUID2 != nil {
			cc = *o.CUID2
		}
		return fmt.Sprintf("cuid2/%d", cc.Length), func() (idgen.Generator, error) {
			return idgen.NewCUID2(cc.Length, opts...)
		}, o.CUID2 == nil

	case idtype.TypeID:
		tc := t.cfg.TypeID
		if o.TypeID != nil {
			tc = *o.TypeID
		}
		return "typeid/" + tc.Prefix, func() (idgen.Generator, error) {
			return idgen.NewTypeID(tc.Prefix, opts...)
		}, o.TypeID == nil

	case idtype.UUID, idtype.UUIDv4:
		return "uuidv4", func() (idgen.Generator, error) { return idgen.NewUUID(4, opts...) }, true
	case idtype.UUIDv1:
		return "uuidv1", func() (idgen.Generator, error) { return idgen.NewUUID(1, opts...) }, true
	case idtype.UUIDv6:
		return "uuidv6", func() (idgen.Generator, error) { return idgen.NewUUID(6, opts...) }, true
	case idtype.UUIDv7:
		return "uuidv7", func() (idgen.Generator, error) { return idgen.NewUUID(7, opts...) }, true
	case idtype.ULID:
		return "ulid", func() (idgen.Generator, error) { return idgen.NewMonotonicULID(opts...), nil }, true
	case idtype.KSUID:
		return "ksuid", func() (idgen.Generator, error) { return idgen.NewKSUID(opts...), nil }, true
	case idtype.CUID:
		return "cuid", func() (idgen.Generator, error) { return idgen.NewCUID(opts...), nil }, true
	case idtype.ObjectID:
		return "objectid", func() (idgen.Generator, error) { return idgen.NewObjectID(opts...) }, true
	case idtype.XID:
		return "xid", func() (idgen.Generator, error) { return idgen.NewXID(opts...) }, true
	default:
		return tag.String(), func() (idgen.Generator, error) {
			return nil, xerrors.Wrapf(ErrUnsupported, "generate %s", tag)
		}, false
	}
}
