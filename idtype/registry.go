// Package idtype 是标识符格式的编解码注册表。
//
// 每种格式（Tag）对应一组函数：从文本解析出 RawID、把 RawID 渲染为规范文本、
// 解出时间戳等字段。格式集合是封闭的，新增格式只需要扩展注册表，而不是派生类型。
//
// 基本使用：
//
//	reg := idtype.NewRegistry(idtype.WithSnowflakeEpoch(idtype.EpochTwitter))
//	id, ok := reg.Parse(idtype.ULID, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
//	if ok {
//	    fields, _ := reg.Fields(id)
//	    fmt.Println(reg.Canonical(id), fields.Time)
//	}
//
// Parse 永不返回错误，结构不符时返回 false；Registry 构造后只读，可并发使用。
package idtype

import (
	"strings"
)

// codec 单个格式的编解码函数表
type codec struct {
	parse  func(s string) (RawID, bool)
	render func(id RawID) string
	fields func(id RawID) Fields // nil 表示该格式没有可解出的字段
	detect func(s string) bool   // 自动检测时的附加条件，nil 表示总是参与
}

// Registry 格式注册表
type Registry struct {
	codecs         [tagCount]*codec
	snowflakeEpoch int64
}

// RegistryOption 注册表选项
type RegistryOption func(*Registry)

// WithSnowflakeEpoch 设置解析 Snowflake 时间戳所用的纪元（Unix 毫秒），默认为 0
func WithSnowflakeEpoch(ms int64) RegistryOption {
	return func(r *Registry) {
		r.snowflakeEpoch = ms
	}
}

// NewRegistry 创建包含全部格式的注册表
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}

	r.codecs[UUID] = uuidAnyCodec()
	for _, t := range []Tag{UUIDv1, UUIDv3, UUIDv4, UUIDv5, UUIDv6, UUIDv7, UUIDNil, UUIDMax} {
		r.codecs[t] = uuidVersionCodec(t)
	}
	r.codecs[ULID] = ulidCodec()
	r.codecs[NanoID] = nanoIDCodec()
	r.codecs[KSUID] = ksuidCodec()
	r.codecs[Snowflake] = snowflakeCodec(r.snowflakeEpoch)
	r.codecs[ObjectID] = objectIDCodec()
	r.codecs[TypeID] = typeIDCodec()
	r.codecs[XID] = xidCodec()
	r.codecs[CUID] = cuidCodec()
	r.codecs[CUID2] = cuid2Codec()
	r.codecs[TSID] = tsidCodec()
	return r
}

// SnowflakeEpoch 返回 Snowflake 纪元（Unix 毫秒）
func (r *Registry) SnowflakeEpoch() int64 { return r.snowflakeEpoch }

// Parse 按指定格式解析文本，只做语法与结构检查（长度、字母表、版本/变体位）。
// 首尾空白会被忽略。通用 uuid 解析成功时会细化为具体版本的 Tag。
func (r *Registry) Parse(tag Tag, text string) (RawID, bool) {
	c := r.codec(tag)
	if c == nil {
		return RawID{}, false
	}
	return c.parse(strings.TrimSpace(text))
}

// Candidate 报告在自动检测中是否应尝试该格式
func (r *Registry) Candidate(tag Tag, text string) bool {
	c := r.codec(tag)
	if c == nil {
		return false
	}
	return c.detect == nil || c.detect(strings.TrimSpace(text))
}

// Canonical 渲染规范文本
func (r *Registry) Canonical(id RawID) string {
	c := r.codec(id.Tag())
	if c == nil {
		return ""
	}
	return c.render(id)
}

// Fields 解出时间戳、版本等字段，格式没有字段时返回 false
func (r *Registry) Fields(id RawID) (Fields, bool) {
	c := r.codec(id.Tag())
	if c == nil || c.fields == nil {
		return Fields{}, false
	}
	return c.fields(id), true
}

// DetectionOrder 返回自动检测的优先级顺序：结构更具体的格式在前。
//
// 固定长度且带分隔符或版本位的 UUID 最先尝试，其次是带前缀的 TypeID、
// 固定长度的 Crockford/base62/hex/base32hex 格式，最后是 Snowflake 的十进制
// 与 NanoID 这类宽松的字母表。所有匹配都会被收集，多个匹配视为歧义。
func (r *Registry) DetectionOrder() []Tag {
	return []Tag{
		UUIDNil, UUIDMax, UUIDv1, UUIDv3, UUIDv4, UUIDv5, UUIDv6, UUIDv7, UUID,
		TypeID, ULID, KSUID, ObjectID, XID, CUID, CUID2, TSID, Snowflake, NanoID,
	}
}

func (r *Registry) codec(tag Tag) *codec {
	if !tag.Valid() {
		return nil
	}
	return r.codecs[tag]
}

// 使用默认选项的共享注册表
var defaultRegistry = NewRegistry()

// Default 返回默认注册表（Snowflake 纪元为 0）
func Default() *Registry { return defaultRegistry }
