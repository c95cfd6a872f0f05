package idtype

import (
	"github.com/ceyewan/idkit/xerrors"
)

var (
	// ErrLength 字节长度与格式不符
	ErrLength = xerrors.Sentinel(xerrors.CodeInvalidInput, "idtype: byte length does not match id type")

	// ErrPrefix TypeID 前缀不合法
	ErrPrefix = xerrors.Sentinel(xerrors.CodeInvalidInput, "idtype: invalid typeid prefix")
)

// RawID 解析或生成得到的标识符：格式 + 字节表示。
//
// RawID 不可变，可以作为 map 键并用 == 比较。定长格式的字节数由 Descriptor
// 规定（UUID/ULID/TypeID 16，Snowflake/TSID 8，ObjectId/XID 12，KSUID 20，CUID 25）；
// NanoID、CUID2 的字节就是文本本身。TypeID 额外携带类型前缀。
type RawID struct {
	tag    Tag
	data   string
	prefix string
}

// New 创建 RawID，校验字节长度
func New(tag Tag, b []byte) (RawID, error) {
	if !tag.Valid() {
		return RawID{}, xerrors.Wrapf(ErrUnknownTag, "tag %d", tag)
	}
	d := Describe(tag)
	if d.ByteLen > 0 && len(b) != d.ByteLen {
		return RawID{}, xerrors.Wrapf(ErrLength, "%s needs %d bytes, got %d", tag, d.ByteLen, len(b))
	}
	if len(b) == 0 {
		return RawID{}, xerrors.Wrapf(ErrLength, "%s: empty", tag)
	}
	return RawID{tag: tag, data: string(b)}, nil
}

// NewTypeID 创建带类型前缀的 TypeID，前缀可以为空
func NewTypeID(prefix string, b []byte) (RawID, error) {
	if prefix != "" && !validTypePrefix(prefix) {
		return RawID{}, xerrors.Wrapf(ErrPrefix, "%q", prefix)
	}
	id, err := New(TypeID, b)
	if err != nil {
		return RawID{}, err
	}
	id.prefix = prefix
	return id, nil
}

// MustNew 与 New 相同，出错时 panic
func MustNew(tag Tag, b []byte) RawID {
	return xerrors.Must(New(tag, b))
}

// Tag 返回格式
func (r RawID) Tag() Tag { return r.tag }

// Bytes 返回字节表示的副本
func (r RawID) Bytes() []byte { return []byte(r.data) }

// Len 返回字节长度
func (r RawID) Len() int { return len(r.data) }

// Prefix 返回 TypeID 的类型前缀，其他格式为空
func (r RawID) Prefix() string { return r.prefix }

// IsZero 报告是否为零值
func (r RawID) IsZero() bool { return r.tag == Unknown }

// WithTag 以相同字节创建另一格式的 RawID，例如把 uuidv7 视为 typeid
func (r RawID) WithTag(tag Tag) (RawID, error) {
	return New(tag, []byte(r.data))
}
