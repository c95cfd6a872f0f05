package idtype

import (
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

// Tag 标识符格式，封闭枚举
type Tag uint8

const (
	Unknown Tag = iota
	UUID        // 任意版本的 UUID
	UUIDv1
	UUIDv3
	UUIDv4
	UUIDv5
	UUIDv6
	UUIDv7
	UUIDNil
	UUIDMax
	ULID
	NanoID
	KSUID
	Snowflake
	ObjectID
	TypeID
	XID
	CUID
	CUID2
	TSID

	tagCount
)

var tagNames = [tagCount]string{
	Unknown:   "unknown",
	UUID:      "uuid",
	UUIDv1:    "uuidv1",
	UUIDv3:    "uuidv3",
	UUIDv4:    "uuidv4",
	UUIDv5:    "uuidv5",
	UUIDv6:    "uuidv6",
	UUIDv7:    "uuidv7",
	UUIDNil:   "uuid-nil",
	UUIDMax:   "uuid-max",
	ULID:      "ulid",
	NanoID:    "nanoid",
	KSUID:     "ksuid",
	Snowflake: "snowflake",
	ObjectID:  "objectid",
	TypeID:    "typeid",
	XID:       "xid",
	CUID:      "cuid",
	CUID2:     "cuid2",
	TSID:      "tsid",
}

var tagAliases = map[string]Tag{
	"uuid-v1": UUIDv1, "uuid1": UUIDv1,
	"uuid-v3": UUIDv3, "uuid3": UUIDv3,
	"uuid-v4": UUIDv4, "uuid4": UUIDv4,
	"uuid-v5": UUIDv5, "uuid5": UUIDv5,
	"uuid-v6": UUIDv6, "uuid6": UUIDv6,
	"uuid-v7": UUIDv7, "uuid7": UUIDv7,
	"uuidnil": UUIDNil, "nil": UUIDNil,
	"uuidmax": UUIDMax, "max": UUIDMax,
	"nano":    NanoID,
	"snow":    Snowflake,
	"oid":     ObjectID, "mongoid": ObjectID,
}

// ErrUnknownTag 无法识别的格式名称
var ErrUnknownTag = xerrors.Sentinel(xerrors.CodeInvalidInput, "idtype: unknown id type")

func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return "unknown"
}

// Valid 报告 t 是否为已知格式
func (t Tag) Valid() bool { return t > Unknown && t < tagCount }

// IsUUID 报告 t 是否属于 UUID 家族
func (t Tag) IsUUID() bool { return t >= UUID && t <= UUIDMax }

// MarshalText 实现 encoding.TextMarshaler，便于出现在配置与 JSON 中
func (t Tag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (t *Tag) UnmarshalText(text []byte) error {
	v, err := ParseTag(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTag 解析格式名称，不区分大小写，支持 uuid4 / oid / snow 等别名
func ParseTag(s string) (Tag, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t := UUID; t < tagCount; t++ {
		if tagNames[t] == name {
			return t, nil
		}
	}
	if t, ok := tagAliases[name]; ok {
		return t, nil
	}
	return Unknown, xerrors.Wrapf(ErrUnknownTag, "%q", s)
}

// Tags 返回全部已知格式，顺序稳定
func Tags() []Tag {
	out := make([]Tag, 0, tagCount-1)
	for t := UUID; t < tagCount; t++ {
		out = append(out, t)
	}
	return out
}
