package idtype

import (
	bf "github.com/ceyewan/idkit/bitfield"
)

// Descriptor 每种格式的静态描述，进程内只读
type Descriptor struct {
	Tag           Tag
	Description   string
	ByteLen       int    // 0 表示变长
	TextLen       int    // 规范文本长度，0 表示变长
	Alphabet      string // 规范文本使用的字母表（不含分隔符）
	CaseSensitive bool
	HasTimestamp  bool
	Sortable      bool
	Layout        bf.Layout // 无位结构的格式 Fields 为空
}

// Variable 报告是否为变长格式
func (d Descriptor) Variable() bool { return d.ByteLen == 0 }

// BitLen 返回定长格式的位数，变长格式为 0
func (d Descriptor) BitLen() int { return d.ByteLen * 8 }

// 字母表
const (
	alphaHex       = "0123456789abcdef"
	alphaCrockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
	alphaTypeID    = "0123456789abcdefghjkmnpqrstvwxyz"
	alphaBase62    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	alphaBase32Hex = "0123456789abcdefghijklmnopqrstuv"
	alphaBase36    = "0123456789abcdefghijklmnopqrstuvwxyz"
	alphaNanoID    = "_-0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	alphaDecimal   = "0123456789"
)

// ============================================================================
// 位结构
// ============================================================================

var (
	layoutUUIDv1 = bf.Sequential(16,
		bf.Field{Name: "time_low", Width: 32, Semantic: "timestamp bits 0-31, 100ns since 1582-10-15"},
		bf.Field{Name: "time_mid", Width: 16, Semantic: "timestamp bits 32-47"},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "time_high", Width: 12, Semantic: "timestamp bits 48-59"},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "clock_seq", Width: 14},
		bf.Field{Name: "node", Width: 48},
	)

	layoutUUIDv6 = bf.Sequential(16,
		bf.Field{Name: "time_high", Width: 32, Semantic: "timestamp bits 28-59, 100ns since 1582-10-15"},
		bf.Field{Name: "time_mid", Width: 16, Semantic: "timestamp bits 12-27"},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "time_low", Width: 12, Semantic: "timestamp bits 0-11"},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "clock_seq", Width: 14},
		bf.Field{Name: "node", Width: 48},
	)

	layoutUUIDv7 = bf.Sequential(16,
		bf.Field{Name: "unix_ms", Width: 48, Semantic: "milliseconds since Unix epoch"},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "rand_a", Width: 12, Semantic: "random"},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "rand_b", Width: 62, Semantic: "random"},
	)

	layoutUUIDRandom = bf.Sequential(16,
		bf.Field{Name: "random_a", Width: 48, Semantic: "random"},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "random_b", Width: 12, Semantic: "random"},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "random_c", Width: 62, Semantic: "random"},
	)

	layoutUUIDHash = bf.Sequential(16,
		bf.Field{Name: "hash_a", Width: 48, Semantic: "truncated digest"},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "hash_b", Width: 12, Semantic: "truncated digest"},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "hash_c", Width: 62, Semantic: "truncated digest"},
	)

	layoutUUIDAny = bf.Sequential(16,
		bf.Field{Name: "data_a", Width: 48},
		bf.Field{Name: "version", Width: 4},
		bf.Field{Name: "data_b", Width: 12},
		bf.Field{Name: "variant", Width: 2},
		bf.Field{Name: "data_c", Width: 62},
	)

	layoutUUIDConst = bf.Sequential(16,
		bf.Field{Name: "high", Width: 64, Semantic: "constant"},
		bf.Field{Name: "low", Width: 64, Semantic: "constant"},
	)

	layoutULID = bf.Sequential(16,
		bf.Field{Name: "timestamp", Width: 48, Semantic: "milliseconds since Unix epoch"},
		bf.Field{Name: "random_high", Width: 16, Semantic: "random"},
		bf.Field{Name: "random_low", Width: 64, Semantic: "random"},
	)

	layoutSnowflake = bf.Sequential(8,
		bf.Field{Name: "sign", Width: 1, Semantic: "always 0"},
		bf.Field{Name: "timestamp", Width: 41, Semantic: "milliseconds since configured epoch"},
		bf.Field{Name: "datacenter", Width: 5},
		bf.Field{Name: "worker", Width: 5},
		bf.Field{Name: "sequence", Width: 12},
	)

	layoutKSUID = bf.Sequential(20,
		bf.Field{Name: "timestamp", Width: 32, Semantic: "seconds since 2014-05-13T16:53:20Z"},
		bf.Field{Name: "payload_high", Width: 64, Semantic: "random"},
		bf.Field{Name: "payload_low", Width: 64, Semantic: "random"},
	)

	// ObjectId 与 XID 共用同一位结构
	layoutObjectID = bf.Sequential(12,
		bf.Field{Name: "timestamp", Width: 32, Semantic: "seconds since Unix epoch"},
		bf.Field{Name: "machine", Width: 24},
		bf.Field{Name: "pid", Width: 16},
		bf.Field{Name: "counter", Width: 24},
	)

	layoutTSID = bf.Sequential(8,
		bf.Field{Name: "timestamp", Width: 42, Semantic: "milliseconds since 2020-01-01T00:00:00Z"},
		bf.Field{Name: "node", Width: 10},
		bf.Field{Name: "counter", Width: 12},
	)
)

// ============================================================================
// 描述表
// ============================================================================

var descriptors = [tagCount]Descriptor{
	UUID: {
		Description: "UUID (any version)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDAny,
	},
	UUIDv1: {
		Description: "UUID v1 (timestamp + node)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		HasTimestamp: true, Layout: layoutUUIDv1,
	},
	UUIDv3: {
		Description: "UUID v3 (MD5 namespace hash)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDHash,
	},
	UUIDv4: {
		Description: "UUID v4 (random)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDRandom,
	},
	UUIDv5: {
		Description: "UUID v5 (SHA-1 namespace hash)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDHash,
	},
	UUIDv6: {
		Description: "UUID v6 (reordered timestamp)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		HasTimestamp: true, Sortable: true, Layout: layoutUUIDv6,
	},
	UUIDv7: {
		Description: "UUID v7 (Unix timestamp + random)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		HasTimestamp: true, Sortable: true, Layout: layoutUUIDv7,
	},
	UUIDNil: {
		Description: "Nil UUID (all zeros)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDConst,
	},
	UUIDMax: {
		Description: "Max UUID (all ones)", ByteLen: 16, TextLen: 36, Alphabet: alphaHex,
		Layout: layoutUUIDConst,
	},
	ULID: {
		Description: "ULID (lexicographically sortable)", ByteLen: 16, TextLen: 26, Alphabet: alphaCrockford,
		HasTimestamp: true, Sortable: true, Layout: layoutULID,
	},
	NanoID: {
		Description: "NanoID (URL-friendly random)", Alphabet: alphaNanoID, CaseSensitive: true,
	},
	KSUID: {
		Description: "KSUID (K-sortable)", ByteLen: 20, TextLen: 27, Alphabet: alphaBase62, CaseSensitive: true,
		HasTimestamp: true, Sortable: true, Layout: layoutKSUID,
	},
	Snowflake: {
		Description: "Snowflake (time + datacenter + worker + sequence)", ByteLen: 8, Alphabet: alphaDecimal,
		HasTimestamp: true, Sortable: true, Layout: layoutSnowflake,
	},
	ObjectID: {
		Description: "MongoDB ObjectId", ByteLen: 12, TextLen: 24, Alphabet: alphaHex,
		HasTimestamp: true, Layout: layoutObjectID,
	},
	TypeID: {
		Description: "TypeID (type prefix + UUIDv7)", ByteLen: 16, Alphabet: alphaTypeID, CaseSensitive: true,
		HasTimestamp: true, Sortable: true, Layout: layoutUUIDv7,
	},
	XID: {
		Description: "XID (globally unique, sortable)", ByteLen: 12, TextLen: 20, Alphabet: alphaBase32Hex, CaseSensitive: true,
		HasTimestamp: true, Sortable: true, Layout: layoutObjectID,
	},
	CUID: {
		Description: "CUID v1 (collision-resistant)", ByteLen: 25, TextLen: 25, Alphabet: alphaBase36, CaseSensitive: true,
		HasTimestamp: true,
	},
	CUID2: {
		Description: "CUID2 (hashed collision-resistant)", Alphabet: alphaBase36, CaseSensitive: true,
	},
	TSID: {
		Description: "TSID (time-sorted 64-bit)", ByteLen: 8, TextLen: 13, Alphabet: alphaCrockford,
		HasTimestamp: true, Sortable: true, Layout: layoutTSID,
	},
}

func init() {
	for t := range descriptors {
		descriptors[t].Tag = Tag(t)
	}
}

// Describe 返回格式的静态描述。返回值是副本，修改不影响全局表。
func Describe(t Tag) Descriptor {
	if !t.Valid() {
		return Descriptor{Tag: Unknown}
	}
	d := descriptors[t]
	d.Layout.Fields = append([]bf.Field(nil), d.Layout.Fields...)
	return d
}
