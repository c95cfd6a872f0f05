package idtype

import (
	"strings"
	"time"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/multibase"
)

// gregorianOffset 1582-10-15 到 1970-01-01 之间的 100ns 刻度数
const gregorianOffset = 0x01B21DD213814000

var hexAlphabet = multibase.NewAlphabet(alphaHex, true)

// ============================================================================
// 文本解析与渲染
// ============================================================================

// splitUUID 解析带连字符的 36 字符形式。lenient 时额外接受 32 位无连字符的十六进制、
// {...} 包裹以及 urn:uuid: 前缀。
func splitUUID(s string, lenient bool) ([]byte, bool) {
	switch {
	case len(s) == 36:
	case lenient && len(s) == 32:
		return decodeHex(s, 16)
	case lenient && len(s) == 38 && s[0] == '{' && s[37] == '}':
		s = s[1:37]
	case lenient && len(s) == 45 && strings.EqualFold(s[:9], "urn:uuid:"):
		s = s[9:]
	default:
		return nil, false
	}
	if s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return nil, false
	}
	return decodeHex(s[0:8]+s[9:13]+s[14:18]+s[19:23]+s[24:36], 16)
}

func decodeHex(s string, size int) ([]byte, bool) {
	if len(s) != size*2 {
		return nil, false
	}
	b, err := hexAlphabet.DecodeBits(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func renderUUID(b []byte) string {
	h := hexAlphabet.EncodeBits(b)
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}

// ============================================================================
// 版本与变体
// ============================================================================

func uuidVersion(b []byte) int { return int(b[6] >> 4) }

func isRFCVariant(b []byte) bool { return b[8]&0xc0 == 0x80 }

func uuidVariant(b []byte) string {
	switch {
	case b[8]&0x80 == 0x00:
		return "NCS"
	case b[8]&0xc0 == 0x80:
		return "RFC 9562"
	case b[8]&0xe0 == 0xc0:
		return "Microsoft"
	default:
		return "Future"
	}
}

func allBytes(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

// specificUUIDTag 返回字节所属的最具体 UUID 格式，无法细化时返回 UUID
func specificUUIDTag(b []byte) Tag {
	switch {
	case allBytes(b, 0x00):
		return UUIDNil
	case allBytes(b, 0xff):
		return UUIDMax
	case !isRFCVariant(b):
		return UUID
	}
	switch uuidVersion(b) {
	case 1:
		return UUIDv1
	case 3:
		return UUIDv3
	case 4:
		return UUIDv4
	case 5:
		return UUIDv5
	case 6:
		return UUIDv6
	case 7:
		return UUIDv7
	default:
		return UUID
	}
}

// ============================================================================
// 编解码器
// ============================================================================

func uuidAnyCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			b, ok := splitUUID(s, true)
			if !ok {
				return RawID{}, false
			}
			id, err := New(specificUUIDTag(b), b)
			return id, err == nil
		},
		render: func(id RawID) string { return renderUUID(id.Bytes()) },
		fields: func(id RawID) Fields { return uuidFields(id.Bytes()) },
		// 自动检测时只接受其他 UUID 格式都不认领的规范形式，避免重复匹配
		detect: func(s string) bool {
			b, ok := splitUUID(s, false)
			return ok && specificUUIDTag(b) == UUID
		},
	}
}

func uuidVersionCodec(tag Tag) *codec {
	c := &codec{
		parse: func(s string) (RawID, bool) {
			b, ok := splitUUID(s, false)
			if !ok || specificUUIDTag(b) != tag {
				return RawID{}, false
			}
			id, err := New(tag, b)
			return id, err == nil
		},
		render: func(id RawID) string { return renderUUID(id.Bytes()) },
	}
	if tag != UUIDNil && tag != UUIDMax {
		c.fields = func(id RawID) Fields { return uuidFields(id.Bytes()) }
	}
	return c
}

// uuidFields 按实际版本解出字段，v1/v6/v7 带时间戳
func uuidFields(b []byte) Fields {
	f := Fields{Version: uuidVersion(b), Variant: uuidVariant(b)}
	if !isRFCVariant(b) {
		return f
	}
	switch f.Version {
	case 1:
		ticks := bitfield.Extract(b, layoutUUIDv1, "time_high")<<48 |
			bitfield.Extract(b, layoutUUIDv1, "time_mid")<<32 |
			bitfield.Extract(b, layoutUUIDv1, "time_low")
		f.setTime(gregorianTime(ticks), 100*time.Nanosecond)
		f.add("timestamp", ticks)
		f.add("clock_seq", bitfield.Extract(b, layoutUUIDv1, "clock_seq"))
		f.add("node", bitfield.Extract(b, layoutUUIDv1, "node"))
	case 6:
		ticks := bitfield.Extract(b, layoutUUIDv6, "time_high")<<28 |
			bitfield.Extract(b, layoutUUIDv6, "time_mid")<<12 |
			bitfield.Extract(b, layoutUUIDv6, "time_low")
		f.setTime(gregorianTime(ticks), 100*time.Nanosecond)
		f.add("timestamp", ticks)
		f.add("clock_seq", bitfield.Extract(b, layoutUUIDv6, "clock_seq"))
		f.add("node", bitfield.Extract(b, layoutUUIDv6, "node"))
	case 7:
		ms := bitfield.Extract(b, layoutUUIDv7, "unix_ms")
		f.setTime(time.UnixMilli(int64(ms)), time.Millisecond)
		f.add("timestamp", ms)
		f.add("rand_a", bitfield.Extract(b, layoutUUIDv7, "rand_a"))
		f.RandomBits = 74
	case 4:
		f.RandomBits = 122
	}
	return f
}

// gregorianTime 把 1582-10-15 起算的 100ns 刻度转换为时间
func gregorianTime(ticks uint64) time.Time {
	d := int64(ticks) - gregorianOffset
	return time.Unix(d/10_000_000, d%10_000_000*100)
}

// GregorianTicks 把时间转换为 UUID v1/v6 使用的 100ns 刻度
func GregorianTicks(t time.Time) uint64 {
	return uint64(t.UnixNano()/100 + gregorianOffset)
}
