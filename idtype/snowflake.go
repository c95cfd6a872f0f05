package idtype

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/ceyewan/idkit/bitfield"
)

// 常用的 Snowflake 纪元（Unix 毫秒）
const (
	EpochUnix    int64 = 0
	EpochTwitter int64 = 1288834974657 // 2010-11-04T01:42:54.657Z
	EpochDiscord int64 = 1420070400000 // 2015-01-01T00:00:00Z
)

// 按名称查找纪元，名称不区分大小写
var namedEpochs = map[string]int64{
	"unix":    EpochUnix,
	"twitter": EpochTwitter,
	"discord": EpochDiscord,
}

// LookupEpoch 按名称查找 Snowflake 纪元
func LookupEpoch(name string) (int64, bool) {
	ms, ok := namedEpochs[lowerASCII(name)]
	return ms, ok
}

func snowflakeCodec(epoch int64) *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) == 0 || len(s) > 19 {
				return RawID{}, false
			}
			v, err := strconv.ParseUint(s, 10, 63)
			if err != nil {
				return RawID{}, false
			}
			var b [8]byte
			binary.BigEndian.PutUint64(b[:], v)
			return RawID{tag: Snowflake, data: string(b[:])}, true
		},
		render: func(id RawID) string {
			return strconv.FormatUint(binary.BigEndian.Uint64(id.Bytes()), 10)
		},
		fields: func(id RawID) Fields {
			b := id.Bytes()
			var f Fields
			ts := bitfield.Extract(b, layoutSnowflake, "timestamp")
			f.setTime(time.UnixMilli(int64(ts)+epoch), time.Millisecond)
			f.add("timestamp", ts)
			f.add("datacenter", bitfield.Extract(b, layoutSnowflake, "datacenter"))
			f.add("worker", bitfield.Extract(b, layoutSnowflake, "worker"))
			f.add("sequence", bitfield.Extract(b, layoutSnowflake, "sequence"))
			return f
		},
		// 15 到 19 位的十进制才参与自动检测，更短的数字几乎总是普通整数
		detect: func(s string) bool { return len(s) >= 15 && len(s) <= 19 },
	}
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
