package idtype

import (
	"strconv"
	"time"
)

// CUID2 的长度范围
const (
	CUID2MinLength     = 2
	CUID2MaxLength     = 32
	CUID2DefaultLength = 24
)

func isLowerAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// CUID v1：'c' + 时间戳(8) + 计数器(4) + 指纹(4) + 随机(8)，均为 base36
func cuidCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) != 25 || s[0] != 'c' || !isLowerAlnum(s) {
				return RawID{}, false
			}
			return RawID{tag: CUID, data: s}, true
		},
		render: func(id RawID) string { return id.data },
		fields: func(id RawID) Fields {
			s := id.data
			var f Fields
			ms, _ := strconv.ParseUint(s[1:9], 36, 64)
			f.setTime(time.UnixMilli(int64(ms)), time.Millisecond)
			f.add("timestamp", ms)
			counter, _ := strconv.ParseUint(s[9:13], 36, 64)
			f.add("counter", counter)
			fingerprint, _ := strconv.ParseUint(s[13:17], 36, 64)
			f.add("fingerprint", fingerprint)
			f.RandomBits = 41
			return f
		},
	}
}

// CUID2 不透明，没有可解出的字段
func cuid2Codec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) < CUID2MinLength || len(s) > CUID2MaxLength {
				return RawID{}, false
			}
			if s[0] < 'a' || s[0] > 'z' || !isLowerAlnum(s) {
				return RawID{}, false
			}
			return RawID{tag: CUID2, data: s}, true
		},
		render: func(id RawID) string { return id.data },
		detect: func(s string) bool { return len(s) == CUID2DefaultLength },
	}
}
