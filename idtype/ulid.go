package idtype

import (
	"time"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/multibase"
)

// crockford 解码忽略大小写；ULID 不接受 O/I/L 别名，TSID 接受
var crockford = multibase.NewAlphabet(alphaCrockford, true)

// parseCrockford128 解析 26 字符、128 位的 Crockford 文本，首字符最大为 7
func parseCrockford128(a *multibase.Alphabet, s string) ([]byte, bool) {
	if len(s) != 26 {
		return nil, false
	}
	b, err := a.DecodeFixed(s, 16)
	if err != nil {
		return nil, false
	}
	return b, true
}

func ulidCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			b, ok := parseCrockford128(crockford, s)
			if !ok {
				return RawID{}, false
			}
			return RawID{tag: ULID, data: string(b)}, true
		},
		render: func(id RawID) string { return crockford.EncodeFixed(id.Bytes(), 26) },
		fields: func(id RawID) Fields {
			b := id.Bytes()
			var f Fields
			ms := bitfield.Extract(b, layoutULID, "timestamp")
			f.setTime(time.UnixMilli(int64(ms)), time.Millisecond)
			f.add("timestamp", ms)
			f.RandomBits = 80
			return f
		},
	}
}
