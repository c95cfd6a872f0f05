package idtype

import (
	"time"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/multibase"
)

// XID 使用小写 base32hex，不区分大小写会与其他格式冲突
var base32hex = multibase.NewAlphabet(alphaBase32Hex, false)

// objectFields ObjectId 与 XID 共用的字段解码
func objectFields(id RawID) Fields {
	b := id.Bytes()
	var f Fields
	ts := bitfield.Extract(b, layoutObjectID, "timestamp")
	f.setTime(time.Unix(int64(ts), 0), time.Second)
	f.add("timestamp", ts)
	f.add("machine", bitfield.Extract(b, layoutObjectID, "machine"))
	f.add("pid", bitfield.Extract(b, layoutObjectID, "pid"))
	f.add("counter", bitfield.Extract(b, layoutObjectID, "counter"))
	return f
}

func objectIDCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			b, ok := decodeHex(s, 12)
			if !ok {
				return RawID{}, false
			}
			return RawID{tag: ObjectID, data: string(b)}, true
		},
		render: func(id RawID) string { return hexAlphabet.EncodeBits(id.Bytes()) },
		fields: objectFields,
	}
}

// XID 的 20 个字符承载 100 位，末尾 4 位必须为零
func xidCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) != 20 {
				return RawID{}, false
			}
			b, err := base32hex.DecodeBits(s)
			if err != nil || len(b) != 12 {
				return RawID{}, false
			}
			return RawID{tag: XID, data: string(b)}, true
		},
		render: func(id RawID) string { return base32hex.EncodeBits(id.Bytes()) },
		fields: objectFields,
	}
}
