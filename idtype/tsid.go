package idtype

import (
	"time"

	"github.com/ceyewan/idkit/bitfield"
)

// TSIDEpoch TSID 时间戳的起点（Unix 毫秒），即 2020-01-01T00:00:00Z
const TSIDEpoch int64 = 1577836800000

// TSID 指定类型解码时按 Crockford 规则容忍 O→0、I/L→1；
// 自动识别只认标准字母表，避免普通单词被误判为 TSID。
var tsidAlphabet = crockford.
	Alias('O', '0').Alias('o', '0').
	Alias('I', '1').Alias('i', '1').
	Alias('L', '1').Alias('l', '1')

func tsidCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) != 13 {
				return RawID{}, false
			}
			// 13 个字符共 65 位，首字符最大为 F
			b, err := tsidAlphabet.DecodeFixed(s, 8)
			if err != nil {
				return RawID{}, false
			}
			return RawID{tag: TSID, data: string(b)}, true
		},
		render: func(id RawID) string { return crockford.EncodeFixed(id.Bytes(), 13) },
		fields: func(id RawID) Fields {
			b := id.Bytes()
			var f Fields
			ts := bitfield.Extract(b, layoutTSID, "timestamp")
			f.setTime(time.UnixMilli(int64(ts)+TSIDEpoch), time.Millisecond)
			f.add("timestamp", ts)
			f.add("node", bitfield.Extract(b, layoutTSID, "node"))
			f.add("counter", bitfield.Extract(b, layoutTSID, "counter"))
			return f
		},
		detect: func(s string) bool { return len(s) == 13 && crockford.Contains(s) },
	}
}
