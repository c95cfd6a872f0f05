package idtype

import (
	"time"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/multibase"
)

// KSUIDEpoch KSUID 时间戳的起点（Unix 秒），即 2014-05-13T16:53:20Z
const KSUIDEpoch int64 = 1_400_000_000

var base62 = multibase.NewAlphabet(alphaBase62, false)

func ksuidCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) != 27 {
				return RawID{}, false
			}
			b, err := base62.DecodeFixed(s, 20)
			if err != nil {
				return RawID{}, false
			}
			return RawID{tag: KSUID, data: string(b)}, true
		},
		render: func(id RawID) string { return base62.EncodeFixed(id.Bytes(), 27) },
		fields: func(id RawID) Fields {
			b := id.Bytes()
			var f Fields
			ts := bitfield.Extract(b, layoutKSUID, "timestamp")
			f.setTime(time.Unix(int64(ts)+KSUIDEpoch, 0), time.Second)
			f.add("timestamp", ts)
			f.RandomBits = 128
			return f
		},
	}
}
