package idtype

import (
	"strings"

	"github.com/ceyewan/idkit/multibase"
)

const maxTypePrefix = 63

// TypeID 后缀只接受小写 Crockford
var typeIDAlphabet = multibase.NewAlphabet(alphaTypeID, false)

// validTypePrefix 前缀为 1 到 63 个 [a-z_]，首尾必须是字母
func validTypePrefix(p string) bool {
	if len(p) == 0 || len(p) > maxTypePrefix {
		return false
	}
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c != '_' && (c < 'a' || c > 'z') {
			return false
		}
	}
	return p[0] != '_' && p[len(p)-1] != '_'
}

// splitTypeID 在最后一个下划线处拆分前缀与后缀，没有下划线时前缀为空
func splitTypeID(s string) (prefix, suffix string, ok bool) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return "", s, true
	}
	prefix, suffix = s[:i], s[i+1:]
	return prefix, suffix, validTypePrefix(prefix)
}

func typeIDCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			prefix, suffix, ok := splitTypeID(s)
			if !ok {
				return RawID{}, false
			}
			b, ok := parseCrockford128(typeIDAlphabet, suffix)
			if !ok {
				return RawID{}, false
			}
			return RawID{tag: TypeID, data: string(b), prefix: prefix}, true
		},
		render: func(id RawID) string {
			suffix := typeIDAlphabet.EncodeFixed(id.Bytes(), 26)
			if id.Prefix() == "" {
				return suffix
			}
			return id.Prefix() + "_" + suffix
		},
		fields: func(id RawID) Fields { return uuidFields(id.Bytes()) },
		// 没有前缀的 TypeID 与小写 ULID 无法区分，只在带前缀时参与自动检测
		detect: func(s string) bool { return strings.IndexByte(s, '_') > 0 },
	}
}
