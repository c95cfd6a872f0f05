package idtype

import (
	"github.com/ceyewan/idkit/multibase"
)

// NanoID 的长度范围
const (
	NanoIDMinLength     = 2
	NanoIDMaxLength     = 255
	NanoIDDefaultLength = 21
)

// DefaultNanoIDAlphabet NanoID 默认的 URL 安全字母表
const DefaultNanoIDAlphabet = alphaNanoID

var nanoIDAlphabet = multibase.NewAlphabet(alphaNanoID, false)

// IsNanoIDChar 报告 c 能否出现在 NanoID 中：可打印且非空白的 ASCII 字符。
// 自定义字母表只能由这些字符组成。
func IsNanoIDChar(c byte) bool { return c > ' ' && c < 0x7f }

// NanoID 的字节就是文本本身，每个字符承载 6 位随机。
// 指定类型解析时接受任意自定义字母表生成的文本，自动识别只认默认字母表与默认长度。
func nanoIDCodec() *codec {
	return &codec{
		parse: func(s string) (RawID, bool) {
			if len(s) < NanoIDMinLength || len(s) > NanoIDMaxLength {
				return RawID{}, false
			}
			for i := 0; i < len(s); i++ {
				if !IsNanoIDChar(s[i]) {
					return RawID{}, false
				}
			}
			return RawID{tag: NanoID, data: s}, true
		},
		render: func(id RawID) string { return id.data },
		fields: func(id RawID) Fields {
			return Fields{RandomBits: len(id.data) * 6}
		},
		detect: func(s string) bool {
			return len(s) == NanoIDDefaultLength && nanoIDAlphabet.Contains(s)
		},
	}
}
