// Package multibase 在字节序列与通用文本编码之间双向转换。
//
// 支持的编码：
//
//	hex        小写十六进制，解码不区分大小写
//	hex-upper  大写十六进制
//	base32     RFC 4648 字母表 A-Z2-7，无填充，解码不区分大小写
//	base32hex  RFC 4648 扩展十六进制字母表 0-9A-V，无填充
//	base36     0-9a-z 整数编码
//	base58     Bitcoin 字母表，保留前导零字节
//	base64     标准字母表，带 = 填充
//	base64url  URL 安全字母表，无填充
//	bits       每位一个 0/1 字符，高位在前
//	int        无符号大端整数的十进制表示
//	bytes      空格分隔的两位小写十六进制
//
// 所有函数都是纯函数，可并发调用。
package multibase

import (
	"strings"

	"github.com/ceyewan/idkit/xerrors"
)

var (
	// ErrEncode 编码失败
	ErrEncode = xerrors.Sentinel(xerrors.CodeEncode, "multibase: encode failed")

	// ErrDecode 解码失败：非法字符、长度错误或整数溢出
	ErrDecode = xerrors.Sentinel(xerrors.CodeDecode, "multibase: decode failed")

	// ErrCaseUnsafe 对大小写敏感的字母表做大小写变换
	ErrCaseUnsafe = xerrors.Sentinel(xerrors.CodeEncode, "multibase: case transform would corrupt a case-sensitive alphabet")

	// ErrUnknownEncoding 未知的编码名称
	ErrUnknownEncoding = xerrors.Sentinel(xerrors.CodeInvalidInput, "multibase: unknown encoding")
)

// Encoding 编码名称
type Encoding string

const (
	Hex       Encoding = "hex"
	HexUpper  Encoding = "hex-upper"
	Base32    Encoding = "base32"
	Base32Hex Encoding = "base32hex"
	Base36    Encoding = "base36"
	Base58    Encoding = "base58"
	Base64    Encoding = "base64"
	Base64URL Encoding = "base64url"
	Bits      Encoding = "bits"
	Int       Encoding = "int"
	Bytes     Encoding = "bytes"
)

var (
	hexLower   = NewAlphabet("0123456789abcdef", true)
	hexUpper   = NewAlphabet("0123456789ABCDEF", true)
	base32Std  = NewAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", true)
	base32Ext  = NewAlphabet("0123456789ABCDEFGHIJKLMNOPQRSTUV", true)
	base36Low  = NewAlphabet("0123456789abcdefghijklmnopqrstuvwxyz", true)
	base58BTC  = NewAlphabet("123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz", false)
	base64Std  = NewAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/", false)
	base64URL  = NewAlphabet("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_", false)
	binaryBits = NewAlphabet("01", false)
	decimal    = NewAlphabet("0123456789", false)
)

var aliases = map[string]Encoding{
	"hex":        Hex,
	"hexupper":   HexUpper,
	"hex-upper":  HexUpper,
	"base32":     Base32,
	"b32":        Base32,
	"base32hex":  Base32Hex,
	"base32-hex": Base32Hex,
	"base36":     Base36,
	"base58":     Base58,
	"b58":        Base58,
	"base64":     Base64,
	"b64":        Base64,
	"base64url":  Base64URL,
	"base64-url": Base64URL,
	"bits":       Bits,
	"binary":     Bits,
	"bin":        Bits,
	"int":        Int,
	"integer":    Int,
	"decimal":    Int,
	"bytes":      Bytes,
}

// ParseEncoding 解析编码名称，支持常见别名，不区分大小写。
// 单独的 "HEX" 视为 hex-upper。
func ParseEncoding(name string) (Encoding, error) {
	if name == "HEX" {
		return HexUpper, nil
	}
	if e, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return e, nil
	}
	return "", xerrors.Wrapf(ErrUnknownEncoding, "%q", name)
}

// All 返回全部编码，顺序稳定
func All() []Encoding {
	return []Encoding{Hex, HexUpper, Base32, Base32Hex, Base36, Base58, Base64, Base64URL, Bits, Int, Bytes}
}

func (e Encoding) String() string { return string(e) }

// CaseSensitive 报告字母表中大小写是否携带语义。
// 大小写不敏感的编码可以安全地做大小写变换。
func (e Encoding) CaseSensitive() bool {
	switch e {
	case Base58, Base64, Base64URL:
		return true
	default:
		return false
	}
}

// ============================================================================
// 编码
// ============================================================================

// Encode 将字节编码为文本
func Encode(e Encoding, b []byte) (string, error) {
	switch e {
	case Hex:
		return hexLower.EncodeBits(b), nil
	case HexUpper:
		return hexUpper.EncodeBits(b), nil
	case Base32:
		return base32Std.EncodeBits(b), nil
	case Base32Hex:
		return base32Ext.EncodeBits(b), nil
	case Base36:
		return base36Low.EncodeInt(b), nil
	case Base58:
		return encodeBase58(b), nil
	case Base64:
		return padBase64(base64Std.EncodeBits(b)), nil
	case Base64URL:
		return base64URL.EncodeBits(b), nil
	case Bits:
		return binaryBits.EncodeBits(b), nil
	case Int:
		return decimal.EncodeInt(b), nil
	case Bytes:
		return encodeByteDump(b), nil
	default:
		return "", xerrors.Wrapf(ErrEncode, "unknown encoding %q", string(e))
	}
}

// Decode 将文本解码为字节。
//
// expectedLen > 0 时结果必须恰好为该长度：int/base36 会在左侧补零，
// 其余编码长度不符即报错。expectedLen 为 0 表示按文本自然长度解码。
func Decode(e Encoding, s string, expectedLen int) ([]byte, error) {
	if s == "" {
		return nil, xerrors.Wrapf(ErrDecode, "%s: empty input", e)
	}
	var (
		out []byte
		err error
	)
	switch e {
	case Hex, HexUpper:
		if len(s)%2 != 0 {
			return nil, xerrors.Wrapf(ErrDecode, "hex: odd length %d", len(s))
		}
		out, err = hexLower.DecodeBits(s)
	case Base32:
		out, err = base32Std.DecodeBits(s)
	case Base32Hex:
		out, err = base32Ext.DecodeBits(s)
	case Base36:
		return base36Low.DecodeInt(s, expectedLen)
	case Base58:
		out, err = decodeBase58(s)
	case Base64:
		out, err = decodeBase64(s)
	case Base64URL:
		if strings.ContainsRune(s, '=') {
			return nil, xerrors.Wrap(ErrDecode, "base64url: padding is not allowed")
		}
		out, err = base64URL.DecodeBits(s)
	case Bits:
		out, err = binaryBits.DecodeBits(s)
	case Int:
		return decimal.DecodeInt(s, expectedLen)
	case Bytes:
		out, err = decodeByteDump(s)
	default:
		return nil, xerrors.Wrapf(ErrDecode, "unknown encoding %q", string(e))
	}
	if err != nil {
		return nil, xerrors.Wrap(err, string(e))
	}
	if expectedLen > 0 && len(out) != expectedLen {
		return nil, xerrors.Wrapf(ErrDecode, "%s: expected %d bytes, got %d", e, expectedLen, len(out))
	}
	return out, nil
}

// ============================================================================
// 各编码的特殊处理
// ============================================================================

// encodeBase58 每个前导零字节编码为一个 '1'，其余部分做整数进制转换。
func encodeBase58(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}
	rest := ""
	if zeros < len(b) {
		rest = base58BTC.EncodeInt(b[zeros:])
	}
	return strings.Repeat("1", zeros) + rest
}

func decodeBase58(s string) ([]byte, error) {
	zeros := 0
	for zeros < len(s) && s[zeros] == '1' {
		zeros++
	}
	out := make([]byte, zeros)
	if zeros == len(s) {
		return out, nil
	}
	rest, err := base58BTC.DecodeInt(s[zeros:], 0)
	if err != nil {
		return nil, err
	}
	return append(out, rest...), nil
}

func padBase64(s string) string {
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat("=", 4-r)
	}
	return s
}

// decodeBase64 要求带完整填充：长度为 4 的倍数，填充数量与数据长度一致。
func decodeBase64(s string) ([]byte, error) {
	if len(s)%4 != 0 {
		return nil, xerrors.Wrapf(ErrDecode, "length %d is not a multiple of 4", len(s))
	}
	body := strings.TrimRight(s, "=")
	pads := len(s) - len(body)
	if pads > 2 {
		return nil, xerrors.Wrapf(ErrDecode, "too much padding")
	}
	want := 0
	switch len(body) % 4 {
	case 2:
		want = 2
	case 3:
		want = 1
	case 1:
		return nil, xerrors.Wrapf(ErrDecode, "truncated final group")
	}
	if pads != want {
		return nil, xerrors.Wrapf(ErrDecode, "inconsistent padding: have %d, need %d", pads, want)
	}
	return base64Std.DecodeBits(body)
}

func encodeByteDump(b []byte) string {
	parts := make([]string, len(b))
	for i := range b {
		parts[i] = hexLower.EncodeBits(b[i : i+1])
	}
	return strings.Join(parts, " ")
}

func decodeByteDump(s string) ([]byte, error) {
	octets := strings.Fields(s)
	if len(octets) == 0 {
		return nil, xerrors.Wrap(ErrDecode, "no octets")
	}
	out := make([]byte, 0, len(octets))
	for i, o := range octets {
		if len(o) != 2 {
			return nil, xerrors.Wrapf(ErrDecode, "malformed octet %q at %d", o, i)
		}
		v, err := hexLower.DecodeBits(o)
		if err != nil {
			return nil, xerrors.Wrapf(err, "octet %d", i)
		}
		out = append(out, v...)
	}
	return out, nil
}

// ============================================================================
// 大小写变换
// ============================================================================

// Case 大小写变换方式
type Case int

const (
	CaseAsIs Case = iota
	CaseLower
	CaseUpper
)

// ParseCase 解析 "lower" / "upper"，空串表示保持原样
func ParseCase(s string) (Case, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asis", "as-is", "none":
		return CaseAsIs, nil
	case "lower", "lowercase":
		return CaseLower, nil
	case "upper", "uppercase":
		return CaseUpper, nil
	default:
		return CaseAsIs, xerrors.WithCode(xerrors.New("multibase: unknown case "+s), xerrors.CodeInvalidInput)
	}
}

// ApplyCase 对编码结果做大小写变换。
// 对 base58、base64、base64url 这类大小写敏感的编码拒绝变换；
// int 与 bits 只含数字，变换为空操作。
func ApplyCase(e Encoding, s string, c Case) (string, error) {
	if c == CaseAsIs {
		return s, nil
	}
	if e.CaseSensitive() {
		return "", xerrors.Wrapf(ErrCaseUnsafe, "%s", e)
	}
	if c == CaseUpper {
		return strings.ToUpper(s), nil
	}
	return strings.ToLower(s), nil
}
