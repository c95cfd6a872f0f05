package multibase

import (
	"strings"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/internal/bigint"
	"github.com/ceyewan/idkit/xerrors"
)

// Alphabet 一个进制字母表。
//
// 进制为 2 的幂时支持两种位流编码：
//   - 流式（EncodeBits）：按 RFC 4648 从最高位开始切分，末尾不足一组时右侧补零；
//   - 定长整数式（EncodeFixed）：把字节视为整数，左侧补零到固定字符数，ULID/TSID 使用这种方式。
//
// 其他进制（36、58、62）的定长编码通过 internal/bigint 做整数进制转换。
type Alphabet struct {
	chars string
	bits  int // log2(len(chars))，非 2 的幂时为 0
	dec   [256]int16
}

// NewAlphabet 创建字母表。fold 为 true 时解码忽略大小写。
func NewAlphabet(chars string, fold bool) *Alphabet {
	if len(chars) < 2 || len(chars) > 256 {
		panic("multibase: alphabet size out of range")
	}
	a := &Alphabet{chars: chars}
	for n := len(chars); n > 1 && n&1 == 0; n >>= 1 {
		a.bits++
	}
	if 1<<uint(a.bits) != len(chars) {
		a.bits = 0
	}
	for i := range a.dec {
		a.dec[i] = -1
	}
	for i := 0; i < len(chars); i++ {
		c := chars[i]
		a.dec[c] = int16(i)
		if fold {
			a.dec[toLower(c)] = int16(i)
			a.dec[toUpper(c)] = int16(i)
		}
	}
	return a
}

// Alias 让额外字符解码为已有字符的值，例如 Crockford 中的 O→0、I/L→1。
func (a *Alphabet) Alias(from, to byte) *Alphabet {
	c := *a
	c.dec[from] = a.dec[to]
	return &c
}

// Chars 返回字母表字符
func (a *Alphabet) Chars() string { return a.chars }

// Radix 返回进制
func (a *Alphabet) Radix() int { return len(a.chars) }

// Index 返回字符的数值，不属于字母表时返回 -1
func (a *Alphabet) Index(c byte) int { return int(a.dec[c]) }

// Contains 判断字符串是否全部由字母表字符构成
func (a *Alphabet) Contains(s string) bool {
	for i := 0; i < len(s); i++ {
		if a.dec[s[i]] < 0 {
			return false
		}
	}
	return true
}

// EncodeBits 流式编码，末组右侧补零，不输出填充字符。
func (a *Alphabet) EncodeBits(b []byte) string {
	a.mustPow2()
	n := (len(b)*8 + a.bits - 1) / a.bits
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(a.chars[bitfield.Get(b, i*a.bits, a.bits)])
	}
	return sb.String()
}

// DecodeBits 流式解码。末尾多出的位必须少于一个字符且全为零。
func (a *Alphabet) DecodeBits(s string) ([]byte, error) {
	a.mustPow2()
	total := len(s) * a.bits
	size := total / 8
	if total-size*8 >= a.bits {
		return nil, xerrors.Wrapf(ErrDecode, "%d characters do not form whole bytes", len(s))
	}
	out := make([]byte, size+1)
	for i := 0; i < len(s); i++ {
		v := a.dec[s[i]]
		if v < 0 {
			return nil, xerrors.Wrapf(ErrDecode, "invalid character %q at %d", s[i], i)
		}
		bitfield.Put(out, i*a.bits, a.bits, uint64(v))
	}
	if bitfield.Get(out, size*8, total-size*8) != 0 {
		return nil, xerrors.Wrapf(ErrDecode, "non-zero trailing bits")
	}
	return out[:size], nil
}

// EncodeFixed 把字节视为整数，编码为恰好 n 个字符（左侧补零值字符）。
// n 不足以表示该整数时 panic，调用方负责给出正确的长度。
func (a *Alphabet) EncodeFixed(b []byte, n int) string {
	var digits []byte
	if a.bits > 0 {
		pad := n*a.bits - len(b)*8
		digits = make([]byte, n)
		for i := range digits {
			digits[i] = byte(bitfield.Get(b, i*a.bits-pad, a.bits))
		}
		if pad < 0 && bitfield.Get(b, 0, -pad) != 0 {
			panic("multibase: value does not fit fixed width")
		}
	} else {
		d := bigint.ToBase(b, a.Radix())
		if len(d) > n {
			panic("multibase: value does not fit fixed width")
		}
		digits = make([]byte, n)
		copy(digits[n-len(d):], d)
	}
	var sb strings.Builder
	sb.Grow(n)
	for _, d := range digits {
		sb.WriteByte(a.chars[d])
	}
	return sb.String()
}

// DecodeFixed 将整数式编码解码为恰好 size 字节，数值超出 size 字节时报错。
func (a *Alphabet) DecodeFixed(s string, size int) ([]byte, error) {
	digits, err := a.digits(s)
	if err != nil {
		return nil, err
	}
	if a.bits > 0 {
		pad := len(s)*a.bits - size*8
		if pad < 0 {
			return nil, xerrors.Wrapf(ErrDecode, "%d characters cannot hold %d bytes", len(s), size)
		}
		buf := make([]byte, (len(s)*a.bits+7)/8)
		for i, d := range digits {
			bitfield.Put(buf, i*a.bits, a.bits, uint64(d))
		}
		if bitfield.Get(buf, 0, pad) != 0 {
			return nil, xerrors.Wrapf(ErrDecode, "value overflows %d bytes", size)
		}
		out := make([]byte, size)
		for i := range out {
			out[i] = byte(bitfield.Get(buf, pad+i*8, 8))
		}
		return out, nil
	}
	out, ok := bigint.FitTo(bigint.FromBase(digits, a.Radix()), size)
	if !ok {
		return nil, xerrors.Wrapf(ErrDecode, "value overflows %d bytes", size)
	}
	return out, nil
}

// EncodeInt 把字节视为整数编码为最短形式，0 编码为单个零值字符。
func (a *Alphabet) EncodeInt(b []byte) string {
	d := bigint.ToBase(b, a.Radix())
	if len(d) == 0 {
		return a.chars[:1]
	}
	var sb strings.Builder
	sb.Grow(len(d))
	for _, v := range d {
		sb.WriteByte(a.chars[v])
	}
	return sb.String()
}

// DecodeInt 解析整数式编码，size 为 0 时返回最短字节表示（至少 1 字节）。
func (a *Alphabet) DecodeInt(s string, size int) ([]byte, error) {
	digits, err := a.digits(s)
	if err != nil {
		return nil, err
	}
	raw := bigint.FromBase(digits, a.Radix())
	if size == 0 {
		if len(raw) == 0 {
			return []byte{0}, nil
		}
		return raw, nil
	}
	out, ok := bigint.FitTo(raw, size)
	if !ok {
		return nil, xerrors.Wrapf(ErrDecode, "value does not fit in %d bytes", size)
	}
	return out, nil
}

func (a *Alphabet) digits(s string) ([]byte, error) {
	if s == "" {
		return nil, xerrors.Wrap(ErrDecode, "empty input")
	}
	digits := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		v := a.dec[s[i]]
		if v < 0 {
			return nil, xerrors.Wrapf(ErrDecode, "invalid character %q at %d", s[i], i)
		}
		digits[i] = byte(v)
	}
	return digits, nil
}

func (a *Alphabet) mustPow2() {
	if a.bits == 0 {
		panic("multibase: bit-stream codec needs a power-of-two alphabet")
	}
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func toUpper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
