package idgen

import (
	"io"
	"math/bits"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// NanoID NanoID 生成器，无状态，可并发调用
type NanoID struct {
	alphabet string
	length   int
	entropy  io.Reader
	metrics  *instruments
}

// NewNanoID 创建 NanoID 生成器。alphabet 为空时使用默认的 64 字符 URL 安全字母表，
// length 为 0 时使用 21。
func NewNanoID(alphabet string, length int, opts ...Option) (*NanoID, error) {
	if alphabet == "" {
		alphabet = idtype.DefaultNanoIDAlphabet
	}
	if length == 0 {
		length = idtype.NanoIDDefaultLength
	}
	if err := validateAlphabet(alphabet); err != nil {
		return nil, err
	}
	if length < idtype.NanoIDMinLength || length > idtype.NanoIDMaxLength {
		return nil, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "nanoid length %d not in [%d, %d]",
			length, idtype.NanoIDMinLength, idtype.NanoIDMaxLength), "length_out_of_range")
	}

	o := applyOptions(opts)
	return &NanoID{
		alphabet: alphabet,
		length:   length,
		entropy:  o.Entropy,
		metrics:  newInstruments(idtype.NanoID, o),
	}, nil
}

func validateAlphabet(a string) error {
	if len(a) < 2 || len(a) > 256 {
		return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "alphabet must have 2 to 256 characters, got %d", len(a)), "invalid_alphabet")
	}
	var seen [256]bool
	for i := 0; i < len(a); i++ {
		if !idtype.IsNanoIDChar(a[i]) {
			return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "alphabet character %q is not printable ascii", a[i]), "invalid_alphabet")
		}
		if seen[a[i]] {
			return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "alphabet has duplicate character %q", a[i]), "invalid_alphabet")
		}
		seen[a[i]] = true
	}
	return nil
}

// Tag 实现 Generator
func (g *NanoID) Tag() idtype.Tag { return idtype.NanoID }

// Generate 生成 NanoID，RawID 的字节就是文本本身
func (g *NanoID) Generate() (idtype.RawID, error) {
	s, err := g.String()
	if err != nil {
		return idtype.RawID{}, err
	}
	return idtype.New(idtype.NanoID, []byte(s))
}

// String 生成 NanoID 文本
func (g *NanoID) String() (string, error) {
	s, err := sample(g.entropy, g.alphabet, g.length)
	if err != nil {
		return "", err
	}
	g.metrics.observe()
	return s, nil
}

// sample 从字母表中无偏地抽取 length 个字符。
//
// 每个随机字节取低 mask 位，落在字母表之外则丢弃；mask 为覆盖 len(alphabet)-1
// 的最小 2^k-1，任意大小的字母表都没有取模偏差。每批读取的字节数按
// 1.6 倍的期望拒绝率估算。
func sample(r io.Reader, alphabet string, length int) (string, error) {
	mask := 1<<bits.Len(uint(len(alphabet)-1)) - 1
	step := (16*mask*length/len(alphabet) + 9) / 10

	out := make([]byte, 0, length)
	buf := make([]byte, step)
	for {
		if err := readEntropy(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			idx := int(b) & mask
			if idx >= len(alphabet) {
				continue
			}
			out = append(out, alphabet[idx])
			if len(out) == length {
				return string(out), nil
			}
		}
	}
}
