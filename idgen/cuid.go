package idgen

import (
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/sha3"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/multibase"
	"github.com/ceyewan/idkit/xerrors"
)

const (
	base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"

	// cuidBlock 36^4，CUID v1 每个 4 字符块的取值上限
	cuidBlock = 36 * 36 * 36 * 36
)

var base36 = multibase.NewAlphabet(base36Chars, false)

// pad 把 s 左侧补零到 n 位，超长时保留末尾 n 位
func pad(s string, n int) string {
	if len(s) >= n {
		return s[len(s)-n:]
	}
	return strings.Repeat("0", n-len(s)) + s
}

// ========================================
// CUID v1
// ========================================

// CUID CUID v1 生成器：'c' + 时间戳(8) + 计数器(4) + 指纹(4) + 随机(8)，均为 base36
type CUID struct {
	counter     atomic.Uint32
	fingerprint string
	clock       Clock
	entropy     io.Reader
	metrics     *instruments
}

// NewCUID 创建 CUID v1 生成器，指纹由进程号与主机名导出
func NewCUID(opts ...Option) *CUID {
	o := applyOptions(opts)
	return &CUID{
		fingerprint: hostFingerprint(),
		clock:       o.Clock,
		entropy:     o.Entropy,
		metrics:     newInstruments(idtype.CUID, o),
	}
}

// hostFingerprint 进程号的末 2 位 base36 + 主机名字符和的末 2 位 base36
func hostFingerprint() string {
	host, _ := os.Hostname()
	sum := len(host) + 36
	for i := 0; i < len(host); i++ {
		sum += int(host[i])
	}
	return pad(strconv.FormatInt(int64(os.Getpid()), 36), 2) + pad(strconv.FormatInt(int64(sum), 36), 2)
}

// Tag 实现 Generator
func (g *CUID) Tag() idtype.Tag { return idtype.CUID }

// Generate 生成 CUID v1
func (g *CUID) Generate() (idtype.RawID, error) {
	random, err := sample(g.entropy, base36Chars, 8)
	if err != nil {
		return idtype.RawID{}, err
	}

	var sb strings.Builder
	sb.Grow(25)
	sb.WriteByte('c')
	sb.WriteString(pad(strconv.FormatInt(g.clock.Now().UnixMilli(), 36), 8))
	sb.WriteString(pad(strconv.FormatUint(uint64(g.counter.Add(1)%cuidBlock), 36), 4))
	sb.WriteString(g.fingerprint)
	sb.WriteString(random)

	g.metrics.observe()
	return idtype.New(idtype.CUID, []byte(sb.String()))
}

// ========================================
// CUID2
// ========================================

// CUID2 CUID2 生成器
//
// 每个 ID 为一个随机小写字母，加上 SHA3-512(时间 + 随机盐 + 计数器 + 指纹)
// 的 base36 表示截取的 length-1 个字符。
type CUID2 struct {
	length      int
	counter     atomic.Uint64
	fingerprint string
	clock       Clock
	entropy     io.Reader
	metrics     *instruments
}

// NewCUID2 创建 CUID2 生成器，length 为 0 时使用 24
func NewCUID2(length int, opts ...Option) (*CUID2, error) {
	if length == 0 {
		length = idtype.CUID2DefaultLength
	}
	if length < idtype.CUID2MinLength || length > idtype.CUID2MaxLength {
		return nil, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "cuid2 length %d not in [%d, %d]",
			length, idtype.CUID2MinLength, idtype.CUID2MaxLength), "length_out_of_range")
	}

	o := applyOptions(opts)
	g := &CUID2{
		length:  length,
		clock:   o.Clock,
		entropy: o.Entropy,
		metrics: newInstruments(idtype.CUID2, o),
	}

	var seed [8]byte
	if err := readEntropy(g.entropy, seed[:]); err != nil {
		return nil, err
	}
	g.counter.Store(binary.BigEndian.Uint64(seed[:]) % 476782367)

	salt, err := sample(g.entropy, base36Chars, 32)
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	g.fingerprint = pad(hash36(host+strconv.Itoa(os.Getpid())+salt), 32)
	return g, nil
}

// hash36 SHA3-512 摘要的 base36 表示，去掉分布不均匀的首字符
func hash36(input string) string {
	sum := sha3.Sum512([]byte(input))
	return base36.EncodeInt(sum[:])[1:]
}

// Tag 实现 Generator
func (g *CUID2) Tag() idtype.Tag { return idtype.CUID2 }

// Generate 生成 CUID2
func (g *CUID2) Generate() (idtype.RawID, error) {
	first, err := sample(g.entropy, lowerChars, 1)
	if err != nil {
		return idtype.RawID{}, err
	}
	salt, err := sample(g.entropy, base36Chars, g.length)
	if err != nil {
		return idtype.RawID{}, err
	}

	input := strconv.FormatInt(g.clock.Now().UnixMilli(), 36) +
		salt +
		strconv.FormatUint(g.counter.Add(1), 36) +
		g.fingerprint
	h := hash36(input)
	if len(h) < g.length {
		h = pad(h, g.length)
	}

	g.metrics.observe()
	return idtype.New(idtype.CUID2, []byte(first+h[1:g.length]))
}
