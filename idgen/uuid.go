package idgen

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/binary"
	"hash"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// rfcVariant 变体字段取值 0b10
const rfcVariant = 2

var uuidTags = map[int]idtype.Tag{
	1: idtype.UUIDv1,
	4: idtype.UUIDv4,
	6: idtype.UUIDv6,
	7: idtype.UUIDv7,
}

// ========================================
// 实例模式 (Instance Mode)
// ========================================

// UUIDGenerator 生成 v1、v4、v6、v7 UUID
//
// v1/v6 使用随机的 48 位节点号（置多播位以区别于 MAC 地址）和随机的时钟序列，
// 时间戳不前进时递增时钟序列。
type UUIDGenerator struct {
	version int
	tag     idtype.Tag
	layout  bitfield.Layout
	clock   Clock
	entropy io.Reader
	metrics *instruments

	mu        sync.Mutex
	node      uint64
	clockSeq  uint64
	lastTicks uint64
}

// NewUUID 创建 UUID 生成器，version 取 1、4、6、7
//
// 使用示例:
//
//	gen, _ := idgen.NewUUID(7)
//	id, _ := gen.Generate()
func NewUUID(version int, opts ...Option) (*UUIDGenerator, error) {
	tag, ok := uuidTags[version]
	if !ok {
		return nil, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "uuid version %d cannot be generated here", version), "unsupported_uuid_version")
	}

	o := applyOptions(opts)
	g := &UUIDGenerator{
		version: version,
		tag:     tag,
		layout:  idtype.Describe(tag).Layout,
		clock:   o.Clock,
		entropy: o.Entropy,
		metrics: newInstruments(tag, o),
	}

	if version == 1 || version == 6 {
		var seed [8]byte
		if err := readEntropy(g.entropy, seed[:]); err != nil {
			return nil, err
		}
		// 前 6 字节作节点号，后 2 字节作时钟序列
		g.node = binary.BigEndian.Uint64(seed[:])>>16 | 1<<40
		g.clockSeq = uint64(binary.BigEndian.Uint16(seed[6:])) & 0x3FFF
	}
	return g, nil
}

// Tag 实现 Generator
func (g *UUIDGenerator) Tag() idtype.Tag { return g.tag }

// Generate 生成 UUID
func (g *UUIDGenerator) Generate() (idtype.RawID, error) {
	var (
		b   []byte
		err error
	)
	switch g.version {
	case 1, 6:
		b, err = g.timeBased()
	case 4:
		b, err = g.random()
	case 7:
		b, err = g.unixTime()
	}
	if err != nil {
		return idtype.RawID{}, err
	}

	g.metrics.observe()
	return idtype.New(g.tag, b)
}

func (g *UUIDGenerator) timeBased() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ticks := idtype.GregorianTicks(g.clock.Now())
	if ticks <= g.lastTicks {
		if ticks < g.lastTicks {
			g.metrics.clockBackwards(int64(g.lastTicks), int64(ticks), "bump_clock_seq")
		}
		g.clockSeq = (g.clockSeq + 1) & 0x3FFF
	}
	g.lastTicks = ticks

	values := map[string]uint64{
		"version":   uint64(g.version),
		"variant":   rfcVariant,
		"clock_seq": g.clockSeq,
		"node":      g.node,
	}
	if g.version == 1 {
		values["time_low"] = ticks & 0xFFFFFFFF
		values["time_mid"] = ticks >> 32 & 0xFFFF
		values["time_high"] = ticks >> 48 & 0xFFF
	} else {
		values["time_high"] = ticks >> 28 & 0xFFFFFFFF
		values["time_mid"] = ticks >> 12 & 0xFFFF
		values["time_low"] = ticks & 0xFFF
	}
	return bitfield.Pack(g.layout, values)
}

func (g *UUIDGenerator) random() ([]byte, error) {
	b := make([]byte, 16)
	if err := readEntropy(g.entropy, b); err != nil {
		return nil, err
	}
	setField(b, g.layout, "version", 4)
	setField(b, g.layout, "variant", rfcVariant)
	return b, nil
}

func (g *UUIDGenerator) unixTime() ([]byte, error) {
	ms := g.clock.Now().UnixMilli()
	if ms < 0 || ms > maxULIDTime {
		return nil, xerrors.Wrapf(bitfield.ErrLayout, "uuidv7 timestamp %d outside 48 bits", ms)
	}

	var r [10]byte
	if err := readEntropy(g.entropy, r[:]); err != nil {
		return nil, err
	}
	return bitfield.Pack(g.layout, map[string]uint64{
		"unix_ms": uint64(ms),
		"version": 7,
		"rand_a":  uint64(binary.BigEndian.Uint16(r[:2])) & 0xFFF,
		"variant": rfcVariant,
		"rand_b":  binary.BigEndian.Uint64(r[2:]) & (1<<62 - 1),
	})
}

func setField(b []byte, l bitfield.Layout, name string, v uint64) {
	f, ok := l.Field(name)
	if !ok {
		panic("idgen: layout has no field " + name)
	}
	bitfield.Put(b, f.Offset, f.Width, v)
}

// ========================================
// 基于名称的 UUID (v3 / v5)
// ========================================

var namedNamespaces = map[string]uuid.UUID{
	"dns":  uuid.NameSpaceDNS,
	"url":  uuid.NameSpaceURL,
	"oid":  uuid.NameSpaceOID,
	"x500": uuid.NameSpaceX500,
}

// ResolveNamespace 解析命名空间：dns、url、oid、x500 或任意 UUID 文本
func ResolveNamespace(ns string) ([]byte, error) {
	if u, ok := namedNamespaces[strings.ToLower(strings.TrimSpace(ns))]; ok {
		return u[:], nil
	}
	raw, ok := idtype.Default().Parse(idtype.UUID, ns)
	if !ok {
		return nil, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "namespace %q is neither dns/url/oid/x500 nor a UUID", ns), "invalid_namespace")
	}
	return raw.Bytes(), nil
}

// NameUUID 由命名空间与名称确定性地生成 v3 (MD5) 或 v5 (SHA-1) UUID
//
//	id, _ := idgen.NameUUID(5, "dns", "example.com")
//	// cfbff0d1-9375-5685-968c-48ce8b15ae17
func NameUUID(version int, namespace, name string) (idtype.RawID, error) {
	var (
		h   hash.Hash
		tag idtype.Tag
	)
	switch version {
	case 3:
		h, tag = md5.New(), idtype.UUIDv3
	case 5:
		h, tag = sha1.New(), idtype.UUIDv5
	default:
		return idtype.RawID{}, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "name-based uuid version must be 3 or 5, got %d", version), "unsupported_uuid_version")
	}

	ns, err := ResolveNamespace(namespace)
	if err != nil {
		return idtype.RawID{}, err
	}
	h.Write(ns)
	h.Write([]byte(name))

	b := h.Sum(nil)[:16]
	l := idtype.Describe(tag).Layout
	setField(b, l, "version", uint64(version))
	setField(b, l, "variant", rfcVariant)
	return idtype.New(tag, b)
}

// ========================================
// 常量 UUID
// ========================================

// NilUUID 返回全零 UUID
func NilUUID() idtype.RawID {
	return idtype.MustNew(idtype.UUIDNil, make([]byte, 16))
}

// MaxUUID 返回全一 UUID
func MaxUUID() idtype.RawID {
	b := make([]byte, 16)
	for i := range b {
		b[i] = 0xFF
	}
	return idtype.MustNew(idtype.UUIDMax, b)
}
