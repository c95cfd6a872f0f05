package idgen

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// ObjectID 生成 MongoDB ObjectId 或 XID，两者位结构相同：
// 32 位秒级时间戳 + 40 位进程随机值 + 24 位计数器。
//
// 进程随机值与计数器初值在构造时从随机来源读取，计数器用原子操作递增，
// 生成过程无锁。
type ObjectID struct {
	tag     idtype.Tag
	layout  bitfield.Layout
	process [5]byte
	counter atomic.Uint32
	clock   Clock
	metrics *instruments
}

// NewObjectID 创建 MongoDB ObjectId 生成器
func NewObjectID(opts ...Option) (*ObjectID, error) {
	return newObjectID(idtype.ObjectID, opts)
}

// NewXID 创建 XID 生成器
func NewXID(opts ...Option) (*ObjectID, error) {
	return newObjectID(idtype.XID, opts)
}

func newObjectID(tag idtype.Tag, opts []Option) (*ObjectID, error) {
	o := applyOptions(opts)
	g := &ObjectID{
		tag:     tag,
		layout:  idtype.Describe(tag).Layout,
		clock:   o.Clock,
		metrics: newInstruments(tag, o),
	}

	var seed [8]byte
	if err := readEntropy(o.Entropy, seed[:]); err != nil {
		return nil, err
	}
	copy(g.process[:], seed[:5])
	g.counter.Store(uint32(seed[5])<<16 | uint32(seed[6])<<8 | uint32(seed[7]))
	return g, nil
}

// Tag 实现 Generator
func (g *ObjectID) Tag() idtype.Tag { return g.tag }

// Generate 生成 ObjectId / XID
func (g *ObjectID) Generate() (idtype.RawID, error) {
	ts := g.clock.Now().Unix()
	if ts < 0 || ts > 0xFFFFFFFF {
		return idtype.RawID{}, xerrors.Wrapf(bitfield.ErrLayout, "%s timestamp %d outside 32 bits", g.tag, ts)
	}
	counter := g.counter.Add(1) & 0xFFFFFF

	b, err := bitfield.Pack(g.layout, map[string]uint64{
		"timestamp": uint64(ts),
		"machine":   uint64(g.process[0])<<16 | uint64(g.process[1])<<8 | uint64(g.process[2]),
		"pid":       uint64(binary.BigEndian.Uint16(g.process[3:])),
		"counter":   uint64(counter),
	})
	if err != nil {
		return idtype.RawID{}, err
	}

	g.metrics.observe()
	return idtype.New(g.tag, b)
}
