package idgen

import (
	"encoding/binary"
	"io"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// KSUID KSUID 生成器：32 位秒级时间戳（起点 2014-05-13）+ 128 位随机负载
type KSUID struct {
	clock   Clock
	entropy io.Reader
	metrics *instruments
}

// NewKSUID 创建 KSUID 生成器
func NewKSUID(opts ...Option) *KSUID {
	o := applyOptions(opts)
	return &KSUID{
		clock:   o.Clock,
		entropy: o.Entropy,
		metrics: newInstruments(idtype.KSUID, o),
	}
}

// Tag 实现 Generator
func (g *KSUID) Tag() idtype.Tag { return idtype.KSUID }

// Generate 生成 KSUID
func (g *KSUID) Generate() (idtype.RawID, error) {
	ts := g.clock.Now().Unix() - idtype.KSUIDEpoch
	if ts < 0 || ts > 0xFFFFFFFF {
		return idtype.RawID{}, xerrors.Wrapf(bitfield.ErrLayout, "ksuid timestamp %d outside 32 bits", ts)
	}

	b := make([]byte, 20)
	binary.BigEndian.PutUint32(b, uint32(ts))
	if err := readEntropy(g.entropy, b[4:]); err != nil {
		return idtype.RawID{}, err
	}

	g.metrics.observe()
	return idtype.New(idtype.KSUID, b)
}
