package idgen

import (
	"encoding/binary"
	"sync"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

const (
	maxTSIDNode    = 1<<10 - 1
	maxTSIDCounter = 1<<12 - 1
	maxTSIDTime    = 1<<42 - 1
)

// TSID TSID 生成器：42 位毫秒时间戳（起点 2020-01-01）+ 10 位节点 + 12 位计数器
//
// 计数器在每个新毫秒归零；同一毫秒内耗尽时与 Snowflake 一样让出调度等待下一毫秒，
// 时钟停滞超过等待上限返回 ErrSequenceExhausted。
// 时钟回拨时沿用上一次的时间戳。
type TSID struct {
	mu       sync.Mutex
	node     uint64
	counter  uint64
	lastTime int64
	clock    Clock
	metrics  *instruments
}

// NewTSID 创建 TSID 生成器
func NewTSID(cfg *TSIDConfig, opts ...Option) (*TSID, error) {
	if cfg == nil {
		cfg = &TSIDConfig{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	return &TSID{
		node:     uint64(cfg.Node),
		lastTime: -1,
		clock:    o.Clock,
		metrics:  newInstruments(idtype.TSID, o),
	}, nil
}

// Tag 实现 Generator
func (g *TSID) Tag() idtype.Tag { return idtype.TSID }

func (g *TSID) now() int64 {
	return g.clock.Now().UnixMilli() - idtype.TSIDEpoch
}

// Next 生成 int64 形式的 TSID
func (g *TSID) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now < 0 || now > maxTSIDTime {
		return 0, xerrors.Wrapf(bitfield.ErrLayout, "tsid timestamp %d outside 42 bits", now)
	}

	if now < g.lastTime {
		g.metrics.clockBackwards(g.lastTime, now, "reuse_last")
		now = g.lastTime
	}

	if now == g.lastTime {
		g.counter = (g.counter + 1) & maxTSIDCounter
		if g.counter == 0 {
			var ok bool
			if now, ok = waitNextMilli(g.now, g.lastTime); !ok {
				g.counter = maxTSIDCounter
				return 0, xerrors.Wrapf(ErrSequenceExhausted, "clock stuck at %d ms", g.lastTime)
			}
		}
	} else {
		g.counter = 0
	}
	g.lastTime = now

	g.metrics.observe()
	return now<<22 | int64(g.node)<<12 | int64(g.counter), nil
}

// Generate 实现 Generator
func (g *TSID) Generate() (idtype.RawID, error) {
	id, err := g.Next()
	if err != nil {
		return idtype.RawID{}, err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return idtype.New(idtype.TSID, b[:])
}
