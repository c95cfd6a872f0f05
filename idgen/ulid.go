package idgen

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

const maxULIDTime = 1<<48 - 1

// MonotonicULID 单调 ULID 生成器
//
// 同一毫秒内把上一个 ID 的 80 位随机部分加 1，保证同一生成器产出的 ID
// 按字节序严格递增；进入新的毫秒时重新抽取随机数。时钟回拨时沿用上一次的
// 时间戳继续递增。
type MonotonicULID struct {
	mu      sync.Mutex
	clock   Clock
	entropy io.Reader
	lastMs  uint64
	last    [10]byte
	started bool
	metrics *instruments
}

// NewMonotonicULID 创建单调 ULID 生成器
func NewMonotonicULID(opts ...Option) *MonotonicULID {
	o := applyOptions(opts)
	return &MonotonicULID{
		clock:   o.Clock,
		entropy: o.Entropy,
		metrics: newInstruments(idtype.ULID, o),
	}
}

// Tag 实现 Generator
func (g *MonotonicULID) Tag() idtype.Tag { return idtype.ULID }

// Generate 生成 ULID
//
// 同一毫秒内随机部分按 80 位大端整数加一，耗尽时返回 ErrRandomOverflow。
// 时钟回拨时不报错：沿用上一次的毫秒时间戳并同样递增随机部分，
// 因此结果仍严格大于之前的 ULID，但其时间戳不再反映真实时间。
func (g *MonotonicULID) Generate() (idtype.RawID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now().UnixMilli()
	if now < 0 || now > maxULIDTime {
		return idtype.RawID{}, xerrors.Wrapf(bitfield.ErrLayout, "ulid timestamp %d outside 48 bits", now)
	}
	ms := uint64(now)

	if g.started && ms < g.lastMs {
		g.metrics.clockBackwards(int64(g.lastMs), now, "reuse_last")
		ms = g.lastMs
	}

	if g.started && ms == g.lastMs {
		next := g.last
		if !increment(next[:]) {
			return idtype.RawID{}, xerrors.Wrapf(ErrRandomOverflow, "at %d ms", ms)
		}
		g.last = next
	} else {
		if err := readEntropy(g.entropy, g.last[:]); err != nil {
			return idtype.RawID{}, err
		}
		g.lastMs = ms
		g.started = true
	}

	var b [16]byte
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], ms)
	copy(b[:6], ts[2:])
	copy(b[6:], g.last[:])

	g.metrics.observe()
	return idtype.New(idtype.ULID, b[:])
}

// increment 把 b 视为大端无符号整数加 1，溢出（全部回绕为 0）时返回 false
func increment(b []byte) bool {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return true
		}
	}
	return false
}
