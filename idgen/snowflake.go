package idgen

import (
	"encoding/binary"
	"sync"

	"github.com/ceyewan/idkit/bitfield"
	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

const (
	maxSnowflakeNode     = 31
	maxSnowflakeSequence = 0xFFF
	maxSnowflakeTime     = 1<<41 - 1
)

// Snowflake 雪花算法生成器
//
// 位结构 (1+41+5+5+12)：符号位 + 毫秒时间戳 + datacenterID + workerID + 序列号。
// 时钟回拨时返回 ErrClockMovedBackwards，由调用方决定重试、等待或失败；
// 同一毫秒内序列号耗尽时让出调度并等待下一毫秒；注入的 Clock 必须会前进，
// 等待超过 1 秒仍停在同一毫秒时返回 ErrSequenceExhausted，序列号保持耗尽状态。
type Snowflake struct {
	mu       sync.Mutex
	epoch    int64
	workerID int64
	dcID     int64
	sequence int64
	lastTime int64 // 相对 epoch 的毫秒数，-1 表示尚未生成
	clock    Clock
	metrics  *instruments
	logger   clog.Logger
}

// NewSnowflake 创建 Snowflake 生成器，workerID/datacenterID 越界在此处报错
//
// 使用示例:
//
//	sf, _ := idgen.NewSnowflake(&idgen.SnowflakeConfig{
//	    Epoch:        idtype.EpochTwitter,
//	    WorkerID:     1,
//	    DatacenterID: 2,
//	}, idgen.WithLogger(logger))
//	id, err := sf.Next()
func NewSnowflake(cfg *SnowflakeConfig, opts ...Option) (*Snowflake, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrInvalidInput, "snowflake config is nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)
	sf := &Snowflake{
		epoch:    cfg.Epoch,
		workerID: cfg.WorkerID,
		dcID:     cfg.DatacenterID,
		lastTime: -1,
		clock:    o.Clock,
		metrics:  newInstruments(idtype.Snowflake, o),
		logger:   o.Logger,
	}

	sf.logger.Info("snowflake generator created",
		clog.Int64("epoch", cfg.Epoch),
		clog.Int64("worker_id", cfg.WorkerID),
		clog.Int64("datacenter_id", cfg.DatacenterID),
	)
	return sf, nil
}

// Tag 实现 Generator
func (s *Snowflake) Tag() idtype.Tag { return idtype.Snowflake }

func (s *Snowflake) now() int64 {
	return s.clock.Now().UnixMilli() - s.epoch
}

// Next 生成 int64 形式的 ID
func (s *Snowflake) Next() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now < 0 || now > maxSnowflakeTime {
		return 0, xerrors.Wrapf(bitfield.ErrLayout, "snowflake timestamp %d outside 41 bits (epoch %d)", now, s.epoch)
	}

	switch {
	case now < s.lastTime:
		s.metrics.clockBackwards(s.lastTime, now, "reject")
		return 0, xerrors.Wrapf(ErrClockMovedBackwards, "refusing to generate for %d ms", s.lastTime-now)

	case now == s.lastTime:
		s.sequence = (s.sequence + 1) & maxSnowflakeSequence
		if s.sequence == 0 {
			// 序列号溢出，等待下一毫秒
			var ok bool
			if now, ok = waitNextMilli(s.now, s.lastTime); !ok {
				s.sequence = maxSnowflakeSequence
				return 0, xerrors.Wrapf(ErrSequenceExhausted, "clock stuck at %d ms", s.lastTime)
			}
		}

	default:
		s.sequence = 0
	}

	s.lastTime = now
	id := now<<22 | s.dcID<<17 | s.workerID<<12 | s.sequence

	s.metrics.observe()
	return id, nil
}

// Generate 实现 Generator，返回 8 字节大端序的 RawID
func (s *Snowflake) Generate() (idtype.RawID, error) {
	id, err := s.Next()
	if err != nil {
		return idtype.RawID{}, err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(id))
	return idtype.New(idtype.Snowflake, b[:])
}
