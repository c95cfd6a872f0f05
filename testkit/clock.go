package testkit

import (
	"sync"
	"time"
)

// Clock 手动推进的时钟，满足 idgen.Clock
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock 创建停在 t 的时钟
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set 把时钟拨到 t，可以向过去拨动以模拟时钟回拨
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ============================================================================
// 随机源
// ============================================================================

// CountingReader 依次产生 0, 1, 2, ... 255, 0, ...
type CountingReader struct {
	mu sync.Mutex
	n  byte
}

func (r *CountingReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p {
		p[i] = r.n
		r.n++
	}
	return len(p), nil
}

// ConstReader 产生固定字节
type ConstReader byte

func (c ConstReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}
