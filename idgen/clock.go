package idgen

import (
	"runtime"
	"time"
)

// Clock 时间来源，测试中可以替换为可控的实现
type Clock interface {
	Now() time.Time
}

// SystemClock 使用 time.Now 的默认时钟
type SystemClock struct{}

// Now 返回当前时间
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc 把普通函数适配为 Clock
type ClockFunc func() time.Time

// Now 调用 f
func (f ClockFunc) Now() time.Time { return f() }

// sequenceWait 同一毫秒序列号耗尽后等待时钟前进的上限，按真实时间计
var sequenceWait = time.Second

// waitNextMilli 让出调度直到 now() 越过 last。注入的 Clock 在
// sequenceWait 内始终不前进时返回 false。
func waitNextMilli(now func() int64, last int64) (int64, bool) {
	deadline := time.Now().Add(sequenceWait)
	t := now()
	for t <= last {
		if time.Now().After(deadline) {
			return t, false
		}
		runtime.Gosched()
		t = now()
	}
	return t, true
}
