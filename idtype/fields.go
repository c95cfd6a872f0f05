package idtype

import (
	"time"
)

// Component 一个具名的整数字段，例如 sequence、worker、node
type Component struct {
	Name  string
	Value uint64
}

// Fields 从 RawID 按需解出的字段，不做缓存
type Fields struct {
	Time       time.Time     // 解出的时间戳（UTC），HasTime 为 false 时无意义
	HasTime    bool
	Precision  time.Duration // 时间戳的原生精度：100ns、1ms 或 1s
	Version    int           // UUID 版本，其他格式为 0
	Variant    string        // UUID 变体
	RandomBits int           // 随机部分的位数
	Components []Component   // 按位结构顺序排列
}

// Timestamp 返回时间戳
func (f Fields) Timestamp() (time.Time, bool) {
	return f.Time, f.HasTime
}

// Component 按名称查找字段
func (f Fields) Component(name string) (uint64, bool) {
	for _, c := range f.Components {
		if c.Name == name {
			return c.Value, true
		}
	}
	return 0, false
}

func (f *Fields) setTime(t time.Time, precision time.Duration) {
	f.Time = t.UTC()
	f.HasTime = true
	f.Precision = precision
}

func (f *Fields) add(name string, v uint64) {
	f.Components = append(f.Components, Component{Name: name, Value: v})
}
