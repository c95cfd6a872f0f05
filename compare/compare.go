// Package compare 在三种顺序下比较两个标识符：原始字节序、规范文本的字典序、
// 以及解出的时间戳顺序。
//
// 两个标识符的格式可以不同，此时结果带有 TypeMismatch 标记与警告，但仍给出比较结果：
//
//	r := compare.Compare(idtype.Default(), a, b)
//	if r.Chronological != nil {
//	    fmt.Println(r.Chronological, *r.TimeDiff)
//	}
package compare

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/ceyewan/idkit/idtype"
)

// Order 比较结果
type Order int

const (
	Less    Order = -1
	Equal   Order = 0
	Greater Order = 1
)

func (o Order) String() string {
	switch o {
	case Less:
		return "less"
	case Greater:
		return "greater"
	default:
		return "equal"
	}
}

// MarshalText 以 less / equal / greater 输出
func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func orderOf(c int) Order {
	switch {
	case c < 0:
		return Less
	case c > 0:
		return Greater
	default:
		return Equal
	}
}

// Result 一次比较的结果，按需计算，不缓存
type Result struct {
	Binary        Order          `json:"binary_order"`
	Lexicographic Order          `json:"lexicographic_order"`
	Chronological *Order         `json:"chronological_order,omitempty"` // 任一方没有时间戳时为 nil
	TimeDiff      *time.Duration `json:"time_diff,omitempty"`           // 时间戳差的绝对值
	TypeMismatch  bool           `json:"type_mismatch"`
	Warning       string         `json:"warning,omitempty"`
}

// Compare 比较 a 与 b。
//
// 字节序按无符号字节逐个比较，公共前缀相同时较短者更小；字典序比较各自的规范文本；
// 时间顺序与时间差只在双方都有时间戳时给出，精度不同时按较粗的精度截断后再比较。
func Compare(reg *idtype.Registry, a, b idtype.RawID) Result {
	r := Result{
		Binary:        orderOf(bytes.Compare(a.Bytes(), b.Bytes())),
		Lexicographic: orderOf(strings.Compare(reg.Canonical(a), reg.Canonical(b))),
	}

	if a.Tag() != b.Tag() {
		r.TypeMismatch = true
		r.Warning = fmt.Sprintf("comparing different id types: %s vs %s", a.Tag(), b.Tag())
	}

	fa, okA := reg.Fields(a)
	fb, okB := reg.Fields(b)
	if !okA || !okB || !fa.HasTime || !fb.HasTime {
		return r
	}

	precision := max(fa.Precision, fb.Precision)
	ta := fa.Time.Truncate(precision)
	tb := fb.Time.Truncate(precision)

	chrono := orderOf(ta.Compare(tb))
	diff := tb.Sub(ta)
	if diff < 0 {
		diff = -diff
	}
	r.Chronological = &chrono
	r.TimeDiff = &diff
	return r
}
