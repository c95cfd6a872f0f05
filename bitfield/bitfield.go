// Package bitfield 提供大端位域的打包与解包。
//
// 每种标识符格式都用一个 Layout 描述自身的位结构，字段按最高位优先
// （MSB first）排列，不要求按字节对齐，例如 Snowflake 的 5 bit 数据中心字段：
//
//	layout := bitfield.Sequential(8,
//	    bitfield.Field{Name: "sign", Width: 1},
//	    bitfield.Field{Name: "timestamp", Width: 41},
//	    bitfield.Field{Name: "datacenter", Width: 5},
//	    bitfield.Field{Name: "worker", Width: 5},
//	    bitfield.Field{Name: "sequence", Width: 12},
//	)
//	b, err := bitfield.Pack(layout, map[string]uint64{"timestamp": ms, "worker": 3})
//	fields := bitfield.Unpack(b, layout)
package bitfield

import (
	"github.com/ceyewan/idkit/xerrors"
)

// ErrLayout 字段取值超出位宽，或布局本身不合法
var ErrLayout = xerrors.Sentinel(xerrors.CodeLayout, "bitfield: layout violation")

// Field 单个位域
type Field struct {
	Name     string // 字段名，布局内唯一
	Offset   int    // 距第 0 字节最高位的位偏移
	Width    int    // 位宽，1..64
	Semantic string // 语义说明，仅用于展示
}

// Max 返回字段能表示的最大值
func (f Field) Max() uint64 {
	if f.Width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(f.Width) - 1
}

// Layout 定长字节序列上的位域布局
type Layout struct {
	Size   int // 字节数
	Fields []Field
}

// Sequential 按声明顺序紧密排列字段，自动计算偏移。
func Sequential(size int, fields ...Field) Layout {
	off := 0
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Offset = off
		off += f.Width
		out[i] = f
	}
	return Layout{Size: size, Fields: out}
}

// Field 按名称查找字段
func (l Layout) Field(name string) (Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bits 返回所有字段位宽之和
func (l Layout) Bits() int {
	n := 0
	for _, f := range l.Fields {
		n += f.Width
	}
	return n
}

// Validate 检查字段位宽、越界、重名与重叠。
// 对定长格式，还要求字段恰好覆盖全部 Size*8 位。
func (l Layout) Validate() error {
	total := l.Size * 8
	seen := make(map[string]struct{}, len(l.Fields))
	used := make([]bool, total)
	for _, f := range l.Fields {
		if f.Width < 1 || f.Width > 64 {
			return xerrors.Wrapf(ErrLayout, "field %s: width %d not in [1,64]", f.Name, f.Width)
		}
		if f.Offset < 0 || f.Offset+f.Width > total {
			return xerrors.Wrapf(ErrLayout, "field %s: bits [%d,%d) outside %d-bit layout", f.Name, f.Offset, f.Offset+f.Width, total)
		}
		if _, dup := seen[f.Name]; dup {
			return xerrors.Wrapf(ErrLayout, "field %s declared twice", f.Name)
		}
		seen[f.Name] = struct{}{}
		for i := f.Offset; i < f.Offset+f.Width; i++ {
			if used[i] {
				return xerrors.Wrapf(ErrLayout, "field %s overlaps bit %d", f.Name, i)
			}
			used[i] = true
		}
	}
	if l.Bits() != total {
		return xerrors.Wrapf(ErrLayout, "fields cover %d of %d bits", l.Bits(), total)
	}
	return nil
}

// ============================================================================
// 位操作原语
// ============================================================================

// Get 读取从 off 开始的 width 位（width <= 64），越界的位按 0 处理。
func Get(b []byte, off, width int) uint64 {
	var v uint64
	for i := 0; i < width; i++ {
		v = v<<1 | uint64(bit(b, off+i))
	}
	return v
}

// Put 将 v 的低 width 位写入从 off 开始的位置，越界的位被忽略。
func Put(b []byte, off, width int, v uint64) {
	for i := 0; i < width; i++ {
		pos := off + i
		if pos < 0 || pos >= len(b)*8 {
			continue
		}
		mask := byte(1) << uint(7-pos%8)
		if v>>uint(width-1-i)&1 == 1 {
			b[pos/8] |= mask
		} else {
			b[pos/8] &^= mask
		}
	}
}

func bit(b []byte, pos int) byte {
	if pos < 0 || pos >= len(b)*8 {
		return 0
	}
	return b[pos/8] >> uint(7-pos%8) & 1
}

// ============================================================================
// Pack / Unpack
// ============================================================================

// Pack 按布局打包字段，未给出的字段为 0。
// 取值超出位宽或字段名不在布局中时返回 ErrLayout。
func Pack(l Layout, values map[string]uint64) ([]byte, error) {
	for name := range values {
		if _, ok := l.Field(name); !ok {
			return nil, xerrors.Wrapf(ErrLayout, "unknown field %q", name)
		}
	}
	b := make([]byte, l.Size)
	for _, f := range l.Fields {
		v := values[f.Name]
		if v > f.Max() {
			return nil, xerrors.Wrapf(ErrLayout, "field %s: value %d exceeds %d bits", f.Name, v, f.Width)
		}
		Put(b, f.Offset, f.Width, v)
	}
	return b, nil
}

// Unpack 按布局解出全部字段。对任意字节序列都成立，不足的位按 0 处理。
func Unpack(b []byte, l Layout) map[string]uint64 {
	out := make(map[string]uint64, len(l.Fields))
	for _, f := range l.Fields {
		out[f.Name] = Get(b, f.Offset, f.Width)
	}
	return out
}

// Extract 读取单个字段。字段不存在属于调用方的编程错误，直接 panic。
func Extract(b []byte, l Layout, name string) uint64 {
	f, ok := l.Field(name)
	if !ok {
		panic("bitfield: layout has no field " + name)
	}
	return Get(b, f.Offset, f.Width)
}
