package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/idkit/xerrors"
)

func snowflakeLayout() Layout {
	return Sequential(8,
		Field{Name: "sign", Width: 1},
		Field{Name: "timestamp", Width: 41},
		Field{Name: "datacenter", Width: 5},
		Field{Name: "worker", Width: 5},
		Field{Name: "sequence", Width: 12},
	)
}

func TestSequential(t *testing.T) {
	l := snowflakeLayout()
	require.NoError(t, l.Validate())
	assert.Equal(t, 64, l.Bits())

	f, ok := l.Field("worker")
	require.True(t, ok)
	assert.Equal(t, 47, f.Offset)
	assert.Equal(t, uint64(31), f.Max())

	_, ok = l.Field("missing")
	assert.False(t, ok)
}

func TestPackUnpack(t *testing.T) {
	l := snowflakeLayout()
	values := map[string]uint64{
		"timestamp":  1288834974657,
		"datacenter": 17,
		"worker":     9,
		"sequence":   4095,
	}

	b, err := Pack(l, values)
	require.NoError(t, err)
	require.Len(t, b, 8)

	// 与手工移位拼装的结果一致
	want := uint64(1288834974657)<<22 | 17<<17 | 9<<12 | 4095
	assert.Equal(t, want, Get(b, 0, 64))

	got := Unpack(b, l)
	assert.Equal(t, uint64(0), got["sign"])
	for k, v := range values {
		assert.Equal(t, v, got[k], k)
	}
}

func TestPack_Errors(t *testing.T) {
	l := snowflakeLayout()

	t.Run("值超出位宽", func(t *testing.T) {
		_, err := Pack(l, map[string]uint64{"worker": 32})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLayout)
		assert.Equal(t, xerrors.CodeLayout, xerrors.GetCode(err))
	})

	t.Run("未知字段", func(t *testing.T) {
		_, err := Pack(l, map[string]uint64{"node": 1})
		assert.ErrorIs(t, err, ErrLayout)
	})

	t.Run("64 位字段取最大值", func(t *testing.T) {
		wide := Sequential(8, Field{Name: "all", Width: 64})
		b, err := Pack(wide, map[string]uint64{"all": ^uint64(0)})
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b)
	})
}

func TestGetPut_Unaligned(t *testing.T) {
	b := make([]byte, 3)
	Put(b, 3, 7, 0x55) // 1010101
	assert.Equal(t, uint64(0x55), Get(b, 3, 7))
	assert.Equal(t, []byte{0x15, 0x40, 0x00}, b)

	// 覆盖写会清掉旧的位
	Put(b, 3, 7, 0)
	assert.Equal(t, []byte{0, 0, 0}, b)

	// 越界读按 0 处理
	assert.Equal(t, uint64(0), Get([]byte{0xff}, 8, 8))
	assert.Equal(t, uint64(0x7f), Get([]byte{0xff}, -1, 8))
}

func TestUnpack_ShortInput(t *testing.T) {
	got := Unpack([]byte{0x80}, snowflakeLayout())
	assert.Equal(t, uint64(1), got["sign"])
	assert.Equal(t, uint64(0), got["sequence"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
	}{
		{"重叠", Layout{Size: 1, Fields: []Field{{Name: "a", Offset: 0, Width: 5}, {Name: "b", Offset: 4, Width: 4}}}},
		{"未覆盖全部位", Sequential(2, Field{Name: "a", Width: 12})},
		{"越界", Sequential(1, Field{Name: "a", Width: 9})},
		{"重名", Sequential(1, Field{Name: "a", Width: 4}, Field{Name: "a", Width: 4})},
		{"位宽为 0", Sequential(1, Field{Name: "a", Width: 0}, Field{Name: "b", Width: 8})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.layout.Validate(), ErrLayout)
		})
	}
}

func TestExtract_MissingFieldPanics(t *testing.T) {
	assert.Panics(t, func() {
		Extract(make([]byte, 8), snowflakeLayout(), "node")
	})
	assert.Equal(t, uint64(0), Extract(make([]byte, 8), snowflakeLayout(), "worker"))
}
