package idgen

import (
	"errors"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/testkit"
	"github.com/ceyewan/idkit/xerrors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ========================================
// 测试辅助
// ========================================

var refTime = time.Date(2022, 2, 22, 19, 22, 22, 0, time.UTC)

func canonical(t *testing.T, raw idtype.RawID) string {
	t.Helper()
	s := idtype.Default().Canonical(raw)
	require.NotEmpty(t, s)
	return s
}

// ========================================
// 通用行为
// ========================================

func TestGenerators_Tag(t *testing.T) {
	opts := []Option{WithClock(testkit.NewClock(refTime))}
	sf, err := NewSnowflake(&SnowflakeConfig{}, opts...)
	require.NoError(t, err)
	v1, err := NewUUID(1, opts...)
	require.NoError(t, err)
	v4, err := NewUUID(4, opts...)
	require.NoError(t, err)
	v6, err := NewUUID(6, opts...)
	require.NoError(t, err)
	v7, err := NewUUID(7, opts...)
	require.NoError(t, err)
	nano, err := NewNanoID("", 0, opts...)
	require.NoError(t, err)
	oid, err := NewObjectID(opts...)
	require.NoError(t, err)
	xid, err := NewXID(opts...)
	require.NoError(t, err)
	tsid, err := NewTSID(nil, opts...)
	require.NoError(t, err)
	cuid2, err := NewCUID2(0, opts...)
	require.NoError(t, err)
	typeID, err := NewTypeID("user", opts...)
	require.NoError(t, err)

	gens := []Generator{
		sf, v1, v4, v6, v7, nano, oid, xid, tsid, cuid2, typeID,
		NewMonotonicULID(opts...), NewKSUID(opts...), NewCUID(opts...),
	}
	reg := idtype.Default()
	for _, g := range gens {
		t.Run(g.Tag().String(), func(t *testing.T) {
			raw, err := g.Generate()
			require.NoError(t, err)
			assert.Equal(t, g.Tag(), raw.Tag())

			// 生成的 ID 必须能被同一格式的解析器接受并原样渲染
			text := reg.Canonical(raw)
			parsed, ok := reg.Parse(g.Tag(), text)
			require.True(t, ok, text)
			assert.Equal(t, raw, parsed)
		})
	}
}

func TestGenerators_EntropyFailure(t *testing.T) {
	boom := errors.New("boom")
	opts := []Option{WithEntropy(iotest.ErrReader(boom))}

	_, err := NewUUID(1, opts...)
	assert.ErrorIs(t, err, boom)
	_, err = NewObjectID(opts...)
	assert.ErrorIs(t, err, boom)
	_, err = NewCUID2(0, opts...)
	assert.ErrorIs(t, err, boom)

	v4, err := NewUUID(4, opts...)
	require.NoError(t, err)
	_, err = v4.Generate()
	assert.ErrorIs(t, err, boom)

	_, err = NewMonotonicULID(opts...).Generate()
	assert.ErrorIs(t, err, boom)
	_, err = NewKSUID(opts...).Generate()
	assert.ErrorIs(t, err, boom)
}

func TestIncrement(t *testing.T) {
	b := []byte{0x00, 0xFF}
	assert.True(t, increment(b))
	assert.Equal(t, []byte{0x01, 0x00}, b)

	b = []byte{0xFF, 0xFF}
	assert.False(t, increment(b))
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, xerrors.CodeClockMovedBackwards, xerrors.GetCode(ErrClockMovedBackwards))
	assert.Equal(t, xerrors.CodeRandomOverflow, xerrors.GetCode(ErrRandomOverflow))
	assert.Equal(t, xerrors.CodeSequenceExhausted, xerrors.GetCode(ErrSequenceExhausted))
	assert.Equal(t, xerrors.CodeInvalidInput, xerrors.GetCode(ErrInvalidInput))
}

func TestSequenceExhausted_StuckClock(t *testing.T) {
	saved := sequenceWait
	sequenceWait = 10 * time.Millisecond
	t.Cleanup(func() { sequenceWait = saved })

	tests := []struct {
		name     string
		capacity int
		build    func(c Clock) (func() (int64, error), error)
	}{
		{
			name:     "snowflake",
			capacity: maxSnowflakeSequence + 1,
			build: func(c Clock) (func() (int64, error), error) {
				g, err := NewSnowflake(&SnowflakeConfig{}, WithClock(c))
				if err != nil {
					return nil, err
				}
				return g.Next, nil
			},
		},
		{
			name:     "tsid",
			capacity: maxTSIDCounter + 1,
			build: func(c Clock) (func() (int64, error), error) {
				g, err := NewTSID(&TSIDConfig{}, WithClock(c))
				if err != nil {
					return nil, err
				}
				return g.Next, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := testkit.NewClock(refTime)
			next, err := tt.build(clock)
			require.NoError(t, err)

			seen := make(map[int64]struct{}, tt.capacity)
			for i := 0; i < tt.capacity; i++ {
				id, err := next()
				require.NoError(t, err)
				seen[id] = struct{}{}
			}
			require.Len(t, seen, tt.capacity)

			// 时钟不前进时不会阻塞，也不会回绕出重复 ID
			for i := 0; i < 2; i++ {
				_, err = next()
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSequenceExhausted)
				assert.Equal(t, xerrors.CodeSequenceExhausted, xerrors.GetCode(err))
			}

			clock.Advance(time.Millisecond)
			id, err := next()
			require.NoError(t, err)
			assert.NotContains(t, seen, id)
		})
	}
}
