package idtype

import (
	"encoding/binary"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ceyewan/idkit/bitfield"
)

// rfcTime RFC 9562 附录 A 示例使用的时间点
var rfcTime = time.Date(2022, 2, 22, 19, 22, 22, 0, time.UTC)

func mustParse(t *testing.T, reg *Registry, tag Tag, s string) RawID {
	t.Helper()
	id, ok := reg.Parse(tag, s)
	require.True(t, ok, "%s should parse as %s", s, tag)
	return id
}

// ========================================
// 往返测试
// ========================================

func TestRegistry_RoundTrip(t *testing.T) {
	reg := Default()
	tests := []struct {
		tag  Tag
		text string
	}{
		{UUIDv1, "c232ab00-9414-11ec-b3c8-9f6bdeced846"},
		{UUIDv3, "6fa459ea-ee8a-3ca4-894e-db77e160355e"},
		{UUIDv4, "550e8400-e29b-41d4-a716-446655440000"},
		{UUIDv5, "886313e1-3b8a-5372-9b90-0c9aee199e5d"},
		{UUIDv6, "1ec9414c-232a-6b00-b3c8-9f6bdeced846"},
		{UUIDv7, "017f22e2-79b0-7cc3-98c4-dc0c0c07398f"},
		{UUIDNil, "00000000-0000-0000-0000-000000000000"},
		{UUIDMax, "ffffffff-ffff-ffff-ffff-ffffffffffff"},
		{ULID, "01ARZ3NDEKTSV4RRFFQ69G5FAV"},
		{ULID, "7ZZZZZZZZZZZZZZZZZZZZZZZZZ"},
		{KSUID, "0ujtsYcgvSTl8PAuAdqWYSMnLOv"},
		{KSUID, "aWgEPTl1tmebfsQzooKNn2ZkUO6"},
		{KSUID, "000000000000000000000000000"},
		{Snowflake, "1541815603606036480"},
		{Snowflake, "0"},
		{ObjectID, "507f1f77bcf86cd799439011"},
		{XID, "9m4e2mr0ui3e8a215n4g"},
		{TSID, "0AWE5HZP3SKTK"},
		{TypeID, "user_01h455vb4pex5vsknk084sn02q"},
		{TypeID, "01h455vb4pex5vsknk084sn02q"},
		{CUID, "cjld2cjxh0000qzrmn831i7rn"},
		{CUID2, "tz4a98xxat96iws9zmbrgj3a"},
		{NanoID, "V1StGXR8_Z5jdHi6B-myT"},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.text, func(t *testing.T) {
			id := mustParse(t, reg, tt.tag, tt.text)
			assert.Equal(t, tt.tag, id.Tag())
			canonical := reg.Canonical(id)
			assert.Equal(t, tt.text, canonical)

			again := mustParse(t, reg, tt.tag, canonical)
			assert.Equal(t, id, again)
		})
	}
}

func TestRegistry_RejectsMalformed(t *testing.T) {
	reg := Default()
	tests := []struct {
		name string
		tag  Tag
		text string
	}{
		{"uuid bad dash", UUIDv4, "550e8400e-29b-41d4-a716-446655440000"},
		{"uuid wrong version", UUIDv7, "550e8400-e29b-41d4-a716-446655440000"},
		{"uuid wrong variant", UUIDv4, "550e8400-e29b-41d4-c716-446655440000"},
		{"uuid bad hex", UUID, "550e8400-e29b-41d4-a716-44665544000g"},
		{"uuid no dashes strict codec", UUIDv4, "550e8400e29b41d4a716446655440000"},
		{"ulid overflow", ULID, "80000000000000000000000000"},
		{"ulid short", ULID, "01ARZ3NDEKTSV4RRFFQ69G5FA"},
		{"ulid letter U", ULID, "01ARZ3NDEKTSV4RRFFQ69G5FAU"},
		{"ksuid overflow", KSUID, "aWgEPTl1tmebfsQzooKNn2ZkUO7"},
		{"ksuid bad char", KSUID, "0ujtsYcgvSTl8PAuAdqWYSMnLO-"},
		{"snowflake 2^63", Snowflake, "9223372036854775808"},
		{"snowflake negative", Snowflake, "-1"},
		{"snowflake empty", Snowflake, ""},
		{"objectid short", ObjectID, "507f1f77bcf86cd79943901"},
		{"xid trailing bits", XID, "9m4e2mr0ui3e8a215n4h"},
		{"xid uppercase", XID, "9M4E2MR0UI3E8A215N4G"},
		{"tsid overflow", TSID, "G000000000000"},
		{"typeid uppercase prefix", TypeID, "User_01h455vb4pex5vsknk084sn02q"},
		{"typeid uppercase suffix", TypeID, "user_01H455VB4PEX5VSKNK084SN02Q"},
		{"typeid overflow", TypeID, "user_81h455vb4pex5vsknk084sn02q"},
		{"typeid empty prefix", TypeID, "_01h455vb4pex5vsknk084sn02q"},
		{"cuid no c", CUID, "xjld2cjxh0000qzrmn831i7rn"},
		{"cuid2 leading digit", CUID2, "1z4a98xxat96iws9zmbrgj3a"},
		{"cuid2 uppercase", CUID2, "Tz4a98xxat96iws9zmbrgj3a"},
		{"cuid2 too long", CUID2, strings.Repeat("a", 33)},
		{"nanoid inner space", NanoID, "V1StGXR8 Z5jdHi6B-myT"},
		{"nanoid non ascii", NanoID, "V1StGXR8\xe4Z5jdHi6B-myT"},
		{"nanoid too short", NanoID, "V"},
		{"unknown tag", Unknown, "anything"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := reg.Parse(tt.tag, tt.text)
			assert.False(t, ok)
		})
	}
}

func TestRegistry_ParseTrimsSpace(t *testing.T) {
	id := mustParse(t, Default(), ULID, "  01ARZ3NDEKTSV4RRFFQ69G5FAV\n")
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", Default().Canonical(id))
}

// ========================================
// UUID 测试
// ========================================

func TestUUID_GenericRefinesVersion(t *testing.T) {
	reg := Default()
	inputs := []string{
		"550e8400-e29b-41d4-a716-446655440000",
		"550E8400-E29B-41D4-A716-446655440000",
		"550e8400e29b41d4a716446655440000",
		"{550e8400-e29b-41d4-a716-446655440000}",
		"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			id := mustParse(t, reg, UUID, in)
			assert.Equal(t, UUIDv4, id.Tag())
			assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", reg.Canonical(id))
		})
	}

	id := mustParse(t, reg, UUID, "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, UUIDNil, id.Tag())

	// 版本 2 没有专门的编解码器，保持通用 uuid
	id = mustParse(t, reg, UUID, "000003e8-b2f0-21ec-8000-0242ac110002")
	assert.Equal(t, UUID, id.Tag())
}

func TestUUID_MatchesGoogleUUID(t *testing.T) {
	reg := Default()
	gens := map[Tag]func() uuid.UUID{
		UUIDv1: func() uuid.UUID { return uuid.Must(uuid.NewUUID()) },
		UUIDv3: func() uuid.UUID { return uuid.NewMD5(uuid.NameSpaceDNS, []byte("example.com")) },
		UUIDv4: uuid.New,
		UUIDv5: func() uuid.UUID { return uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://example.com")) },
		UUIDv6: func() uuid.UUID { return uuid.Must(uuid.NewV6()) },
		UUIDv7: func() uuid.UUID { return uuid.Must(uuid.NewV7()) },
	}
	for tag, gen := range gens {
		t.Run(tag.String(), func(t *testing.T) {
			u := gen()
			id := mustParse(t, reg, tag, u.String())
			assert.Equal(t, u[:], id.Bytes())
			assert.Equal(t, u.String(), reg.Canonical(id))

			f, ok := reg.Fields(id)
			require.True(t, ok)
			assert.Equal(t, int(u.Version()), f.Version)
			assert.Equal(t, "RFC 9562", f.Variant)
		})
	}
}

func TestUUID_TimeFields(t *testing.T) {
	reg := Default()
	tests := []struct {
		tag       Tag
		text      string
		precision time.Duration
	}{
		{UUIDv1, "c232ab00-9414-11ec-b3c8-9f6bdeced846", 100 * time.Nanosecond},
		{UUIDv6, "1ec9414c-232a-6b00-b3c8-9f6bdeced846", 100 * time.Nanosecond},
		{UUIDv7, "017f22e2-79b0-7cc3-98c4-dc0c0c07398f", time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			f, ok := reg.Fields(mustParse(t, reg, tt.tag, tt.text))
			require.True(t, ok)
			ts, ok := f.Timestamp()
			require.True(t, ok)
			assert.True(t, rfcTime.Equal(ts), "got %s", ts)
			assert.Equal(t, tt.precision, f.Precision)
		})
	}

	f, _ := reg.Fields(mustParse(t, reg, UUIDv1, "c232ab00-9414-11ec-b3c8-9f6bdeced846"))
	clockSeq, _ := f.Component("clock_seq")
	assert.Equal(t, uint64(0x33c8), clockSeq)
	node, _ := f.Component("node")
	assert.Equal(t, uint64(0x9f6bdeced846), node)
}

func TestUUID_NilMaxHaveNoFields(t *testing.T) {
	reg := Default()
	for _, tag := range []Tag{UUIDNil, UUIDMax, CUID2} {
		id, err := New(tag, make([]byte, 16))
		require.NoError(t, err)
		_, ok := reg.Fields(id)
		assert.False(t, ok, tag.String())
	}
}

func TestGregorianTicks(t *testing.T) {
	assert.Equal(t, uint64(0x1ec9414c232ab00), GregorianTicks(rfcTime))
	assert.True(t, gregorianTime(GregorianTicks(rfcTime)).Equal(rfcTime))
}

// ========================================
// 其他格式测试
// ========================================

func TestULID_MatchesOklog(t *testing.T) {
	reg := Default()
	for _, s := range []string{"01ARZ3NDEKTSV4RRFFQ69G5FAV", ulid.Make().String()} {
		want := ulid.MustParse(s)
		id := mustParse(t, reg, ULID, s)
		assert.Equal(t, want.Bytes(), id.Bytes())

		f, ok := reg.Fields(id)
		require.True(t, ok)
		assert.Equal(t, int64(want.Time()), f.Time.UnixMilli())
		assert.Equal(t, 80, f.RandomBits)
	}

	// 小写同样可以解析，规范形式为大写
	id := mustParse(t, reg, ULID, "01arz3ndektsv4rrffq69g5fav")
	assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", reg.Canonical(id))
}

func TestKSUID_MatchesSegmentio(t *testing.T) {
	reg := Default()
	for _, s := range []string{"0ujtsYcgvSTl8PAuAdqWYSMnLOv", ksuid.New().String()} {
		want, err := ksuid.Parse(s)
		require.NoError(t, err)
		id := mustParse(t, reg, KSUID, s)
		assert.Equal(t, want.Bytes(), id.Bytes())

		f, ok := reg.Fields(id)
		require.True(t, ok)
		assert.True(t, want.Time().Equal(f.Time))
		assert.Equal(t, time.Second, f.Precision)
	}
}

func TestObjectID_MatchesBSON(t *testing.T) {
	reg := Default()
	for _, s := range []string{"507f1f77bcf86cd799439011", bson.NewObjectID().Hex()} {
		want, err := bson.ObjectIDFromHex(s)
		require.NoError(t, err)
		id := mustParse(t, reg, ObjectID, s)
		assert.Equal(t, want[:], id.Bytes())

		f, ok := reg.Fields(id)
		require.True(t, ok)
		assert.True(t, want.Timestamp().Equal(f.Time))
	}

	id := mustParse(t, reg, ObjectID, "507F1F77BCF86CD799439011")
	assert.Equal(t, "507f1f77bcf86cd799439011", reg.Canonical(id))
}

func TestXID_Fields(t *testing.T) {
	reg := Default()
	raw := []byte{0x4d, 0x88, 0xe1, 0x5b, 0x60, 0xf4, 0x86, 0xe4, 0x28, 0x41, 0x2d, 0xc9}
	id := MustNew(XID, raw)
	text := reg.Canonical(id)
	assert.Equal(t, "9m4e2mr0ui3e8a215n4g", text)

	f, ok := reg.Fields(id)
	require.True(t, ok)
	assert.Equal(t, int64(0x4d88e15b), f.Time.Unix())
	pid, _ := f.Component("pid")
	assert.Equal(t, uint64(0xe428), pid)
	counter, _ := f.Component("counter")
	assert.Equal(t, uint64(0x412dc9), counter)
}

func TestSnowflake_Fields(t *testing.T) {
	b, err := bitfield.Pack(layoutSnowflake, map[string]uint64{
		"timestamp":  1000,
		"datacenter": 3,
		"worker":     17,
		"sequence":   42,
	})
	require.NoError(t, err)

	for _, epoch := range []int64{EpochUnix, EpochTwitter, EpochDiscord} {
		reg := NewRegistry(WithSnowflakeEpoch(epoch))
		id := MustNew(Snowflake, b)
		text := reg.Canonical(id)
		assert.Equal(t, id, mustParse(t, reg, Snowflake, text))

		f, ok := reg.Fields(id)
		require.True(t, ok)
		assert.Equal(t, epoch+1000, f.Time.UnixMilli())
		for name, want := range map[string]uint64{"datacenter": 3, "worker": 17, "sequence": 42} {
			got, _ := f.Component(name)
			assert.Equal(t, want, got, name)
		}
	}
}

func TestTSID_Tolerance(t *testing.T) {
	reg := Default()
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, 0x0123456789abcdef)
	id := MustNew(TSID, b)
	canonical := reg.Canonical(id)
	assert.Len(t, canonical, 13)

	variants := []string{
		strings.ToLower(canonical),
		strings.ReplaceAll(canonical, "0", "O"),
		strings.ReplaceAll(canonical, "1", "L"),
		strings.ReplaceAll(canonical, "1", "i"),
	}
	for _, v := range variants {
		assert.Equal(t, id, mustParse(t, reg, TSID, v), v)
	}
	// 别名只用于指定类型解析
	assert.True(t, reg.Candidate(TSID, strings.ToLower(canonical)))
	assert.False(t, reg.Candidate(TSID, strings.ReplaceAll(canonical, "0", "O")))

	max := MustNew(TSID, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Equal(t, "FZZZZZZZZZZZZ", reg.Canonical(max))
}

func TestTSID_Fields(t *testing.T) {
	b, err := bitfield.Pack(layoutTSID, map[string]uint64{"timestamp": 5000, "node": 7, "counter": 9})
	require.NoError(t, err)
	f, ok := Default().Fields(MustNew(TSID, b))
	require.True(t, ok)
	assert.Equal(t, TSIDEpoch+5000, f.Time.UnixMilli())
	node, _ := f.Component("node")
	assert.Equal(t, uint64(7), node)
}

func TestTypeID_SharesULIDEncoding(t *testing.T) {
	reg := Default()
	u := uuid.Must(uuid.NewV7())
	id, err := NewTypeID("order", u[:])
	require.NoError(t, err)

	want := "order_" + strings.ToLower(ulid.ULID(u).String())
	assert.Equal(t, want, reg.Canonical(id))

	f, ok := reg.Fields(id)
	require.True(t, ok)
	assert.Equal(t, 7, f.Version)
	assert.True(t, f.HasTime)

	tests := map[string]byte{
		"0000000000000000000000000g": 0x10,
		"00000000000000000000000010": 0x20,
	}
	for text, last := range tests {
		id := mustParse(t, reg, TypeID, text)
		b := id.Bytes()
		assert.Equal(t, last, b[15], text)
		assert.Empty(t, id.Prefix())
	}
	max := mustParse(t, reg, TypeID, "7zzzzzzzzzzzzzzzzzzzzzzzzz")
	assert.Equal(t, strings.Repeat("\xff", 16), string(max.Bytes()))

	nested := mustParse(t, reg, TypeID, "a_b_01h455vb4pex5vsknk084sn02q")
	assert.Equal(t, "a_b", nested.Prefix())
}

func TestCUID_Fields(t *testing.T) {
	f, ok := Default().Fields(mustParse(t, Default(), CUID, "cjld2cjxh0000qzrmn831i7rn"))
	require.True(t, ok)
	assert.Equal(t, 2018, f.Time.Year())
	counter, _ := f.Component("counter")
	assert.Equal(t, uint64(0), counter)
}

func TestNanoID_RandomBits(t *testing.T) {
	f, ok := Default().Fields(mustParse(t, Default(), NanoID, "V1StGXR8_Z5jdHi6B-myT"))
	require.True(t, ok)
	assert.Equal(t, 126, f.RandomBits)
	assert.False(t, f.HasTime)
}

// ========================================
// 自动检测条件
// ========================================

func TestRegistry_Candidate(t *testing.T) {
	reg := Default()
	tests := []struct {
		tag  Tag
		text string
		want bool
	}{
		{UUID, "550e8400-e29b-41d4-a716-446655440000", false},
		{UUID, "000003e8-b2f0-21ec-8000-0242ac110002", true},
		{UUID, "550e8400e29b41d4a716446655440000", false},
		{TypeID, "01h455vb4pex5vsknk084sn02q", false},
		{TypeID, "user_01h455vb4pex5vsknk084sn02q", true},
		{Snowflake, "12345", false},
		{Snowflake, "1541815603606036480", true},
		{NanoID, "V1StGXR8_Z5jdHi6B-myT", true},
		{NanoID, "V1StGXR8", false},
		{NanoID, "V1StGXR8_Z5jdHi6B+myT", false},
		{TSID, "0AWE5HZP3SKTK", true},
		{TSID, "0awe5hzp3sktk", true},
		{TSID, "0helloworldab", false},
		{TSID, "0AWE5HZP3SKTO", false},
		{CUID2, "tz4a98xxat96iws9zmbrgj3a", true},
		{CUID2, "tz4a98", false},
		{ULID, "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String()+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, reg.Candidate(tt.tag, tt.text))
		})
	}
}
