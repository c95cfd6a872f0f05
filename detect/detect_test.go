package detect

import (
	"testing"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/nrednav/cuid2"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/testkit"
	"github.com/ceyewan/idkit/xerrors"
)

// ========================================
// 自动检测
// ========================================

func TestDetect_Auto(t *testing.T) {
	d := New()
	tests := []struct {
		input string
		want  idtype.Tag
	}{
		{"550e8400-e29b-41d4-a716-446655440000", idtype.UUIDv4},
		{"c232ab00-9414-11ec-b3c8-9f6bdeced846", idtype.UUIDv1},
		{"1ec9414c-232a-6b00-b3c8-9f6bdeced846", idtype.UUIDv6},
		{"017f22e2-79b0-7cc3-98c4-dc0c0c07398f", idtype.UUIDv7},
		{"000003e8-b2f0-21ec-8000-0242ac110002", idtype.UUID},
		{"00000000-0000-0000-0000-000000000000", idtype.UUIDNil},
		{"ffffffff-ffff-ffff-ffff-ffffffffffff", idtype.UUIDMax},
		{"01ARZ3NDEKTSV4RRFFQ69G5FAV", idtype.ULID},
		{"0ujtsYcgvSTl8PAuAdqWYSMnLOv", idtype.KSUID},
		{"507f1f77bcf86cd799439011", idtype.ObjectID},
		{"9m4e2mr0ui3e8a215n4g", idtype.XID},
		{"1541815603606036480", idtype.Snowflake},
		{"V1StGXR8_Z5jdHi6B-myT", idtype.NanoID},
		{"user_01h455vb4pex5vsknk084sn02q", idtype.TypeID},
		{"tz4a98xxat96iws9zmbrgj3a", idtype.CUID2},
		{"cjld2cjxh0000qzrmn831i7rn", idtype.CUID},
		{"0AWE5HZP3SKTK", idtype.TSID},
		{"  01ARZ3NDEKTSV4RRFFQ69G5FAV\n", idtype.ULID},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			res, err := d.Detect(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Tag)
			assert.Equal(t, tt.want, res.Raw.Tag())
			assert.NotEmpty(t, res.Canonical)
		})
	}
}

func TestDetect_ThirdPartyIDs(t *testing.T) {
	d := New()
	tests := []struct {
		name  string
		input string
		want  idtype.Tag
	}{
		{"google uuid v4", uuid.NewString(), idtype.UUIDv4},
		{"google uuid v7", uuid.Must(uuid.NewV7()).String(), idtype.UUIDv7},
		{"oklog ulid", ulid.Make().String(), idtype.ULID},
		{"segmentio ksuid", ksuid.New().String(), idtype.KSUID},
		{"go-nanoid", gonanoid.Must(), idtype.NanoID},
		{"nrednav cuid2", cuid2.Generate(), idtype.CUID2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Detect(tt.input)
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, res.Tag)
			assert.Equal(t, tt.input, res.Canonical)
		})
	}
}

func TestDetect_NoMatchHints(t *testing.T) {
	d := New()
	tests := []struct {
		input string
		hint  string
	}{
		{"550e8400e29b41d4a716446655440000", "without dashes"},
		{"550e8400-e29b-41d4-a716-44665544zzzz", "non-hex"},
		{"01ARZ3NDEKTSV4RRFFQ69G5FAU", "I, L, O and U"},
		{"9223372036854775808", "63-bit"},
		{"", "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := d.Detect(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNoMatch)
			assert.Equal(t, xerrors.CodeStructuralMismatch, xerrors.GetCode(err))
			assert.Contains(t, xerrors.GetHint(err), tt.hint)
		})
	}
}

func TestDetect_Ambiguous(t *testing.T) {
	// 24 个小写十六进制字符、以字母开头：既是 ObjectId 也是 CUID2
	input := "abcdef0123456789abcdef01"
	_, err := New().Detect(input)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAmbiguous)
	assert.Equal(t, xerrors.CodeAmbiguousMatch, xerrors.GetCode(err))

	var amb *AmbiguousError
	require.ErrorAs(t, err, &amb)
	assert.Equal(t, []idtype.Tag{idtype.ObjectID, idtype.CUID2}, amb.Tags())

	res, err := New().Detect(input, WithHint(idtype.ObjectID))
	require.NoError(t, err)
	assert.Equal(t, idtype.ObjectID, res.Tag)
}

// ========================================
// 类型提示
// ========================================

func TestDetect_Hinted(t *testing.T) {
	d := New()

	res, err := d.Detect("550e8400e29b41d4a716446655440000", WithHint(idtype.UUID))
	require.NoError(t, err)
	assert.Equal(t, idtype.UUIDv4, res.Tag)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", res.Canonical)

	// 短数字只有带提示时才按 Snowflake 解析
	res, err = d.Detect("12345", WithHint(idtype.Snowflake))
	require.NoError(t, err)
	assert.Equal(t, "12345", res.Canonical)

	// 无前缀的 TypeID 只能通过提示识别
	res, err = d.Detect("01h455vb4pex5vsknk084sn02q", WithHint(idtype.TypeID))
	require.NoError(t, err)
	assert.Equal(t, idtype.TypeID, res.Tag)

	_, err = d.Detect("not-a-ulid", WithHint(idtype.ULID))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStructuralMismatch)
	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, idtype.ULID, mm.Tag)

	_, err = d.Detect("550e8400e29b41d4a716446655440000", WithHint(idtype.UUIDv4))
	require.ErrorAs(t, err, &mm)
	assert.Contains(t, mm.Hint, "without dashes")

	_, err = d.Detect("x", WithHint(idtype.Tag(250)))
	assert.ErrorIs(t, err, idtype.ErrUnknownTag)
}

func TestDetect_AliasedAndCustomAlphabets(t *testing.T) {
	d := New()
	tests := []struct {
		name  string
		input string
		hint  idtype.Tag
		want  string
	}{
		// 'l' 与 'o' 只有在指定 TSID 时才按别名解码
		{name: "tsid aliases", input: "0helloworldab", hint: idtype.TSID, want: "0HE110W0R1DAB"},
		{name: "nanoid custom alphabet", input: "!#!ac!c#bc", hint: idtype.NanoID, want: "!#!ac!c#bc"},
		{name: "nanoid custom length", input: "0101100111", hint: idtype.NanoID, want: "0101100111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Detect(tt.input)
			assert.ErrorIs(t, err, ErrNoMatch)

			res, err := d.Detect(tt.input, WithHint(tt.hint))
			require.NoError(t, err)
			assert.Equal(t, tt.hint, res.Tag)
			assert.Equal(t, tt.want, res.Canonical)
		})
	}
}

// ========================================
// 严格模式
// ========================================

func TestDetect_Strict(t *testing.T) {
	d := New()
	upper := "550E8400-E29B-41D4-A716-446655440000"

	res, err := d.Detect(upper)
	require.NoError(t, err)
	assert.Equal(t, idtype.UUIDv4, res.Tag)

	_, err = d.Detect(upper, WithStrict())
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Contains(t, xerrors.GetHint(err), "550e8400-e29b-41d4-a716-446655440000")

	_, err = d.Detect("01arz3ndektsv4rrffq69g5fav", WithStrict(), WithHint(idtype.ULID))
	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Contains(t, mm.Hint, "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	strict := New(WithStrictMode(true))
	_, err = strict.Detect("{550e8400-e29b-41d4-a716-446655440000}", WithHint(idtype.UUID))
	assert.ErrorIs(t, err, ErrStructuralMismatch)

	res, err = strict.Detect("550e8400-e29b-41d4-a716-446655440000")
	require.NoError(t, err)
	assert.Equal(t, idtype.UUIDv4, res.Tag)
}

func TestDetect_CustomRegistry(t *testing.T) {
	reg := idtype.NewRegistry(idtype.WithSnowflakeEpoch(idtype.EpochTwitter))
	d := New(WithRegistry(reg))
	assert.Same(t, reg, d.Registry())

	res, err := d.Detect("1541815603606036480")
	require.NoError(t, err)
	f, ok := reg.Fields(res.Raw)
	require.True(t, ok)
	assert.Equal(t, 2022, f.Time.Year())
}

func TestDetect_LogsAmbiguity(t *testing.T) {
	kit := testkit.NewKit(t)

	_, _ = New(WithLogger(kit.Logger)).Detect("abcdef0123456789abcdef01")
	assert.Contains(t, kit.Logs.String(), "ambiguous input")
	assert.Contains(t, kit.Logs.String(), `"namespace":"detect"`)
}

func TestSuggest(t *testing.T) {
	assert.Empty(t, Suggest("hello"))
	assert.Contains(t, Suggest("123"), "15 to 19 digits")
	assert.Contains(t, Suggest("user_01h455"), "26 characters")
}
