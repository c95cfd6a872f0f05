package idkit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/idkit/detect"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/multibase"
)

const sampleUUID = "550e8400-e29b-41d4-a716-446655440000"

func TestToolkit_Encode(t *testing.T) {
	kit := newKit(t, nil)
	res, err := kit.Detect(sampleUUID)
	require.NoError(t, err)

	tests := []struct {
		enc  multibase.Encoding
		c    multibase.Case
		want string
	}{
		{multibase.Hex, multibase.CaseAsIs, "550e8400e29b41d4a716446655440000"},
		{multibase.Hex, multibase.CaseUpper, "550E8400E29B41D4A716446655440000"},
		{multibase.Int, multibase.CaseAsIs, "113059749145936325402354257176981405696"},
		{multibase.Base64, multibase.CaseAsIs, "VQ6EAOKbQdSnFkRmVUQAAA=="},
		{multibase.Base32, multibase.CaseAsIs, "KUHIIAHCTNA5JJYWIRTFKRAAAA"},
		{multibase.Base32, multibase.CaseLower, "kuhiiahctna5jjywirtfkraaaa"},
		{multibase.Base58, multibase.CaseAsIs, "BWBeN28Vb7cMEx7Ym8AUzs"},
		{EncodingCanonical, multibase.CaseAsIs, sampleUUID},
		{EncodingCanonical, multibase.CaseUpper, "550E8400-E29B-41D4-A716-446655440000"},
	}
	for _, tt := range tests {
		t.Run(string(tt.enc), func(t *testing.T) {
			got, err := kit.Encode(res.Raw, tt.enc, tt.c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolkit_Encode_Errors(t *testing.T) {
	kit := newKit(t, nil)
	uuidRes, err := kit.Detect(sampleUUID)
	require.NoError(t, err)
	ksuidRes, err := kit.Detect("0ujtsYcgvSTl8PAuAdqWYSMnLOv")
	require.NoError(t, err)

	_, err = kit.Encode(uuidRes.Raw, multibase.Base64, multibase.CaseUpper)
	assert.ErrorIs(t, err, multibase.ErrCaseUnsafe)

	_, err = kit.Encode(ksuidRes.Raw, EncodingCanonical, multibase.CaseLower)
	assert.ErrorIs(t, err, multibase.ErrCaseUnsafe)

	_, err = kit.Encode(uuidRes.Raw, multibase.Encoding("base7"), multibase.CaseAsIs)
	assert.ErrorIs(t, err, multibase.ErrEncode)

	_, err = kit.Encode(idtype.RawID{}, multibase.Hex, multibase.CaseAsIs)
	assert.ErrorIs(t, err, multibase.ErrEncode)
}

func TestToolkit_Convert(t *testing.T) {
	kit := newKit(t, nil)

	got, err := kit.Convert("01ARZ3NDEKTSV4RRFFQ69G5FAV", multibase.Hex, multibase.CaseAsIs)
	require.NoError(t, err)
	assert.Equal(t, "01563e3ab5d3d6764c61efb99302bd5b", got)

	got, err = kit.Convert("01ARZ3NDEKTSV4RRFFQ69G5FAV", EncodingCanonical, multibase.CaseLower)
	require.NoError(t, err)
	assert.Equal(t, "01arz3ndektsv4rrffq69g5fav", got)

	got, err = kit.Convert("550e8400e29b41d4a716446655440000", EncodingCanonical, multibase.CaseAsIs,
		detect.WithHint(idtype.UUID))
	require.NoError(t, err)
	assert.Equal(t, sampleUUID, got)

	_, err = kit.Convert("abcdef0123456789abcdef01", multibase.Hex, multibase.CaseAsIs)
	assert.ErrorIs(t, err, detect.ErrAmbiguous)
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("canonical")
	require.NoError(t, err)
	assert.Equal(t, EncodingCanonical, enc)

	enc, err = ParseEncoding("b58")
	require.NoError(t, err)
	assert.Equal(t, multibase.Base58, enc)

	_, err = ParseEncoding("rot13")
	assert.ErrorIs(t, err, multibase.ErrUnknownEncoding)
}

func TestToolkit_Inspect(t *testing.T) {
	t.Run("ulid", func(t *testing.T) {
		kit := newKit(t, nil)
		in, err := kit.Inspect(" 01ARZ3NDEKTSV4RRFFQ69G5FAV ")
		require.NoError(t, err)

		assert.Equal(t, idtype.ULID, in.Tag)
		assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", in.Input)
		assert.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", in.Canonical)
		assert.True(t, in.Sortable)
		require.NotNil(t, in.Timestamp)
		assert.Equal(t, int64(1469918176385), in.Timestamp.UnixMilli())
		assert.Equal(t, "2016-07-30T22:36:16.385Z", in.ISO8601)
		assert.Equal(t, time.Millisecond, in.Precision)
		assert.Equal(t, 80, in.RandomBits)
		assert.Equal(t, "01563e3ab5d3d6764c61efb99302bd5b", in.Encodings["hex"])
		assert.Len(t, in.Encodings, 5)
	})

	t.Run("snowflake with twitter epoch", func(t *testing.T) {
		kit := newKit(t, &Config{Snowflake: SnowflakeConfig{EpochName: "twitter"}})
		in, err := kit.Inspect("1541815603606036480")
		require.NoError(t, err)

		assert.Equal(t, idtype.Snowflake, in.Tag)
		require.NotNil(t, in.Timestamp)
		assert.Equal(t, int64(1656432460105), in.Timestamp.UnixMilli())

		fields := make(map[string]uint64)
		for _, c := range in.Components {
			fields[c.Name] = c.Value
		}
		assert.Equal(t, uint64(11), fields["datacenter"])
		assert.Equal(t, uint64(26), fields["worker"])
		assert.Equal(t, uint64(0), fields["sequence"])
		assert.Equal(t, "1541815603606036480", in.Encodings["int"])
	})

	t.Run("uuid v4 has no timestamp", func(t *testing.T) {
		kit := newKit(t, nil)
		in, err := kit.Inspect(sampleUUID)
		require.NoError(t, err)
		assert.Equal(t, idtype.UUIDv4, in.Tag)
		assert.Nil(t, in.Timestamp)
		assert.Empty(t, in.ISO8601)
		assert.Equal(t, 4, in.Version)
		assert.Equal(t, "RFC 9562", in.Variant)
		assert.Equal(t, 122, in.RandomBits)
	})

	t.Run("typeid prefix", func(t *testing.T) {
		kit := newKit(t, nil)
		in, err := kit.Inspect("user_01h455vb4pex5vsknk084sn02q")
		require.NoError(t, err)
		assert.Equal(t, idtype.TypeID, in.Tag)
		assert.Equal(t, "user", in.Prefix)
		assert.NotNil(t, in.Timestamp)
	})

	t.Run("no match", func(t *testing.T) {
		kit := newKit(t, nil)
		_, err := kit.Inspect("not an id!")
		assert.ErrorIs(t, err, detect.ErrNoMatch)
	})
}

func TestToolkit_Validate(t *testing.T) {
	kit := newKit(t, nil)

	tests := []struct {
		name      string
		input     string
		opts      []detect.DetectOption
		wantValid bool
		wantTag   idtype.Tag
		wantHint  string
	}{
		{name: "valid uuid", input: sampleUUID, wantValid: true, wantTag: idtype.UUIDv4},
		{name: "valid with hint", input: "12345", opts: []detect.DetectOption{detect.WithHint(idtype.Snowflake)}, wantValid: true, wantTag: idtype.Snowflake},
		{name: "ambiguous", input: "abcdef0123456789abcdef01", wantValid: true, wantTag: idtype.ObjectID, wantHint: "cuid2"},
		{name: "uuid without dashes", input: "550e8400e29b41d4a716446655440000", wantHint: "without dashes"},
		{name: "hinted mismatch", input: "not-a-ulid", opts: []detect.DetectOption{detect.WithHint(idtype.ULID)}, wantTag: idtype.ULID},
		{name: "empty", input: "  ", wantHint: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := kit.Validate(tt.input, tt.opts...)
			assert.Equal(t, tt.wantValid, v.Valid)
			assert.Equal(t, tt.wantTag, v.Tag)
			if tt.wantHint != "" {
				assert.Contains(t, v.Hint, tt.wantHint)
			}
			if tt.wantValid {
				assert.Empty(t, v.Error)
			} else {
				assert.NotEmpty(t, v.Error)
			}
		})
	}
}

func TestToolkit_StrictMode(t *testing.T) {
	kit := newKit(t, &Config{Detect: DetectConfig{Strict: true}})

	v := kit.Validate("550E8400-E29B-41D4-A716-446655440000")
	assert.False(t, v.Valid)
	assert.Contains(t, v.Hint, sampleUUID)

	assert.True(t, kit.Validate(sampleUUID).Valid)
}
