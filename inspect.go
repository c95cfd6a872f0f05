package idkit

import (
	"errors"
	"strings"
	"time"

	"github.com/ceyewan/idkit/detect"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/multibase"
	"github.com/ceyewan/idkit/xerrors"
)

// inspectEncodings Inspect 默认给出的编码
var inspectEncodings = []multibase.Encoding{
	multibase.Hex, multibase.Base32, multibase.Base58, multibase.Base64, multibase.Int,
}

// Inspection 一个标识符的完整解读
type Inspection struct {
	Tag         idtype.Tag         `json:"type"`
	Input       string             `json:"input"`
	Canonical   string             `json:"canonical"`
	Description string             `json:"description"`
	Prefix      string             `json:"prefix,omitempty"` // TypeID 类型前缀
	Timestamp   *time.Time         `json:"timestamp,omitempty"`
	ISO8601     string             `json:"iso8601,omitempty"`
	Precision   time.Duration      `json:"precision,omitempty"`
	Version     int                `json:"version,omitempty"`
	Variant     string             `json:"variant,omitempty"`
	RandomBits  int                `json:"random_bits,omitempty"`
	Sortable    bool               `json:"sortable"`
	Components  []idtype.Component `json:"components,omitempty"`
	Encodings   map[string]string  `json:"encodings"`
}

// Inspect 识别 text 并给出字段与常用编码
func (t *Toolkit) Inspect(text string, opts ...detect.DetectOption) (Inspection, error) {
	res, err := t.detector.Detect(text, opts...)
	if err != nil {
		return Inspection{}, err
	}

	d := idtype.Describe(res.Tag)
	in := Inspection{
		Tag:         res.Tag,
		Input:       strings.TrimSpace(text),
		Canonical:   res.Canonical,
		Description: d.Description,
		Prefix:      res.Raw.Prefix(),
		Sortable:    d.Sortable,
		Encodings:   make(map[string]string, len(inspectEncodings)),
	}

	if f, ok := t.reg.Fields(res.Raw); ok {
		if ts, ok := f.Timestamp(); ok {
			in.Timestamp = &ts
			in.ISO8601 = ts.Format(time.RFC3339Nano)
			in.Precision = f.Precision
		}
		in.Version = f.Version
		in.Variant = f.Variant
		in.RandomBits = f.RandomBits
		in.Components = f.Components
	}

	b := res.Raw.Bytes()
	for _, enc := range inspectEncodings {
		s, err := multibase.Encode(enc, b)
		if err != nil {
			return Inspection{}, err
		}
		in.Encodings[enc.String()] = s
	}
	return in, nil
}

// Validation 校验结果。无效时 Error 与 Hint 说明原因。
type Validation struct {
	Valid bool       `json:"valid"`
	Tag   idtype.Tag `json:"type,omitempty"`
	Error string     `json:"error,omitempty"`
	Hint  string     `json:"hint,omitempty"`
}

// Validate 校验 text 是否为合法标识符，带 detect.WithHint 时校验指定格式。
//
// 同时匹配多个格式的输入视为合法，Tag 取优先级最高的候选，Hint 列出其余候选。
func (t *Toolkit) Validate(text string, opts ...detect.DetectOption) Validation {
	res, err := t.detector.Detect(text, opts...)
	if err == nil {
		return Validation{Valid: true, Tag: res.Tag}
	}

	var ambiguous *detect.AmbiguousError
	if errors.As(err, &ambiguous) {
		tags := ambiguous.Tags()
		others := make([]string, 0, len(tags)-1)
		for _, tag := range tags[1:] {
			others = append(others, tag.String())
		}
		return Validation{
			Valid: true,
			Tag:   tags[0],
			Hint:  "also matches " + strings.Join(others, ", ") + "; pass a type hint to disambiguate",
		}
	}

	v := Validation{Error: err.Error(), Hint: xerrors.GetHint(err)}
	var mismatch *detect.MismatchError
	if errors.As(err, &mismatch) {
		v.Tag = mismatch.Tag
		v.Hint = mismatch.Hint
	}
	return v
}

// Convert 识别 text 后转换为 enc 编码
func (t *Toolkit) Convert(text string, enc multibase.Encoding, c multibase.Case, opts ...detect.DetectOption) (string, error) {
	res, err := t.detector.Detect(text, opts...)
	if err != nil {
		return "", err
	}
	return t.Encode(res.Raw, enc, c)
}
