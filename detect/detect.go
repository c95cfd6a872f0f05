// Package detect 从任意文本中识别标识符格式。
//
// 没有类型提示时，按 Registry.DetectionOrder 的优先级尝试全部格式并收集所有匹配：
// 恰好一个匹配时返回结果，没有匹配时返回 ErrNoMatch（附带修复建议），
// 多个匹配时返回 *AmbiguousError，调用方需要带上类型提示重新检测。
//
//	d := detect.New()
//	res, err := d.Detect("01ARZ3NDEKTSV4RRFFQ69G5FAV")
//	// res.Tag == idtype.ULID
//
//	res, err = d.Detect("550e8400e29b41d4a716446655440000")
//	// errors.Is(err, detect.ErrNoMatch)，xerrors.GetHint(err) 提示补上连字符
//
//	res, err = d.Detect("550e8400e29b41d4a716446655440000", detect.WithHint(idtype.UUID))
//	// res.Tag == idtype.UUIDv4
package detect

import (
	"strings"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// Result 检测结果
type Result struct {
	Tag       idtype.Tag
	Raw       idtype.RawID
	Canonical string
}

// Detector 格式检测器，构造后只读，可并发使用
type Detector struct {
	reg    *idtype.Registry
	strict bool
	logger clog.Logger
}

// New 创建检测器
func New(opts ...Option) *Detector {
	d := &Detector{
		reg:    idtype.Default(),
		logger: clog.Discard(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry 返回检测器使用的注册表
func (d *Detector) Registry() *idtype.Registry { return d.reg }

// Detect 识别 text 的格式
func (d *Detector) Detect(text string, opts ...DetectOption) (Result, error) {
	o := detectOptions{strict: d.strict}
	for _, opt := range opts {
		opt(&o)
	}
	input := strings.TrimSpace(text)

	if o.hint != idtype.Unknown {
		return d.detectHinted(input, o)
	}
	return d.detectAuto(input, o)
}

func (d *Detector) detectHinted(input string, o detectOptions) (Result, error) {
	if !o.hint.Valid() {
		return Result{}, xerrors.Wrapf(idtype.ErrUnknownTag, "hint %d", o.hint)
	}
	raw, ok := d.reg.Parse(o.hint, input)
	if !ok {
		return Result{}, &MismatchError{Tag: o.hint, Input: input, Hint: Suggest(input)}
	}
	res := d.result(raw)
	if o.strict && res.Canonical != input {
		return Result{}, &MismatchError{Tag: o.hint, Input: input, Hint: "not in canonical form; expected " + res.Canonical}
	}
	return res, nil
}

func (d *Detector) detectAuto(input string, o detectOptions) (Result, error) {
	matches := d.Candidates(input)

	var nonCanonical []Result
	if o.strict {
		kept := matches[:0]
		for _, m := range matches {
			if m.Canonical == input {
				kept = append(kept, m)
			} else {
				nonCanonical = append(nonCanonical, m)
			}
		}
		matches = kept
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		hint := Suggest(input)
		if len(nonCanonical) > 0 {
			hint = "not in canonical form; " + nonCanonical[0].Tag.String() + " canonical form is " + nonCanonical[0].Canonical
		}
		d.logger.Debug("no format matched", clog.String("input", input), clog.String("hint", hint))
		return Result{}, xerrors.WithHint(xerrors.Wrapf(ErrNoMatch, "%q", input), hint)
	default:
		err := &AmbiguousError{Input: input, Candidates: matches}
		d.logger.Debug("ambiguous input", clog.String("input", input), clog.Any("candidates", err.Tags()))
		return Result{}, err
	}
}

// Candidates 按优先级返回所有匹配，不做严格模式过滤
func (d *Detector) Candidates(text string) []Result {
	input := strings.TrimSpace(text)
	var out []Result
	for _, tag := range d.reg.DetectionOrder() {
		if !d.reg.Candidate(tag, input) {
			continue
		}
		if raw, ok := d.reg.Parse(tag, input); ok {
			out = append(out, d.result(raw))
		}
	}
	return out
}

func (d *Detector) result(raw idtype.RawID) Result {
	return Result{Tag: raw.Tag(), Raw: raw, Canonical: d.reg.Canonical(raw)}
}
