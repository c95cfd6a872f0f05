package detect

import (
	"fmt"
	"strings"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

var (
	// ErrStructuralMismatch 输入不符合指定格式
	ErrStructuralMismatch = xerrors.Sentinel(xerrors.CodeStructuralMismatch, "detect: input does not match id type")

	// ErrNoMatch 自动检测时没有任何格式匹配
	ErrNoMatch = xerrors.Sentinel(xerrors.CodeStructuralMismatch, "detect: no recognized id format")

	// ErrAmbiguous 多个格式同时匹配，需要调用方提供类型提示
	ErrAmbiguous = xerrors.Sentinel(xerrors.CodeAmbiguousMatch, "detect: input matches several id types")
)

// MismatchError 带类型提示的解析失败
type MismatchError struct {
	Tag   idtype.Tag
	Input string
	Hint  string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("detect: %q is not a valid %s", e.Input, e.Tag)
	if e.Hint != "" {
		msg += " (hint: " + e.Hint + ")"
	}
	return msg
}

func (e *MismatchError) Unwrap() error { return ErrStructuralMismatch }

// AmbiguousError 列出全部候选，顺序与检测优先级一致
type AmbiguousError struct {
	Input      string
	Candidates []Result
}

func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.Tag.String()
	}
	return fmt.Sprintf("detect: %q is ambiguous between %s; pass a type hint", e.Input, strings.Join(names, ", "))
}

func (e *AmbiguousError) Unwrap() error { return ErrAmbiguous }

// Tags 返回候选格式
func (e *AmbiguousError) Tags() []idtype.Tag {
	out := make([]idtype.Tag, len(e.Candidates))
	for i, c := range e.Candidates {
		out[i] = c.Tag
	}
	return out
}
