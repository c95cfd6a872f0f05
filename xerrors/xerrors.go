// Package xerrors 提供 idkit 各组件共用的错误处理工具。
//
// 所有组件的错误都沿用同一套分类码（Code*），调用方可以通过 GetCode
// 判断错误属于哪一类，而不必依赖具体的哨兵错误：
//
//	raw, err := detector.Detect(text)
//	switch xerrors.GetCode(err) {
//	case xerrors.CodeAmbiguousMatch:
//		// 需要调用方提供类型提示
//	case xerrors.CodeStructuralMismatch:
//		fmt.Println(xerrors.GetHint(err))
//	}
package xerrors

import (
	"errors"
	"fmt"
)

// 错误分类码
const (
	CodeStructuralMismatch  = "structural_mismatch"
	CodeAmbiguousMatch      = "ambiguous_match"
	CodeEncode              = "encode_error"
	CodeDecode              = "decode_error"
	CodeLayout              = "layout_error"
	CodeClockMovedBackwards = "clock_moved_backwards"
	CodeRandomOverflow      = "random_overflow"
	CodeSequenceExhausted   = "sequence_exhausted"
	CodeInvalidInput        = "invalid_input"
	CodeUnsupported         = "unsupported"
)

// Wrap 用上下文信息包装错误，保留错误链。
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf 用格式化的上下文信息包装错误。
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// 错误码
// ============================================================================

// WithCode 用分类码包装错误。
func WithCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Cause: err}
}

// Sentinel 创建带分类码的哨兵错误，errors.Is 比较的是返回值本身。
func Sentinel(code, msg string) error {
	return &CodedError{Code: code, Cause: errors.New(msg)}
}

// CodedError 带有机器可读分类码的错误。
type CodedError struct {
	Code  string
	Cause error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("[%s]", e.Code)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// GetCode 从错误链中提取最外层的分类码。
func GetCode(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

// ============================================================================
// 修复建议
// ============================================================================

// WithHint 为错误附加修复建议。hint 为空时原样返回。
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	if hint == "" {
		return err
	}
	return &HintedError{Hint: hint, Cause: err}
}

// HintedError 带有修复建议的错误，例如 "looks like a UUID without dashes"。
type HintedError struct {
	Hint  string
	Cause error
}

func (e *HintedError) Error() string {
	return fmt.Sprintf("%v (hint: %s)", e.Cause, e.Hint)
}

func (e *HintedError) Unwrap() error {
	return e.Cause
}

// GetHint 从错误链中提取修复建议。
func GetHint(err error) string {
	var hinted *HintedError
	if errors.As(err, &hinted) {
		return hinted.Hint
	}
	return ""
}

// ============================================================================
// 杂项
// ============================================================================

// Must 如果 err 不为 nil，则 panic。仅用于初始化阶段。
func Must[T any](v T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("must: %v", err))
	}
	return v
}

// Combine 将多个错误合并为一个，nil 会被忽略。
func Combine(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return errors.Join(nonNil...)
	}
}

// 标准库函数再导出
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)
