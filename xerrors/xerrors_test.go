package xerrors

import (
	"errors"
	"testing"
)

func TestWrap(t *testing.T) {
	if err := Wrap(nil, "context"); err != nil {
		t.Errorf("Wrap(nil) = %v，期望 nil", err)
	}

	base := errors.New("bad alphabet")
	wrapped := Wrap(base, "decode base58")
	if wrapped.Error() != "decode base58: bad alphabet" {
		t.Errorf("Wrap(err).Error() = %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("errors.Is(wrapped, base) = false，期望 true")
	}
}

func TestWrapf(t *testing.T) {
	if err := Wrapf(nil, "field %s", "worker"); err != nil {
		t.Errorf("Wrapf(nil) = %v，期望 nil", err)
	}

	base := errors.New("too wide")
	wrapped := Wrapf(base, "field %s", "worker")
	if wrapped.Error() != "field worker: too wide" {
		t.Errorf("Wrapf(err).Error() = %q", wrapped.Error())
	}
}

func TestSentinel(t *testing.T) {
	errLayout := Sentinel(CodeLayout, "value exceeds field width")

	if errLayout.Error() != "[layout_error] value exceeds field width" {
		t.Errorf("Sentinel.Error() = %q", errLayout.Error())
	}

	// 哨兵错误被多层包装后，错误码和 errors.Is 都应保持
	wrapped := Wrapf(Wrap(errLayout, "pack"), "snowflake")
	if !errors.Is(wrapped, errLayout) {
		t.Error("errors.Is(wrapped, sentinel) = false，期望 true")
	}
	if code := GetCode(wrapped); code != CodeLayout {
		t.Errorf("GetCode(wrapped) = %q，期望 %q", code, CodeLayout)
	}

	// 不同哨兵即使码相同也不相等
	other := Sentinel(CodeLayout, "value exceeds field width")
	if errors.Is(other, errLayout) {
		t.Error("不同哨兵不应相等")
	}
}

func TestWithCode(t *testing.T) {
	if err := WithCode(nil, CodeDecode); err != nil {
		t.Errorf("WithCode(nil) = %v，期望 nil", err)
	}

	coded := WithCode(errors.New("odd length"), CodeDecode)
	if coded.Error() != "[decode_error] odd length" {
		t.Errorf("WithCode(err).Error() = %q", coded.Error())
	}
	if code := GetCode(coded); code != CodeDecode {
		t.Errorf("GetCode(coded) = %q，期望 %q", code, CodeDecode)
	}
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode(plain) = %q，期望空", code)
	}
}

func TestWithHint(t *testing.T) {
	if err := WithHint(nil, "add dashes"); err != nil {
		t.Errorf("WithHint(nil) = %v，期望 nil", err)
	}

	base := Sentinel(CodeStructuralMismatch, "not a uuid")
	if got := WithHint(base, ""); got != base {
		t.Error("空 hint 应原样返回")
	}

	hinted := WithHint(base, "looks like a UUID without dashes")
	if hinted.Error() != "[structural_mismatch] not a uuid (hint: looks like a UUID without dashes)" {
		t.Errorf("WithHint(err).Error() = %q", hinted.Error())
	}
	if hint := GetHint(Wrap(hinted, "detect")); hint != "looks like a UUID without dashes" {
		t.Errorf("GetHint = %q", hint)
	}
	if code := GetCode(hinted); code != CodeStructuralMismatch {
		t.Errorf("GetCode(hinted) = %q，期望 %q", code, CodeStructuralMismatch)
	}
	if hint := GetHint(base); hint != "" {
		t.Errorf("GetHint(base) = %q，期望空", hint)
	}
}

func TestMust(t *testing.T) {
	if v := Must(42, nil); v != 42 {
		t.Errorf("Must(42, nil) = %d，期望 42", v)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Must(_, err) 未触发 panic")
		}
	}()
	Must(0, errors.New("error"))
}

func TestCombine(t *testing.T) {
	if err := Combine(); err != nil {
		t.Errorf("Combine() = %v，期望 nil", err)
	}
	if err := Combine(nil, nil); err != nil {
		t.Errorf("Combine(nil, nil) = %v，期望 nil", err)
	}

	err1 := errors.New("error 1")
	if err := Combine(nil, err1); err != err1 {
		t.Errorf("Combine(nil, err1) = %v，期望 err1", err)
	}

	err2 := errors.New("error 2")
	combined := Combine(err1, nil, err2)
	if !errors.Is(combined, err1) || !errors.Is(combined, err2) {
		t.Errorf("Combine 应保留所有错误: %v", combined)
	}
}
