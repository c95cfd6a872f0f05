package config

import "github.com/ceyewan/idkit/xerrors"

var (
	// ErrInvalidConfig 加载器配置不合法
	ErrInvalidConfig = xerrors.Sentinel(xerrors.CodeInvalidInput, "config: invalid loader config")

	// ErrValidationFailed 加载结果验证失败
	ErrValidationFailed = xerrors.Sentinel(xerrors.CodeInvalidInput, "config: validation failed")

	// ErrNotLoaded 在 Load 之前调用了 Watch
	ErrNotLoaded = xerrors.Sentinel(xerrors.CodeInvalidInput, "config: loader not loaded")
)

// IsInvalidInput 检查错误是否为配置格式无效或验证失败
func IsInvalidInput(err error) bool {
	return xerrors.GetCode(err) == xerrors.CodeInvalidInput
}
