package idkit

import (
	"github.com/ceyewan/idkit/xerrors"
)

var (
	// ErrInvalidConfig 配置不合法
	ErrInvalidConfig = xerrors.Sentinel(xerrors.CodeInvalidInput, "idkit: invalid config")

	// ErrUnsupported 请求的格式或编码不支持该操作
	ErrUnsupported = xerrors.Sentinel(xerrors.CodeUnsupported, "idkit: unsupported operation")
)
