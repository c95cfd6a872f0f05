package idgen

import "github.com/ceyewan/idkit/xerrors"

var (
	// ErrClockMovedBackwards 时钟回拨，Snowflake 拒绝生成以免产生重复或乱序的 ID
	ErrClockMovedBackwards = xerrors.Sentinel(xerrors.CodeClockMovedBackwards, "idgen: clock moved backwards")

	// ErrRandomOverflow 单调 ULID 在同一毫秒内耗尽了 80 位随机空间
	ErrRandomOverflow = xerrors.Sentinel(xerrors.CodeRandomOverflow, "idgen: monotonic random component overflow")

	// ErrSequenceExhausted 同一毫秒序列号耗尽，且时钟在等待上限内没有前进
	ErrSequenceExhausted = xerrors.Sentinel(xerrors.CodeSequenceExhausted, "idgen: sequence exhausted")

	// ErrInvalidInput 无效的输入
	ErrInvalidInput = xerrors.Sentinel(xerrors.CodeInvalidInput, "idgen: invalid input")
)
