package idgen

import (
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// TypeID TypeID 生成器：类型前缀 + UUIDv7
type TypeID struct {
	prefix string
	v7     *UUIDGenerator
}

// NewTypeID 创建 TypeID 生成器，prefix 为 1 到 63 个 [a-z_]，可以为空
func NewTypeID(prefix string, opts ...Option) (*TypeID, error) {
	// 用空字节校验前缀，避免在构造时消耗随机数
	if _, err := idtype.NewTypeID(prefix, make([]byte, 16)); err != nil {
		return nil, xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "typeid prefix %q", prefix), "invalid_prefix")
	}

	v7, err := NewUUID(7, opts...)
	if err != nil {
		return nil, err
	}
	v7.metrics = newInstruments(idtype.TypeID, applyOptions(opts))
	return &TypeID{prefix: prefix, v7: v7}, nil
}

// Tag 实现 Generator
func (g *TypeID) Tag() idtype.Tag { return idtype.TypeID }

// Prefix 返回类型前缀
func (g *TypeID) Prefix() string { return g.prefix }

// Generate 生成 TypeID
func (g *TypeID) Generate() (idtype.RawID, error) {
	raw, err := g.v7.Generate()
	if err != nil {
		return idtype.RawID{}, err
	}
	return idtype.NewTypeID(g.prefix, raw.Bytes())
}
