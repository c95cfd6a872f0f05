// Package idgen 生成各格式的标识符。
//
// 每个生成器都是显式持有状态的对象，不存在进程级单例；多个配置不同的
// 生成器（例如多个 worker 的 Snowflake）可以在同一进程中共存。
// 需要跨调用状态的生成器（Snowflake、单调 ULID、UUID v1/v6、TSID）用互斥锁
// 串行化，其余生成器无状态或只使用原子计数器，均可并发调用。
//
// 时间来源与随机来源通过 WithClock / WithEntropy 注入：
//
//	sf, err := idgen.NewSnowflake(&idgen.SnowflakeConfig{WorkerID: 3},
//	    idgen.WithLogger(logger),
//	    idgen.WithMeter(meter),
//	)
//	id, err := sf.Next()
package idgen

import (
	"io"

	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/xerrors"
)

// ========================================
// 接口定义 (Interface Definitions)
// ========================================

// Generator 通用生成器接口
type Generator interface {
	// Tag 返回生成的格式
	Tag() idtype.Tag

	// Generate 生成一个新的标识符
	Generate() (idtype.RawID, error)
}

// Int64Generator 支持数字 ID 的生成器 (Snowflake、TSID)
type Int64Generator interface {
	Generator
	Next() (int64, error)
}

// ========================================
// 辅助函数
// ========================================

func readEntropy(r io.Reader, b []byte) error {
	if _, err := io.ReadFull(r, b); err != nil {
		return xerrors.Wrap(err, "idgen: read entropy")
	}
	return nil
}
