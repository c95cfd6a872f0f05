// Package config 为 idkit 提供统一的配置加载能力，基于 Viper 实现。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 环境特定配置 > 基础配置
//   - 热更新支持：Watch 首次调用时开始监听配置文件
//
// 基本使用：
//
//	loader, _ := config.New(&config.Config{Name: "idkit", Paths: []string{"./config"}})
//	if err := loader.Load(ctx); err != nil {
//		return err
//	}
//
//	var cfg idkit.Config
//	if err := loader.UnmarshalKey("idkit", &cfg); err != nil {
//		return err
//	}
//
//	// 监听配置变化
//	ch, _ := loader.Watch(ctx, "idkit.snowflake.worker_id")
//	for event := range ch {
//		fmt.Printf("配置变化: %s = %v\n", event.Key, event.Value)
//	}
//
// 环境变量使用 IDKIT_ 前缀，key 中的 "." 替换为 "_"，例如 IDKIT_IDKIT_LOG_LEVEL。
// 设置 IDKIT_ENV=dev 时会在基础配置之上合并 config.dev.yaml。
package config

import (
	"context"
	"time"
)

// Loader 定义配置加载器的核心行为
// 职责：加载、解析和监听配置变化
type Loader interface {
	// Load 加载配置并初始化内部状态
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听配置变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
type Event struct {
	Key       string // 配置 key
	Value     any    // 新值
	OldValue  any    // 旧值
	Source    string // "file"
	Timestamp time.Time
}
