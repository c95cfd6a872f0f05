package metrics

// Label 指标标签，为指标添加维度。
//
// 标签值应当是低基数的，例如 idgen 只使用格式名称作为 type 标签，
// 不会把生成出的标识符本身写进标签。
type Label struct {
	Key   string
	Value string
}

// L 便捷构造函数
//
//	counter.Inc(ctx, metrics.L("type", "ulid"))
func L(key, value string) Label {
	return Label{
		Key:   key,
		Value: value,
	}
}
