package idgen

import (
	"context"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/idtype"
	"github.com/ceyewan/idkit/metrics"
)

// Metrics 指标常量定义
const (
	// MetricGenerated 生成的标识符总数 (Counter)，标签 type
	MetricGenerated = "idgen_generated_total"

	// MetricClockBackwards 检测到的时钟回拨次数 (Counter)，标签 type
	MetricClockBackwards = "idgen_clock_backwards_total"
)

// instruments 每个生成器持有的一组计数器
type instruments struct {
	tag       idtype.Tag
	generated metrics.Counter
	backwards metrics.Counter
	logger    clog.Logger
}

func newInstruments(tag idtype.Tag, o *Options) *instruments {
	in := &instruments{tag: tag, logger: o.Logger.With(clog.String("type", tag.String()))}

	var err error
	if in.generated, err = o.Meter.Counter(MetricGenerated, "Number of identifiers generated"); err != nil {
		in.logger.Warn("create counter failed, metric disabled", clog.String("metric", MetricGenerated), clog.Error(err))
		in.generated, _ = metrics.Discard().Counter(MetricGenerated, "")
	}
	if in.backwards, err = o.Meter.Counter(MetricClockBackwards, "Number of clock regressions observed by generators"); err != nil {
		in.logger.Warn("create counter failed, metric disabled", clog.String("metric", MetricClockBackwards), clog.Error(err))
		in.backwards, _ = metrics.Discard().Counter(MetricClockBackwards, "")
	}
	return in
}

func (in *instruments) observe() {
	in.generated.Inc(context.Background(), metrics.L("type", in.tag.String()))
}

// clockBackwards 记录一次回拨。drift 为回拨的毫秒数（UUID 为 100ns 刻度）。
func (in *instruments) clockBackwards(last, now int64, action string) {
	in.backwards.Inc(context.Background(), metrics.L("type", in.tag.String()))
	in.logger.Warn("clock moved backwards",
		clog.Int64("last", last),
		clog.Int64("now", now),
		clog.Int64("drift", last-now),
		clog.String("action", action),
	)
}
