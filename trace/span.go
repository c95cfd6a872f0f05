package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// InstrumentationName Tracer 的名称
const InstrumentationName = "github.com/ceyewan/idkit"

// Span 属性键
const (
	AttrIDType  = "idkit.id.type"
	AttrIDCount = "idkit.id.count"
	AttrIDMode  = "idkit.generate.mode" // sequential | parallel
)

// Span 名称
const (
	SpanGenerate  = "idkit.generate"
	SpanGenerateN = "idkit.generate_n"
)

// Tracer 从 Provider 取得 idkit 的 Tracer，nil 时使用全局 Provider
func Tracer(tp oteltrace.TracerProvider) oteltrace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(InstrumentationName)
}

// Start 启动一个内部 Span
func Start(ctx context.Context, tracer oteltrace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tracer == nil {
		tracer = Tracer(nil)
	}
	return tracer.Start(ctx, name,
		oteltrace.WithSpanKind(oteltrace.SpanKindInternal),
		oteltrace.WithAttributes(attrs...),
	)
}

// MarkSpanError 记录并将 Span 标记为错误，当 err 不为 nil 时
func MarkSpanError(span oteltrace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
