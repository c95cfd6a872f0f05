package trace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ceyewan/idkit/xerrors"
)

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "defaults", cfg: &Config{}},
		{name: "simple batcher", cfg: &Config{Batcher: "simple", Sampler: 0.5}},
		{name: "nil", cfg: nil, wantErr: true},
		{name: "sampler too large", cfg: &Config{Sampler: 1.5}, wantErr: true},
		{name: "negative sampler", cfg: &Config{Sampler: -0.1}, wantErr: true},
		{name: "unknown batcher", cfg: &Config{Batcher: "async"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Equal(t, xerrors.CodeInvalidInput, xerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "idkit", tt.cfg.ServiceName)
			assert.NotEmpty(t, tt.cfg.Endpoint)
		})
	}
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, 1.0, cfg.Sampler)
	assert.Equal(t, "batch", cfg.Batcher)
}

func TestStart(t *testing.T) {
	tp, recorder := setupRecorder(t)

	_, span := Start(context.Background(), Tracer(tp), SpanGenerate,
		attribute.String(AttrIDType, "ulid"),
		attribute.Int(AttrIDCount, 1),
	)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanGenerate, spans[0].Name())
	assert.Equal(t, InstrumentationName, spans[0].InstrumentationScope().Name)
	assert.Contains(t, spans[0].Attributes(), attribute.String(AttrIDType, "ulid"))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestMarkSpanError(t *testing.T) {
	tp, recorder := setupRecorder(t)

	_, span := Start(context.Background(), Tracer(tp), SpanGenerateN)
	MarkSpanError(span, nil)
	MarkSpanError(span, errors.New("clock moved backwards"))
	MarkSpanError(nil, errors.New("ignored"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "clock moved backwards", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestInit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("invalid", func(t *testing.T) {
		_, err := Init(ctx, &Config{Sampler: 2})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("lazy connect", func(t *testing.T) {
		tp, err := Init(ctx, &Config{Endpoint: "127.0.0.1:4317", Insecure: true, Batcher: "simple", Sampler: 0})
		require.NoError(t, err)
		assert.NotNil(t, Tracer(tp))
		_ = tp.Shutdown(ctx)
	})
}

func TestDiscard(t *testing.T) {
	tp, err := Discard(context.Background(), "idkit-test")
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := Start(context.Background(), Tracer(tp), SpanGenerate)
	defer span.End()
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
}
