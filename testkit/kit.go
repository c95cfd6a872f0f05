// Package testkit 提供各包测试共用的依赖：可读回的日志、独立的 Meter、
// 手动推进的时钟以及确定性的随机源。
//
// 只供 _test.go 使用，不依赖 idgen 等业务包，避免测试间的导入环。
package testkit

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/idkit/clog"
	"github.com/ceyewan/idkit/metrics"
)

// Kit 包含通用的测试依赖
type Kit struct {
	Ctx    context.Context
	Logger clog.Logger
	Meter  metrics.Meter
	Logs   *Buffer
}

// NewKit 返回一个包含默认依赖的测试工具包，Meter 在测试结束时关闭
func NewKit(t *testing.T) *Kit {
	t.Helper()
	logs := &Buffer{}
	kit := &Kit{
		Ctx:    context.Background(),
		Logger: NewLogger(t, logs),
		Meter:  NewMeter(t),
		Logs:   logs,
	}
	return kit
}

// NewLogger 返回写入 w 的 debug 级别 JSON logger
func NewLogger(t *testing.T, w io.Writer) clog.Logger {
	t.Helper()
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json"}, clog.WithWriter(w))
	require.NoError(t, err)
	return logger
}

// NewMeter 返回一个启用的 Meter，不监听端口，通过 Scrape 读取
func NewMeter(t *testing.T) metrics.Meter {
	t.Helper()
	meter, err := metrics.New(&metrics.Config{Enabled: true, ServiceName: "idkit-test"})
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = meter.Shutdown(ctx)
	})
	return meter
}

// Scrape 以 Prometheus 文本格式抓取 Meter 当前的指标
func Scrape(t *testing.T, m metrics.Meter) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

// NewContext 返回一个带有超时的测试上下文，测试结束时取消
func NewContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// NewID 返回一个唯一的短标识 (UUID v4 前 8 位)
// 用于临时文件名、TypeID 前缀后缀等，避免测试间冲突
func NewID() string {
	return uuid.New().String()[0:8]
}

// Buffer 并发安全的 bytes.Buffer，用于断言日志输出
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
