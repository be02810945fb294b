package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedTracer(t *testing.T) (*Tracer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New("test", zap.New(core))
	t.Cleanup(tracer.Close)
	return tracer, logs
}

func waitForLogs(t *testing.T, logs *observer.ObservedLogs, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return logs.Len() >= n }, time.Second, 5*time.Millisecond)
}

func TestParseRequestID(t *testing.T) {
	valid := uuid.NewString()
	assert.Equal(t, valid, ParseRequestID(valid))
	assert.Equal(t, valid, ParseRequestID(strings.ToUpper(valid)))

	for _, in := range []string{"", "req_123", "not-a-uuid"} {
		got := ParseRequestID(in)
		assert.NotEqual(t, in, got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err, in)
	}
}

func TestStartSpanInheritsRequest(t *testing.T) {
	tracer, _ := newObservedTracer(t)

	ctx := WithRequestID(context.Background(), "abc")
	parent, ctx := tracer.StartSpan(ctx, "parent")
	child, childCtx := tracer.StartSpan(ctx, "child")

	assert.Equal(t, "abc", parent.RequestID)
	assert.Equal(t, "abc", child.RequestID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.Equal(t, child.SpanID, SpanID(childCtx))
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestStartSpanWithoutRequest(t *testing.T) {
	tracer, _ := newObservedTracer(t)

	span, ctx := tracer.StartSpan(context.Background(), "op")
	_, err := uuid.Parse(span.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, span.RequestID, RequestID(ctx))
	assert.Empty(t, span.ParentID)
}

func TestSubmitLogsSpans(t *testing.T) {
	tracer, logs := newObservedTracer(t)

	ok, _ := tracer.StartSpan(context.Background(), "ok")
	ok.SetTag("command", "ls")
	ok.Finish()
	tracer.Submit(ok)

	failed, _ := tracer.StartSpan(context.Background(), "failed")
	failed.SetError(errors.New("boom"))
	failed.Finish()
	tracer.Submit(failed)

	waitForLogs(t, logs, 2)
	assert.Equal(t, 1, logs.FilterMessage("span completed").FilterField(zap.String("command", "ls")).Len())
	errored := logs.FilterMessage("span completed with error").All()
	require.Len(t, errored, 1)
	assert.Equal(t, zapcore.WarnLevel, errored[0].Level)
	assert.Equal(t, 500, failed.StatusCode)
}

func TestSubmitAfterClose(t *testing.T) {
	tracer, logs := newObservedTracer(t)
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	tracer.Submit(span)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, logs.Len())
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer, logs := newObservedTracer(t)

	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ctx": RequestID(c.Request.Context()),
			"gin": GinRequestID(c),
		})
	})

	t.Run("keeps valid id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, id)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, w.Header().Get(RequestIDHeader))
		assert.JSONEq(t, `{"ctx":"`+id+`","gin":"`+id+`"}`, w.Body.String())
	})

	t.Run("replaces invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		got := w.Header().Get(RequestIDHeader)
		assert.NotEqual(t, "not-a-uuid", got)
		_, err := uuid.Parse(got)
		assert.NoError(t, err)
	})

	t.Run("generates missing id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	waitForLogs(t, logs, 3)
	pings := logs.FilterField(zap.String("operation", "GET /ping"))
	assert.Equal(t, 3, pings.Len())
	assert.Equal(t, 3, pings.FilterField(zap.String("http.status", "200")).Len())
}
