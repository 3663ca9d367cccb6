package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(tracing bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core), tracing), logs
}

func TestLoggerFields(t *testing.T) {
	log, logs := newObserved(false)

	log.Error("upsert failed", errors.New("boom"), map[string]interface{}{
		"batch": 2,
	}, map[string]interface{}{
		"batch": 3,
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "upsert failed", entry.Message)
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)

	ctx := entry.ContextMap()
	assert.Equal(t, "boom", ctx["error"])
	assert.EqualValues(t, 3, ctx["batch"])
}

func TestLoggerWithContextAddsTraceIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	spanID, _ := trace.SpanIDFromHex("b7ad6b7169203331")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	t.Run("enabled", func(t *testing.T) {
		log, logs := newObserved(true)
		log.InfoWithContext(ctx, "hello", nil)

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, traceID.String(), fields["trace_id"])
		assert.Equal(t, spanID.String(), fields["span_id"])
	})

	t.Run("disabled", func(t *testing.T) {
		log, logs := newObserved(false)
		log.InfoWithContext(ctx, "hello", nil)

		fields := logs.All()[0].ContextMap()
		assert.NotContains(t, fields, "trace_id")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel(Debug))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(Warning))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(Error))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}
