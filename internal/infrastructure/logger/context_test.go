package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return zap.New(core), recorded
}

func fieldValue(t *testing.T, entry observer.LoggedEntry, key string) string {
	t.Helper()
	for _, f := range entry.Context {
		if f.Key == key {
			return f.String
		}
	}
	t.Fatalf("field %q not found", key)
	return ""
}

func TestWithContextRoundTrip(t *testing.T) {
	log, recorded := observedLogger()

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info("lease recomputed")

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "lease recomputed", recorded.All()[0].Message)
}

func TestFromContextFallsBackToNop(t *testing.T) {
	log := FromContext(context.Background())

	require.NotNil(t, log)
	// A no-op logger must swallow writes without panicking.
	log.Error("dropped")
}

func TestWithRequestID(t *testing.T) {
	log, recorded := observedLogger()

	ctx, enriched := WithRequestID(context.Background(), log, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	enriched.Info("draw posted")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "req-123", fieldValue(t, recorded.All()[0], "request_id"))

	// The enriched logger is also reachable through the context.
	FromContext(ctx).Info("second line")
	assert.Equal(t, 2, recorded.Len())
}

func TestWithUserID(t *testing.T) {
	log, recorded := observedLogger()

	ctx, enriched := WithUserID(context.Background(), log, "agent-7")

	assert.Equal(t, "agent-7", GetUserID(ctx))
	enriched.Info("collections viewed")
	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "agent-7", fieldValue(t, recorded.All()[0], "user_id"))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestGetUserID_Missing(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	log, recorded := observedLogger()

	WithTraceContext(context.Background(), log).Info("outside any trace")

	require.Equal(t, 1, recorded.Len())
	for _, f := range recorded.All()[0].Context {
		assert.NotEqual(t, "trace_id", f.Key)
		assert.NotEqual(t, "span_id", f.Key)
	}
}

func TestWithTraceContext_ActiveSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "recompute-lease")
	defer span.End()

	log, recorded := observedLogger()
	WithTraceContext(ctx, log).Info("inside trace")

	require.Equal(t, 1, recorded.Len())
	entry := recorded.All()[0]
	assert.Equal(t, span.SpanContext().TraceID().String(), fieldValue(t, entry, "trace_id"))
	assert.Equal(t, span.SpanContext().SpanID().String(), fieldValue(t, entry, "span_id"))
}
