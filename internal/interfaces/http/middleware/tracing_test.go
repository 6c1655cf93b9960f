package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installSpanRecorder swaps the global tracer provider for one that
// records finished spans in memory.
func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func tracedRouter(cfg TracingConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(TracingWithConfig(cfg))
	router.GET("/leases/:id", handler)
	return router
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes() {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	sr := installSpanRecorder(t)

	router := tracedRouter(TracingConfig{Enabled: false}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leases/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended(), "disabled tracing must not create spans")
}

func TestTracingWithConfig_CreatesRouteSpan(t *testing.T) {
	sr := installSpanRecorder(t)

	router := tracedRouter(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leases/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/leases/:id", "span is named after the route pattern")
}

func TestTracingWithConfig_RequestIDAttribute(t *testing.T) {
	sr := installSpanRecorder(t)

	router := gin.New()
	router.Use(RequestID())
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}))
	router.GET("/leases/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/leases/42", nil)
	req.Header.Set("X-Request-ID", "req-trace-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-trace-1", v.AsString())
}

func TestTracingWithConfig_UserIDAttribute(t *testing.T) {
	sr := installSpanRecorder(t)

	router := gin.New()
	router.Use(TracingWithConfig(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}))
	router.GET("/leases/:id", func(c *gin.Context) {
		// Stands in for the JWT middleware, which runs inside the span.
		c.Set(JWTUserIDKey, "agent-17")
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leases/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "user_id")
	require.True(t, ok)
	assert.Equal(t, "agent-17", v.AsString())
}

func TestTracingWithConfig_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantMessage string
	}{
		{"server error", http.StatusInternalServerError, "Internal Server Error"},
		{"unauthorized", http.StatusUnauthorized, "Unauthorized"},
		{"forbidden", http.StatusForbidden, "Forbidden"},
		{"not found", http.StatusNotFound, "Not Found"},
		{"other client error", http.StatusConflict, "Client Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := installSpanRecorder(t)

			router := tracedRouter(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}, func(c *gin.Context) {
				c.JSON(tt.status, gin.H{"success": false})
			})
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leases/42", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tt.wantMessage, spans[0].Status().Description)

			v, ok := spanAttr(spans[0], "http.status_code")
			require.True(t, ok)
			assert.Equal(t, int64(tt.status), v.AsInt64())
		})
	}
}

func TestTracingWithConfig_SuccessLeavesStatusUnset(t *testing.T) {
	sr := installSpanRecorder(t)

	router := tracedRouter(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leases/42", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestSpanRequestID_TruncatesOversizedHeader(t *testing.T) {
	sr := installSpanRecorder(t)

	router := tracedRouter(TracingConfig{Enabled: true, ServiceName: "leaseledger-test"}, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/leases/42", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", MaxRequestIDLength*2))
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	v, ok := spanAttr(spans[0], "request_id")
	require.True(t, ok)
	assert.Len(t, v.AsString(), MaxRequestIDLength)
}

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "leaseledger-backend", cfg.ServiceName)
}
