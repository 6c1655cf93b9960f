package telemetry_test

import (
	"context"
	"testing"

	"github.com/leaseledger/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDisabledTracerProvider(t *testing.T) *telemetry.TracerProvider {
	t.Helper()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp := newDisabledTracerProvider(t)

	assert.False(t, tp.IsEnabled())

	// Shutdown and ForceFlush should succeed with no-op
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_DisabledTracerStillUsable(t *testing.T) {
	tp := newDisabledTracerProvider(t)

	tracer := tp.Tracer("lease-reconciliation")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "recompute-balance")
	assert.NotNil(t, span)
	span.End()
}
