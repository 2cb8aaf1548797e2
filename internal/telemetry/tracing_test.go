package telemetry_test

import (
	"context"
	"testing"

	"github.com/dom/sleep-tracker/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTracerProvider_NoEndpoint(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, "", "sleep-tracker-test")
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, tp.Shutdown(ctx))
}
