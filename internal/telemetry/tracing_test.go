package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/carrierlink/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitTracer(t *testing.T) {
	ctx := context.Background()

	tracer, shutdown, err := telemetry.InitTracer(ctx, "http://localhost:4318", "carrierlink-test",
		attribute.String("service.version", "0.0.0"),
		attribute.Bool("dhl.enabled", true),
	)
	require.NoError(t, err)
	require.NotNil(t, tracer)

	_, span := tracer.Start(ctx, "test")
	assert.True(t, span.SpanContext().IsValid())

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	attrs := ro.Resource().Set()
	name, ok := attrs.Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "carrierlink-test", name.AsString())
	enabled, ok := attrs.Value("dhl.enabled")
	require.True(t, ok)
	assert.True(t, enabled.AsBool())
	span.End()

	// Nothing listens on the endpoint; shutdown may report the failed export.
	_ = shutdown(ctx)
}

func TestInitTracer_InvalidEndpoint(t *testing.T) {
	_, _, err := telemetry.InitTracer(context.Background(), "localhost", "carrierlink-test")
	assert.Error(t, err)
}
