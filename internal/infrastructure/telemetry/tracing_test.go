package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "reservation", "create",
		telemetry.SpanAttrTenantID, "t-1")
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, 3, 42, "skipped")
	telemetry.AddEvent(span, "unit_locked", telemetry.SpanAttrUnitID, "u-1")
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	assert.NotEmpty(t, telemetry.GetSpanID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "reservation.create", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("tenant_id", "t-1"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("count", 3))
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "unit_locked", spans[0].Events()[0].Name)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "sale.create")
	telemetry.RecordError(span, errors.New("unit unavailable"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "unit unavailable", spans[0].Status().Description)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", telemetry.GetTraceID(context.Background()))
	assert.Equal(t, "", telemetry.GetSpanID(context.Background()))
}
