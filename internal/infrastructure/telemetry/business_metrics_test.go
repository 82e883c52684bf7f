package telemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func TestCommerceMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := telemetry.NewCommerceMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenant := uuid.New()
	m.ReservationCreated(ctx, tenant)
	m.ReservationCreated(ctx, tenant)
	m.PaymentCreated(ctx, tenant, decimal.RequireFromString("1000.50"))
	m.ChargesGenerated(ctx, tenant, 0)

	data := collect(t, reader)
	created, ok := data["reservations_created_total"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, created.DataPoints, 1)
	assert.Equal(t, int64(2), created.DataPoints[0].Value)

	amount, ok := data["sale_payments_amount_total"].(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 1000.50, amount.DataPoints[0].Value, 0.001)

	if generated, ok := data["condo_charges_generated_total"].(metricdata.Sum[int64]); ok {
		assert.Empty(t, generated.DataPoints, "zero-count runs record nothing")
	}
}

func TestCommerceMetrics_NilIsNoop(t *testing.T) {
	var m *telemetry.CommerceMetrics
	assert.NotPanics(t, func() {
		m.SaleCreated(context.Background(), uuid.New())
		m.ChargesOverdue(context.Background(), uuid.New(), 3)
	})
}
