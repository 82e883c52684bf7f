package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrTenantID = attribute.Key("tenant_id")
	AttrStatus   = attribute.Key("status")
)

// CommerceMetrics counts the business events of the commerce engine.
// A nil *CommerceMetrics is valid and records nothing.
type CommerceMetrics struct {
	reservationsCreated *Counter
	reservationsExpired *Counter
	salesCreated        *Counter
	paymentsCreated     *Counter
	paymentsAmount      *FloatCounter
	chargesGenerated    *Counter
	condoPayments       *Counter
	chargesOverdue      *Counter
}

// NewCommerceMetrics registers the commerce instruments on meter
func NewCommerceMetrics(meter metric.Meter) (*CommerceMetrics, error) {
	m := &CommerceMetrics{}
	var err error
	counters := []struct {
		dst  **Counter
		name string
		desc string
	}{
		{&m.reservationsCreated, "reservations_created_total", "Reservations created"},
		{&m.reservationsExpired, "reservations_expired_total", "Reservations expired by sweeps"},
		{&m.salesCreated, "sales_created_total", "Sales created"},
		{&m.paymentsCreated, "sale_payments_total", "Sale payments registered"},
		{&m.chargesGenerated, "condo_charges_generated_total", "Condo charges generated"},
		{&m.condoPayments, "condo_payments_total", "Condo payments registered"},
		{&m.chargesOverdue, "condo_charges_overdue_total", "Condo charges marked overdue"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.desc, "{event}"); err != nil {
			return nil, fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}
	if m.paymentsAmount, err = NewFloatCounter(meter, "sale_payments_amount_total", "Gross amount of sale payments", "{currency}"); err != nil {
		return nil, fmt.Errorf("failed to create payment amount counter: %w", err)
	}
	return m, nil
}

func tenantAttr(tenantID fmt.Stringer) attribute.KeyValue {
	return AttrTenantID.String(tenantID.String())
}

// ReservationCreated records one created reservation
func (m *CommerceMetrics) ReservationCreated(ctx context.Context, tenantID fmt.Stringer) {
	if m == nil {
		return
	}
	m.reservationsCreated.Inc(ctx, tenantAttr(tenantID))
}

// ReservationsExpired records a sweep result
func (m *CommerceMetrics) ReservationsExpired(ctx context.Context, tenantID fmt.Stringer, n int) {
	if m == nil || n == 0 {
		return
	}
	m.reservationsExpired.Add(ctx, int64(n), tenantAttr(tenantID))
}

// SaleCreated records one created sale
func (m *CommerceMetrics) SaleCreated(ctx context.Context, tenantID fmt.Stringer) {
	if m == nil {
		return
	}
	m.salesCreated.Inc(ctx, tenantAttr(tenantID))
}

// PaymentCreated records one sale payment and its gross amount
func (m *CommerceMetrics) PaymentCreated(ctx context.Context, tenantID fmt.Stringer, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.paymentsCreated.Inc(ctx, tenantAttr(tenantID))
	m.paymentsAmount.Add(ctx, amount.InexactFloat64(), tenantAttr(tenantID))
}

// ChargesGenerated records a charge generation run
func (m *CommerceMetrics) ChargesGenerated(ctx context.Context, tenantID fmt.Stringer, n int) {
	if m == nil || n == 0 {
		return
	}
	m.chargesGenerated.Add(ctx, int64(n), tenantAttr(tenantID))
}

// CondoPaymentRegistered records one condo payment with the resulting charge status
func (m *CommerceMetrics) CondoPaymentRegistered(ctx context.Context, tenantID fmt.Stringer, status string) {
	if m == nil {
		return
	}
	m.condoPayments.Inc(ctx, tenantAttr(tenantID), AttrStatus.String(status))
}

// ChargesOverdue records charges flipped to overdue
func (m *CommerceMetrics) ChargesOverdue(ctx context.Context, tenantID fmt.Stringer, n int) {
	if m == nil || n == 0 {
		return
	}
	m.chargesOverdue.Add(ctx, int64(n), tenantAttr(tenantID))
}
