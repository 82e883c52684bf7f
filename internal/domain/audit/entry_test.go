package audit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	uid := uuid.New()
	tc := tenancy.Context{TenantID: uuid.New(), UserID: &uid, Role: tenancy.RoleSeller}
	saleID := uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	entry, err := NewEntry(tc, NewRecord("Payment", uuid.New(), PaymentCreated{
		SaleID:      saleID,
		Amount:      decimal.NewFromInt(10000),
		LedgerCount: 4,
	}), now)
	require.NoError(t, err)

	assert.Equal(t, ActionPaymentCreated, entry.Action)
	assert.Equal(t, tc.TenantID, entry.TenantID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, uid, *entry.UserID)
	assert.Equal(t, now, entry.CreatedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(entry.Metadata, &decoded))
	assert.Equal(t, saleID.String(), decoded["saleId"])
	assert.Equal(t, "10000", decoded["amount"])
	assert.EqualValues(t, 4, decoded["ledgerCount"])
}

func TestNewEntry_MissingTenant(t *testing.T) {
	_, err := NewEntry(tenancy.Context{}, Record{Metadata: SaleClosed{Rows: 1}}, time.Now())
	assert.ErrorIs(t, err, shared.ErrMissingTenant)
}

func TestNewEntry_RequiresMetadata(t *testing.T) {
	_, err := NewEntry(tenancy.Context{TenantID: uuid.New()}, Record{}, time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewEntry(tenancy.Context{TenantID: uuid.New()}, Record{Metadata: Custom{}}, time.Now())
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCustomMetadata(t *testing.T) {
	entry, err := NewEntry(tenancy.Context{TenantID: uuid.New()}, Record{
		Metadata: Custom{Name: "lead.imported", Fields: map[string]any{"rows": 3}},
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, Action("lead.imported"), entry.Action)
	assert.Nil(t, entry.UserID)
	assert.JSONEq(t, `{"fields":{"rows":3}}`, string(entry.Metadata))
}
