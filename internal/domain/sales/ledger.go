package sales

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies a ledger posting
type LedgerEntryType string

const (
	LedgerPaymentReceived  LedgerEntryType = "PAYMENT_RECEIVED"
	LedgerPlatformFee      LedgerEntryType = "PLATFORM_FEE"
	LedgerSellerCommission LedgerEntryType = "SELLER_COMMISSION"
	LedgerNetToProject     LedgerEntryType = "NET_TO_PROJECT"
)

// LedgerEntryTypes lists every posting type in posting order
var LedgerEntryTypes = []LedgerEntryType{
	LedgerPaymentReceived,
	LedgerPlatformFee,
	LedgerSellerCommission,
	LedgerNetToProject,
}

// LedgerEntry is an immutable, append-only posting
type LedgerEntry struct {
	shared.TenantAggregateRoot
	SaleID    uuid.UUID
	PaymentID uuid.UUID
	Type      LedgerEntryType
	Amount    decimal.Decimal
	Notes     string
}

// Split is the deterministic breakdown of a gross payment
type Split struct {
	Gross            decimal.Decimal
	PlatformFeePct   valueobject.Percentage
	CommissionPct    valueobject.Percentage
	PlatformFee      decimal.Decimal
	SellerCommission decimal.Decimal
	NetToProject     decimal.Decimal
}

// ComputeSplit splits amount into platform fee, seller commission and net.
// Fee and commission are rounded half to even at StorageScale, the scale the
// ledger columns hold, and net is the remainder. Every posting is therefore
// stored exactly and fee + commission + net == amount. A combined percentage
// above 100 would make net negative and is rejected.
func ComputeSplit(amount decimal.Decimal, platformFeePct, commissionPct valueobject.Percentage) (Split, error) {
	if err := ValidatePaymentAmount(amount); err != nil {
		return Split{}, err
	}
	fee := platformFeePct.Of(amount).RoundBank(valueobject.StorageScale)
	commission := commissionPct.Of(amount).RoundBank(valueobject.StorageScale)
	net := amount.Sub(fee).Sub(commission)
	if net.IsNegative() {
		return Split{}, shared.Validation("platform fee %s%% and commission %s%% exceed the payment", platformFeePct, commissionPct)
	}
	return Split{
		Gross:            amount,
		PlatformFeePct:   platformFeePct,
		CommissionPct:    commissionPct,
		PlatformFee:      fee,
		SellerCommission: commission,
		NetToProject:     net,
	}, nil
}

// LedgerEntries builds the four postings for a payment
func (s Split) LedgerEntries(tenantID, saleID, paymentID uuid.UUID) []LedgerEntry {
	entry := func(t LedgerEntryType, amount decimal.Decimal, notes string) LedgerEntry {
		return LedgerEntry{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			SaleID:              saleID,
			PaymentID:           paymentID,
			Type:                t,
			Amount:              amount,
			Notes:               notes,
		}
	}
	return []LedgerEntry{
		entry(LedgerPaymentReceived, s.Gross, "Gross payment"),
		entry(LedgerPlatformFee, s.PlatformFee, fmt.Sprintf("%s%% platform fee", s.PlatformFeePct)),
		entry(LedgerSellerCommission, s.SellerCommission, fmt.Sprintf("%s%% seller commission", s.CommissionPct)),
		entry(LedgerNetToProject, s.NetToProject, "Net to project"),
	}
}

// Reconciles reports whether received == fee + commission + net for a set
// of postings belonging to one payment.
func Reconciles(entries []LedgerEntry) bool {
	sums := make(map[LedgerEntryType]decimal.Decimal, len(LedgerEntryTypes))
	for _, e := range entries {
		sums[e.Type] = sums[e.Type].Add(e.Amount)
	}
	parts := sums[LedgerPlatformFee].Add(sums[LedgerSellerCommission]).Add(sums[LedgerNetToProject])
	return sums[LedgerPaymentReceived].Equal(parts)
}
