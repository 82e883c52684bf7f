package sales

import (
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
)

// AssetType classifies a stored document or media item
type AssetType string

const (
	AssetTypeContract  AssetType = "CONTRACT"
	AssetTypeVoucher   AssetType = "VOUCHER"
	AssetTypeBrochure  AssetType = "BROCHURE"
	AssetTypePlan      AssetType = "PLAN"
	AssetTypeTourMedia AssetType = "TOUR_MEDIA"
	AssetTypeOther     AssetType = "OTHER"
)

// IsValid checks if the asset type is a known value
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeContract, AssetTypeVoucher, AssetTypeBrochure, AssetTypePlan, AssetTypeTourMedia, AssetTypeOther:
		return true
	}
	return false
}

// Asset is the ownership record of a stored file. The bytes live in
// external storage addressed by StorageKey.
type Asset struct {
	shared.TenantAggregateRoot
	SaleID     *uuid.UUID
	Type       AssetType
	Title      string
	StorageKey string
}

// NewAsset creates an unattached asset record
func NewAsset(tenantID uuid.UUID, assetType AssetType, title, storageKey string) (*Asset, error) {
	if !assetType.IsValid() {
		return nil, shared.Validation("unknown asset type %q", assetType)
	}
	if storageKey == "" {
		return nil, shared.Validation("asset storage key is required")
	}
	return &Asset{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                assetType,
		Title:               title,
		StorageKey:          storageKey,
	}, nil
}
