package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField returns sortField if it is in the whitelist, otherwise
// defaultField. Only whitelisted names ever reach an ORDER BY clause.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// UnitSortFields contains allowed sort fields for units
var UnitSortFields = map[string]bool{
	"code":       true,
	"price":      true,
	"area_m2":    true,
	"floor":      true,
	"status":     true,
	"created_at": true,
	"updated_at": true,
}
