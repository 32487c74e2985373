package persistence

import (
	"fmt"
	"strings"

	"github.com/carehouse/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// HouseSortFields contains allowed sort fields for houses
var HouseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"active":     true,
}

// ServiceCodeSortFields contains allowed sort fields for service codes
var ServiceCodeSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"active":     true,
}

// StaffSortFields contains allowed sort fields for staff
var StaffSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"role":       true,
	"active":     true,
}

// PatientSortFields contains allowed sort fields for patients
var PatientSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"program":    true,
	"start_date": true,
	"status":     true,
}

// RevenueEntrySortFields contains allowed sort fields for revenue entries
var RevenueEntrySortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"date":         true,
	"check_date":   true,
	"check_number": true,
	"amount":       true,
	"status":       true,
}

// PayoutSortFields contains allowed sort fields for payouts
var PayoutSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"amount":     true,
	"percentage": true,
}

// CheckTrackingSortFields contains allowed sort fields for checks
var CheckTrackingSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"check_date":       true,
	"check_number":     true,
	"check_amount":     true,
	"service_provider": true,
}

// ExpenseSortFields contains allowed sort fields for expenses
var ExpenseSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"date":       true,
	"amount":     true,
	"vendor":     true,
	"category":   true,
	"status":     true,
}

// applyOrder applies whitelisted sorting. The id tiebreak keeps pages stable.
func applyOrder(query *gorm.DB, filter shared.Filter, table string, allowed map[string]bool, defaultField string) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, allowed, defaultField)
	sortOrder := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s.%s %s, %s.id %s", table, sortField, sortOrder, table, sortOrder))
}

// applyPagination limits the query to the filter's page. PageSize 0 means every row.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if offset := filter.Offset(); offset > 0 {
			query = query.Offset(offset)
		}
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
