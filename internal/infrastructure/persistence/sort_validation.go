package persistence

import "strings"

// Sort column and direction come from the query string, so they can
// never be interpolated into ORDER BY as-is. Every repository keeps a
// whitelist built by sortFields and runs both values through the
// validators below before handing them to GORM.

// sortFields builds a whitelist containing the audit columns every
// table has plus the table-specific columns.
func sortFields(extra ...string) map[string]bool {
	fields := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range extra {
		fields[f] = true
	}
	return fields
}

// ValidateSortField returns sortField when it appears in the
// whitelist, otherwise defaultField. Matching is exact after trimming,
// so injected expressions never survive.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// ValidateSortOrder normalizes the direction to ASC or DESC, falling
// back to DESC for anything unrecognized.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}
