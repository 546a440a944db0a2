package persistence

import (
	"fmt"
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// orderClause builds a safe ORDER BY clause from the filter. Column names are
// checked against the repository's allowlist so that user-supplied sort keys
// can never reach the SQL string unvalidated.
func orderClause(filter shared.Filter, allowed map[string]bool, fallback string) string {
	column := filter.OrderBy
	if column == "" || !allowed[column] {
		column = fallback
	}
	dir := strings.ToLower(filter.OrderDir)
	if dir != "asc" && dir != "desc" {
		dir = "desc"
	}
	return fmt.Sprintf("%s %s", column, dir)
}

// paginate applies offset/limit from the filter
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Offset(filter.Offset()).Limit(filter.Limit())
}
