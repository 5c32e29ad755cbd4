package store

import (
	"math"
	"strconv"

	"github.com/cppla/nexus/models"
)

// Page is one window of the feed. Total is counted in a separate query and is
// not snapshot-consistent with Items under concurrent writes.
type Page struct {
	Items []models.Post `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

// ParsePagination turns raw query values into a page number and page size.
// Parsing is permissive: anything that is not a positive integer (including
// "0") falls back to page 1 and defaultLimit. Sizes above maxLimit are clamped,
// and page is capped so the row offset always fits in an int.
func ParsePagination(pageStr, limitStr string, defaultLimit, maxLimit int) (int, int) {
	page := 1
	limit := defaultLimit
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
		limit = l
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	if limit < 1 {
		limit = 1
	}
	page = min(page, math.MaxInt/limit)
	return page, limit
}

// Offset returns the number of rows to skip for a 1-based page. Offsets that
// would overflow saturate at math.MaxInt.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}
