package util

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// Calculate clamps page/limit to the catalog bounds and returns the query
// offset alongside the effective values.
func Calculate(page, limit int) (offset, clampedPage, clampedLimit int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return (page - 1) * limit, page, limit
}

func TotalPages(total int64, limit int) int64 {
	return (total + int64(limit) - 1) / int64(limit)
}
