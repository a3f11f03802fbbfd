// Package shared holds small helpers used across domain packages.
package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// FromOffset derives pagination metadata from limit/offset style
// queries. A zero limit falls back to the listing default.
func FromOffset(offset, limit, total int) Pagination {
	if limit <= 0 {
		limit = 50
	}
	return NewPagination(offset/limit+1, limit, total)
}
