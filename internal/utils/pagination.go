// Package utils provides small generic helpers shared by the HTTP layer.
package utils

import "strconv"

// Page limits applied by Clamp.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s as an int, returning def when s is empty or invalid.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Clamp parses raw page and page_size query values and bounds them to
// page >= 1 and 1 <= size <= MaxPageSize.
func Clamp(rawPage, rawSize string) (page, size int) {
	page = AtoiDefault(rawPage, 1)
	if page < 1 {
		page = 1
	}
	size = AtoiDefault(rawSize, DefaultPageSize)
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Page is the pagination metadata returned alongside list results.
type Page struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// Paginate returns the window of items for the 1-based page and its metadata.
// A page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, page, size int) ([]T, Page) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	meta := Page{
		Page:       page,
		PageSize:   size,
		Total:      int64(total),
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}

	start := (page - 1) * size
	if start >= total {
		return []T{}, meta
	}
	end := start + size
	if end > total {
		end = total
	}
	return items[start:end], meta
}
