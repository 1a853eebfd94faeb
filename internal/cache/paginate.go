package cache

import (
	"errors"
)

// ErrInvalidPagination page 또는 size가 1 미만
var ErrInvalidPagination = errors.New("page and page size must be at least 1")

// Paginate returns results[(page-1)*size : page*size], clamped to the slice,
// and ceil(len(items)/size). Pages past the end are empty. The returned slice
// shares the backing array with items.
func Paginate[T any](items []T, page, size int) ([]T, int, error) {
	if page < 1 || size < 1 {
		return nil, 0, ErrInvalidPagination
	}

	totalPages := (len(items) + size - 1) / size
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, totalPages, nil
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages, nil
}
