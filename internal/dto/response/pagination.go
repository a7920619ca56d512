package response

import "support-directory/pkg/utils"

// Paginated is one page of a list plus the neighbouring page numbers.
type Paginated[T any] struct {
	Count      int64 `json:"count"`
	TotalPages int   `json:"total_pages"`
	Next       *int  `json:"next"`
	Previous   *int  `json:"previous"`
	Results    []T   `json:"results"`
}

func NewPaginated[T any](results []T, window utils.Window, total int64) *Paginated[T] {
	next, previous := window.Cursors(total)
	return &Paginated[T]{
		Count:      total,
		TotalPages: utils.CalculateTotalPages(total, window.PageSize),
		Next:       next,
		Previous:   previous,
		Results:    results,
	}
}

// MapAll converts every item with fn.
func MapAll[E any, T any](items []E, fn func(E) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
