package utils

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 25
)

// Window is a zero-based, inclusive [RangeStart, RangeEnd] slice of an ordered
// collection.
type Window struct {
	Page       int
	PageSize   int
	RangeStart int
	RangeEnd   int
}

// BuildPagination clamps page and pageSize to at least 1, applying defaults
// when they are absent. A window past math.MaxInt saturates instead of
// wrapping, so RangeStart <= RangeEnd always holds.
func BuildPagination(page, pageSize *int) Window {
	p := DefaultPage
	if page != nil {
		p = max(1, *page)
	}
	size := DefaultPageSize
	if pageSize != nil {
		size = max(1, *pageSize)
	}

	maxStart := math.MaxInt - size + 1
	start := maxStart
	if p-1 <= maxStart/size {
		start = (p - 1) * size
	}
	return Window{
		Page:       p,
		PageSize:   size,
		RangeStart: start,
		RangeEnd:   start + size - 1,
	}
}

// Cursors derives the neighbouring page numbers from the store-reported total.
func (w Window) Cursors(total int64) (next, previous *int) {
	if w.Page > 1 {
		prev := w.Page - 1
		previous = &prev
	}
	if int64(w.RangeEnd) < total-1 {
		n := w.Page + 1
		next = &n
	}
	return next, previous
}

func (w Window) Limit() int {
	return w.RangeEnd - w.RangeStart + 1
}

func (w Window) Offset() int {
	return w.RangeStart
}

func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return int(pages)
}
