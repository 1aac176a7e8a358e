package library

// Pagination represents pagination information for list responses.
type Pagination struct {
	Total      int64 `json:"total"`       // Total number of records
	Page       int64 `json:"page"`        // Current page number (1-based)
	Limit      int64 `json:"limit"`       // Number of records per page
	TotalPages int64 `json:"total_pages"` // Total number of pages
}

// NewPagination creates a new Pagination instance with calculated total pages.
func NewPagination(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Paginate returns the page-th window of items and its pagination info.
// page is 1-based; a page past the end yields an empty, non-nil slice.
func Paginate[T any](items []T, page, limit int64) ([]T, *Pagination) {
	total := int64(len(items))
	p := NewPagination(total, page, limit)
	if page < 1 || limit < 1 {
		return []T{}, p
	}

	// (page-1)*limit overflows for large pages, so bound page first.
	if page-1 >= p.TotalPages {
		return []T{}, p
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return items[start:end], p
}
