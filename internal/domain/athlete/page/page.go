// Package page computes pagination metadata for a counted result set.
package page

// Info describes one page of a result set.
type Info struct {
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// New computes page metadata. pageSize must be positive.
func New(page, pageSize int, total int64) Info {
	totalPages := 0
	if pageSize > 0 && total > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Info{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Window returns the offset and limit of a page.
func Window(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}
