package pagination

// Pagination represents paging query parameters.
type Pagination struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// Default values.
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 500
)

// New creates pagination with default values.
func New() *Pagination {
	return &Pagination{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	return (p.Page - 1) * p.Size()
}

// Size returns the clamped page size for database queries.
func (p *Pagination) Size() int {
	if p.Limit < 1 {
		return DefaultLimit
	}
	if p.Limit > MaxLimit {
		return MaxLimit
	}
	return p.Limit
}

// TotalPages calculates the total number of pages.
func (p *Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	size := int64(p.Size())
	return int((total + size - 1) / size)
}

// PageInfo represents pagination info in API responses.
type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Info returns pagination info for API responses.
func (p *Pagination) Info(total int64) PageInfo {
	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	return PageInfo{
		Page:       page,
		Limit:      p.Size(),
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}
