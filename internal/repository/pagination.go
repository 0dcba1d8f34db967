package repository

import (
	"encoding/json"
	"fmt"
)

// Paginator computes an offset/limit window from a 1-indexed page number and a
// page size. A non-positive page size or page number disables pagination and
// the full result set is returned. Total is set by list operations to the
// unsliced row count; it never constrains query behaviour.
type Paginator struct {
	PageSize int
	Page     int
	Total    int64
}

func NewPaginator(pageSize, page int) *Paginator {
	if pageSize < 0 {
		pageSize = 0
	}
	if page < 0 {
		page = 0
	}
	return &Paginator{PageSize: pageSize, Page: page}
}

// Bounded reports whether the paginator actually slices the result set.
func (p *Paginator) Bounded() bool {
	return p != nil && p.PageSize > 0 && p.Page > 0
}

// Window returns the half-open index range [offset, offset+limit) selected by
// the paginator. Only meaningful when Bounded.
func (p *Paginator) Window() (offset, limit int) {
	if !p.Bounded() {
		return 0, 0
	}
	return (p.Page - 1) * p.PageSize, p.PageSize
}

// clause renders the paginator as a SQL suffix. Offsets and limits are derived
// from ints, never caller strings.
func (p *Paginator) clause() string {
	if !p.Bounded() {
		return ""
	}
	offset, limit := p.Window()
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

func (p *Paginator) setTotal(total int64) {
	if p != nil {
		p.Total = total
	}
}

func (p *Paginator) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"page":  p.Page,
		"limit": p.PageSize,
		"total": p.Total,
	})
}
