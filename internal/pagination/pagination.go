// Package pagination holds the page request/response types shared by list
// endpoints and the report window.
package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// FirstPage returns a request for the first size records.
func FirstPage(size int) PageRequest {
	p := PageRequest{Page: 1, PageSize: size}
	p.Defaults()
	return p
}

// Defaults fills in missing values and clamps the page size.
func (p *PageRequest) Defaults() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse wraps a page of items with counts.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, req PageRequest, totalItems int64) PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(req.PageSize)))
	}
	return PageResponse[T]{
		Data:       data,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PageSize)
	}
}
