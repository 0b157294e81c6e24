package pagination

import (
	"strconv"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Params holds offset pagination parameters
type Params struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// PageInfo describes the page that was returned
type PageInfo struct {
	Page         int  `json:"page"`
	PageSize     int  `json:"page_size"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}

// FromQuery parses page and page_size, falling back to defaults on bad input
func FromQuery(page, pageSize string) Params {
	p := Params{}
	p.Page, _ = strconv.Atoi(page)
	p.PageSize, _ = strconv.Atoi(pageSize)
	p.Normalize()
	return p
}

// Normalize clamps the parameters into range
func (p *Params) Normalize() {
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

// GetOffset returns the offset of the first item on the page
func (p Params) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// Slice returns the requested page of items and its page info
func Slice[T any](items []T, p Params) ([]T, PageInfo) {
	p.Normalize()
	total := len(items)

	start := p.GetOffset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}

	totalPages := (total + p.PageSize - 1) / p.PageSize
	return items[start:end], PageInfo{
		Page:         p.Page,
		PageSize:     p.PageSize,
		TotalPages:   totalPages,
		TotalRecords: total,
		HasNext:      p.Page < totalPages,
		HasPrevious:  p.Page > 1,
	}
}
