// Package pagination provides page/size request parameters and a generic
// page envelope for list endpoints.
package pagination

import (
	"quill/internal/models"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

// Params holds validated pagination parameters.
type Params struct {
	Page int
	Size int
}

// NewParams validates page and size and returns pagination parameters.
// Page must be at least 1 and size must be between 1 and MaxSize.
func NewParams(page, size int) (Params, error) {
	if page < 1 {
		return Params{}, models.NewValidationError("page must be at least 1")
	}
	if size < 1 {
		return Params{}, models.NewValidationError("size must be at least 1")
	}
	if size > MaxSize {
		return Params{}, models.NewValidationError("size must be at most 100")
	}
	return Params{Page: page, Size: size}, nil
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Limit returns the page size.
func (p Params) Limit() int {
	return p.Size
}

// Page is a single page of results with total counts.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage builds a page envelope from items and the total row count.
// Pages is the ceiling of total/size; a zero total yields zero pages.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(params.Size) - 1) / int64(params.Size))
	return Page[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: pages,
	}
}
