package models

import (
	"fmt"
	"strings"

	"finledger/internal/errs"
)

const MaxPageSize = 100

var (
	ErrInvalidSortDirection = fmt.Errorf("%w: sort direction must be ASC or DESC", errs.ErrIllegalArgument)
	ErrInvalidSortField     = fmt.Errorf("%w: unsupported sort field", errs.ErrIllegalArgument)
	ErrInvalidPage          = fmt.Errorf("%w: page must be >= 0 and size between 1 and %d", errs.ErrIllegalArgument, MaxPageSize)
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

func ParseSortDirection(raw string) (SortDirection, error) {
	switch SortDirection(strings.ToUpper(strings.TrimSpace(raw))) {
	case SortAsc:
		return SortAsc, nil
	case SortDesc:
		return SortDesc, nil
	default:
		return "", ErrInvalidSortDirection
	}
}

// PageQuery is a 0-based page request sorted on one field.
type PageQuery struct {
	Page      int
	Size      int
	Sort      string
	Direction string
}

// Validate fails fast on a bad direction or page bounds. The sort field is
// checked by the store against the columns it can order by.
func (q PageQuery) Validate() error {
	if q.Page < 0 || q.Size < 1 || q.Size > MaxPageSize {
		return ErrInvalidPage
	}
	_, err := ParseSortDirection(q.Direction)
	return err
}

func (q PageQuery) SortDirection() SortDirection {
	direction, err := ParseSortDirection(q.Direction)
	if err != nil {
		return SortAsc
	}
	return direction
}

func (q PageQuery) Offset() int {
	return q.Page * q.Size
}

type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

func NewPage[T any](content []T, query PageQuery, totalElements int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if query.Size > 0 {
		totalPages = int((totalElements + int64(query.Size) - 1) / int64(query.Size))
	}
	return Page[T]{
		Content:       content,
		Page:          query.Page,
		Size:          query.Size,
		TotalElements: totalElements,
		TotalPages:    totalPages,
		First:         query.Page == 0,
		Last:          query.Page+1 >= totalPages,
	}
}

// MapPage converts the content of a page while keeping its metadata.
func MapPage[T, U any](page Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(page.Content))
	for _, item := range page.Content {
		content = append(content, fn(item))
	}
	return Page[U]{
		Content:       content,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		First:         page.First,
		Last:          page.Last,
	}
}
