package domain

import "math"

// Pagination defaults applied when the caller sends nothing usable.
const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// PageRequest is a normalized page number and size.
type PageRequest struct {
	Page  int64
	Limit int64
}

// NewPageRequest clamps page and limit to sane values.
func NewPageRequest(page, limit int64) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// Past this page (page-1)*limit no longer fits in an int64.
	if maxPage := math.MaxInt64 / limit; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Limit: limit}
}

// Skip is the number of documents before the first one on this page.
func (r PageRequest) Skip() int64 {
	return (r.Page - 1) * r.Limit
}

// Page is the paginated result envelope.
type Page[T any] struct {
	Docs          []T    `json:"docs"`
	TotalDocs     int64  `json:"totalDocs"`
	Limit         int64  `json:"limit"`
	Page          int64  `json:"page"`
	TotalPages    int64  `json:"totalPages"`
	PagingCounter int64  `json:"pagingCounter"`
	HasPrevPage   bool   `json:"hasPrevPage"`
	HasNextPage   bool   `json:"hasNextPage"`
	PrevPage      *int64 `json:"prevPage"`
	NextPage      *int64 `json:"nextPage"`
}

// NewPage wraps one page of docs together with the total match count.
func NewPage[T any](docs []T, totalDocs int64, req PageRequest) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	totalPages := int64(1)
	if totalDocs > 0 {
		totalPages = (totalDocs + req.Limit - 1) / req.Limit
	}

	p := Page[T]{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         req.Limit,
		Page:          req.Page,
		TotalPages:    totalPages,
		PagingCounter: req.Skip() + 1,
		HasPrevPage:   req.Page > 1,
		HasNextPage:   req.Page < totalPages,
	}
	if p.HasPrevPage {
		prev := req.Page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := req.Page + 1
		p.NextPage = &next
	}
	return p
}
