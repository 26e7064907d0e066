package listing

import "github.com/kailas-cloud/phonedex/internal/domain/search/result"

// Page is one page of a plain (unfaceted) listing.
type Page[T any] struct {
	Total      int   `json:"total"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
	CurPage    int   `json:"curPage"`
	Docs       []T   `json:"docs"`
}

// New wraps a page of documents. A nil slice becomes empty.
func New[T any](docs []T, total, page, limit int) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	return Page[T]{
		Total:      total,
		Limit:      limit,
		TotalPages: result.TotalPages(int64(total), limit),
		CurPage:    page,
		Docs:       docs,
	}
}

// Offset returns the number of documents before the given 1-based page.
func Offset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
