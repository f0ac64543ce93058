package query

import "math"

// PageRef points at an adjacent page.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination 前後頁描述，不存在的一側省略
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Window is the [Start, End) offset range of a page.
type Window struct {
	Start int64
	End   int64
}

// Paginate computes the page window and the adjacent page descriptors.
// Non-positive page or limit fall back to the defaults. It does not slice
// anything; callers apply Window.Start and limit to the store query.
func Paginate(page, limit, total int64) (Window, Pagination) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if maxPage := math.MaxInt64 / limit; page > maxPage {
		page = maxPage
	}
	w := Window{Start: (page - 1) * limit, End: page * limit}

	var p Pagination
	if w.End < total {
		p.Next = &PageRef{Page: page + 1, Limit: limit}
	}
	if w.Start > 0 {
		p.Prev = &PageRef{Page: page - 1, Limit: limit}
	}
	return w, p
}
