package common

import (
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginatedResponse mirrors the envelope the frontend already consumes:
// a total count, next/previous page links, and the page of results.
type PaginatedResponse struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// PageParams extracts page and page_size query parameters. Page defaults to 1,
// page_size to DefaultPageSize; page_size above MaxPageSize is clamped.
func PageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// NewPaginatedResponse builds the response envelope for one page. Next and
// previous links are derived from the request URL with the page parameter
// rewritten, and are null when there is no further page in that direction.
func NewPaginatedResponse(r *http.Request, count, page, pageSize int, results interface{}) PaginatedResponse {
	resp := PaginatedResponse{Count: count, Results: results}

	if page*pageSize < count {
		next := pageLink(r, page+1)
		resp.Next = &next
	}
	if page > 1 {
		prev := pageLink(r, page-1)
		resp.Previous = &prev
	}
	return resp
}

func pageLink(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}
