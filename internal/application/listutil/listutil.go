// Package listutil parses list-view query parameters and pages in-memory results.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100}

// Params are the search, sort and page settings of one list request.
type Params struct {
	Search  string // free text, trimmed
	Sort    string // one of the allowed columns, or "" for the default order
	Desc    bool
	Page    int // 1-indexed
	PerPage int
}

// Parse reads q, page, per_page, sort and dir from query values.
// PRE: sortColumns lists the columns the caller can sort by
// POST: Page >= 1; PerPage is one of PerPageOptions; Sort is allowed or ""
func Parse(q url.Values, sortColumns []string) Params {
	p := Params{
		Search:  strings.TrimSpace(q.Get("q")),
		Page:    max(atoi(q.Get("page")), 1),
		PerPage: atoi(q.Get("per_page")),
	}
	if !slices.Contains(PerPageOptions, p.PerPage) {
		p.PerPage = DefaultPerPage
	}
	if s := q.Get("sort"); slices.Contains(sortColumns, s) {
		p.Sort = s
		p.Desc = q.Get("dir") == "desc"
	}
	return p
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Values encodes p back into query values, omitting defaults.
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("q", p.Search)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
		if p.Desc {
			v.Set("dir", "desc")
		}
	}
	if p.Page > 1 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage != DefaultPerPage && p.PerPage > 0 {
		v.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return v
}

func (p Params) link(path string) string {
	if enc := p.Values().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// PageLink returns path with p moved to page.
func (p Params) PageLink(path string, page int) string {
	p.Page = page
	return p.link(path)
}

// SortLink returns path sorted by column, back on page 1.
// Selecting the current column flips its direction.
func (p Params) SortLink(path, column string) string {
	p.Desc = p.Sort == column && !p.Desc
	p.Sort = column
	p.Page = 1
	return p.link(path)
}

// PageInfo is pagination metadata for rendering.
type PageInfo struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo clamps page into range for total rows.
// POST: 1 <= Page <= TotalPages; TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	pages := max((total+perPage-1)/perPage, 1)
	return PageInfo{
		Page:       min(max(page, 1), pages),
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

// Offset is the index of the first row on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow is the 1-indexed first row shown, or 0 when there are no rows.
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow is the 1-indexed last row shown.
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// PageNumbers returns at most five page numbers around the current page.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	start := max(p.Page-window/2, 1)
	end := min(start+window-1, p.TotalPages)
	start = max(end-window+1, 1)
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination reports whether the rows span more than one page.
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

// Paginate returns the slice of items on p's page.
// POST: The returned slice is non-nil
func Paginate[T any](items []T, p Params) ([]T, PageInfo) {
	info := NewPageInfo(p.Page, p.PerPage, len(items))
	page := make([]T, 0, info.EndRow()-info.StartRow()+1)
	if info.Total > 0 {
		page = append(page, items[info.Offset():info.EndRow()]...)
	}
	return page, info
}
