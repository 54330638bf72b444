package listutil

import (
	"net/url"
	"reflect"
	"testing"
)

var columns = []string{"name", "email"}

// TestParse tests defaults, clamping and the sort allowlist.
func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  Params
	}{
		{"defaults", url.Values{}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"valid", url.Values{"page": {"3"}, "per_page": {"50"}, "sort": {"email"}, "dir": {"desc"}, "q": {"  kaur "}},
			Params{Search: "kaur", Sort: "email", Desc: true, Page: 3, PerPage: 50}},
		{"negative page", url.Values{"page": {"-4"}}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"per_page not offered", url.Values{"per_page": {"25"}}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"column not allowed", url.Values{"sort": {"password_hash"}, "dir": {"desc"}}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"odd direction", url.Values{"sort": {"name"}, "dir": {"DROP TABLE"}}, Params{Sort: "name", Page: 1, PerPage: DefaultPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.query, columns); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParams_Links tests that links keep the search and reset or flip as documented.
func TestParams_Links(t *testing.T) {
	p := Params{Search: "pat", Sort: "name", Page: 2, PerPage: DefaultPerPage}

	if got, want := p.PageLink("/view_patients", 3), "/view_patients?page=3&q=pat&sort=name"; got != want {
		t.Errorf("PageLink = %q, want %q", got, want)
	}
	if got, want := p.SortLink("/view_patients", "name"), "/view_patients?dir=desc&q=pat&sort=name"; got != want {
		t.Errorf("SortLink same column = %q, want %q", got, want)
	}
	if got, want := p.SortLink("/view_patients", "email"), "/view_patients?q=pat&sort=email"; got != want {
		t.Errorf("SortLink new column = %q, want %q", got, want)
	}
	if got := (Params{Page: 1, PerPage: DefaultPerPage}).PageLink("/p", 1); got != "/p" {
		t.Errorf("default link = %q, want /p", got)
	}
}

// TestNewPageInfo tests clamping and row bounds.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                 string
		page, perPage, total int
		wantPage, wantPages  int
		wantStart, wantEnd   int
		wantShow             bool
	}{
		{"empty", 1, 20, 0, 1, 1, 0, 0, false},
		{"single page", 1, 20, 7, 1, 1, 1, 7, false},
		{"last partial page", 3, 20, 45, 3, 3, 41, 45, true},
		{"past the end", 9, 20, 45, 3, 3, 41, 45, true},
		{"zero per page", 1, 0, 5, 1, 1, 1, 5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPageInfo(tt.page, tt.perPage, tt.total)
			if info.Page != tt.wantPage || info.TotalPages != tt.wantPages {
				t.Errorf("page %d of %d, want %d of %d", info.Page, info.TotalPages, tt.wantPage, tt.wantPages)
			}
			if info.StartRow() != tt.wantStart || info.EndRow() != tt.wantEnd {
				t.Errorf("rows %d-%d, want %d-%d", info.StartRow(), info.EndRow(), tt.wantStart, tt.wantEnd)
			}
			if info.ShowPagination() != tt.wantShow {
				t.Errorf("ShowPagination = %v", info.ShowPagination())
			}
		})
	}
}

// TestPageNumbers tests the five-page window at the edges and the middle.
func TestPageNumbers(t *testing.T) {
	tests := []struct {
		page, totalPages int
		want             []int
	}{
		{1, 1, []int{1}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{6, 10, []int{4, 5, 6, 7, 8}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{2, 3, []int{1, 2, 3}},
	}
	for _, tt := range tests {
		info := PageInfo{Page: tt.page, PerPage: 10, Total: tt.totalPages * 10, TotalPages: tt.totalPages}
		if got := info.PageNumbers(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("page %d of %d: got %v, want %v", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

// TestPaginate tests slicing, including an empty input.
func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	page, info := Paginate(items, Params{Page: 2, PerPage: 10})
	if !reflect.DeepEqual(page, []int{11, 12}) || info.TotalPages != 2 {
		t.Errorf("page 2 = %v (%+v)", page, info)
	}

	empty, info := Paginate([]string(nil), Params{Page: 4, PerPage: 10})
	if empty == nil || len(empty) != 0 || info.Page != 1 {
		t.Errorf("empty = %#v (%+v)", empty, info)
	}
}
