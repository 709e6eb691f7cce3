package templates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/hireboard/internal/core"
)

// PagerParams drives the pagination control under a list table.
type PagerParams struct {
	Path         string // Endpoint the buttons request, e.g. /api/candidates
	Target       string // hx-target for the swapped fragment
	Search       string
	PageSize     int
	Current      int
	TotalPages   int
	TotalEntries int
	From         int
	To           int
	Links        []core.PageLink
}

// NewPagerParams builds the control for a computed page view.
func NewPagerParams[T any](path, target string, v core.PageView[T]) PagerParams {
	return PagerParams{
		Path:         path,
		Target:       target,
		Search:       v.Filter,
		PageSize:     v.PageSize,
		Current:      v.CurrentPage,
		TotalPages:   v.TotalPages,
		TotalEntries: v.TotalEntries,
		From:         v.From(),
		To:           v.To(),
		Links:        core.PageWindow(v.CurrentPage, v.TotalPages),
	}
}

func (p PagerParams) HasPrev() bool { return p.Current > 1 }
func (p PagerParams) HasNext() bool { return p.Current < p.TotalPages }

// URL returns the request for page, keeping the search and page size.
func (p PagerParams) URL(page int) string {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	q.Set("pageSize", core.FormatPageSize(p.PageSize))
	q.Set("page", strconv.Itoa(page))
	return p.Path + "?" + q.Encode()
}

// ListTableParams is one rendered page of an entity list.
type ListTableParams struct {
	ID        string
	Columns   []string
	Rows      [][]string
	Pager     PagerParams
	PageSizes []string // Choices for the page size select
}

// SizeOption is one entry of the page size select.
type SizeOption struct {
	Value    string
	Selected bool
}

// SizeOptions lists the configured page sizes plus "all", marking the
// current one.
func (t ListTableParams) SizeOptions() []SizeOption {
	current := core.FormatPageSize(t.Pager.PageSize)
	opts := make([]SizeOption, 0, len(t.PageSizes)+1)
	hasAll := false
	for _, v := range t.PageSizes {
		v = strings.ToLower(v)
		hasAll = hasAll || v == "all"
		opts = append(opts, SizeOption{Value: v, Selected: v == current})
	}
	if !hasAll {
		opts = append(opts, SizeOption{Value: "all", Selected: current == "all"})
	}
	return opts
}

// SearchID is the id of the search box, stable across swaps so the browser
// keeps focus while typing.
func (t ListTableParams) SearchID() string { return t.ID + "-search" }

// failureLimit caps the failures listed inline in an import summary.
const failureLimit = 20

func visibleFailures(res *core.ImportResult) []core.RowFailure {
	f := res.Outcome.Failures
	if len(f) > failureLimit {
		return f[:failureLimit]
	}
	return f
}

func hiddenFailures(res *core.ImportResult) int {
	return max(0, len(res.Outcome.Failures)-failureLimit)
}
