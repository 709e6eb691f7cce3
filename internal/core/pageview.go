package core

import (
	"strconv"
	"strings"
)

// PageSizeAll disables pagination: the whole filtered collection is one page.
const PageSizeAll = 0

// MaxPageButtons is the widest run of numbered page buttons PageWindow emits.
const MaxPageButtons = 5

// PageView is a read-only page of a filtered collection.
type PageView[T any] struct {
	Items        []T    `json:"items"`
	CurrentPage  int    `json:"currentPage"`
	TotalPages   int    `json:"totalPages"`
	TotalEntries int    `json:"totalEntries"`
	PageSize     int    `json:"pageSize"`
	Filter       string `json:"filter"`
}

// From returns the 1-based position of the first item on the page, or 0
// when the page is empty.
func (v PageView[T]) From() int {
	if len(v.Items) == 0 {
		return 0
	}
	if v.PageSize == PageSizeAll {
		return 1
	}
	return (v.CurrentPage-1)*v.PageSize + 1
}

// To returns the 1-based position of the last item on the page.
func (v PageView[T]) To() int {
	if len(v.Items) == 0 {
		return 0
	}
	return v.From() + len(v.Items) - 1
}

// HasPrev reports whether a previous page exists.
func (v PageView[T]) HasPrev() bool { return v.CurrentPage > 1 }

// HasNext reports whether a next page exists.
func (v PageView[T]) HasNext() bool { return v.CurrentPage < v.TotalPages }

// Matcher reports whether item matches the lowercased, trimmed filter text.
type Matcher[T any] func(item T, filter string) bool

// FieldsMatcher matches when any of the given fields contains the filter
// case-insensitively.
func FieldsMatcher[T any](fields ...func(T) string) Matcher[T] {
	return func(item T, filter string) bool {
		for _, get := range fields {
			if strings.Contains(strings.ToLower(get(item)), filter) {
				return true
			}
		}
		return false
	}
}

// Filter returns the items matching filter, preserving order. An empty or
// whitespace-only filter matches everything.
func Filter[T any](source []T, match Matcher[T], filter string) []T {
	needle := strings.ToLower(strings.TrimSpace(filter))
	if needle == "" || match == nil {
		return source
	}
	out := make([]T, 0, len(source))
	for _, item := range source {
		if match(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

// Paginate derives the page view for (source, filter, pageSize, page).
//
// A pageSize of PageSizeAll (or any non-positive value) yields a single page
// holding every match. There is always at least one page, even when nothing
// matches, and page is clamped into [1, TotalPages].
func Paginate[T any](source []T, match Matcher[T], filter string, pageSize, page int) PageView[T] {
	matched := Filter(source, match, filter)
	if pageSize < 0 {
		pageSize = PageSizeAll
	}

	total := len(matched)
	totalPages := 1
	if pageSize != PageSizeAll && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	page = clampPage(page, totalPages)

	items := matched
	if pageSize != PageSizeAll {
		start := (page - 1) * pageSize
		end := min(start+pageSize, total)
		items = matched[start:end]
	}

	return PageView[T]{
		Items:        items,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalEntries: total,
		PageSize:     pageSize,
		Filter:       filter,
	}
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// ParsePageSize reads a page size value. "all" (any case) means PageSizeAll.
// Anything unparsable or non-positive returns def.
func ParsePageSize(s string, def int) int {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return PageSizeAll
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// FormatPageSize is the inverse of ParsePageSize.
func FormatPageSize(n int) string {
	if n == PageSizeAll {
		return "all"
	}
	return strconv.Itoa(n)
}

// ListState is the user-controlled input of a list view.
//
// Changing the filter or the page size always returns to page 1. Navigation
// outside [1, totalPages] of the last computed view is refused.
type ListState struct {
	filter     string
	pageSize   int
	page       int
	totalPages int
}

// NewListState starts at page 1 with no filter.
func NewListState(pageSize int) *ListState {
	return &ListState{pageSize: pageSize, page: 1, totalPages: 1}
}

// ResumeListState rebuilds the state a client last saw. The page is taken
// as given and clamped by the next ViewOf; changing the filter or page size
// afterwards still returns to page 1.
func ResumeListState(filter string, pageSize, page int) *ListState {
	if pageSize < 0 {
		pageSize = PageSizeAll
	}
	return &ListState{filter: filter, pageSize: pageSize, page: max(page, 1), totalPages: max(page, 1)}
}

func (s *ListState) Filter() string { return s.filter }
func (s *ListState) PageSize() int  { return s.pageSize }
func (s *ListState) Page() int      { return s.page }

// SetFilter changes the filter text and resets to page 1.
func (s *ListState) SetFilter(filter string) {
	s.filter = filter
	s.page = 1
}

// SetPageSize changes the page size and resets to page 1.
func (s *ListState) SetPageSize(size int) {
	if size < 0 {
		size = PageSizeAll
	}
	s.pageSize = size
	s.page = 1
}

// GoTo moves to page if it lies within the last computed view.
// It reports whether the move happened.
func (s *ListState) GoTo(page int) bool {
	if page < 1 || page > s.totalPages {
		return false
	}
	s.page = page
	return true
}

// Next advances one page if possible.
func (s *ListState) Next() bool { return s.GoTo(s.page + 1) }

// Prev goes back one page if possible.
func (s *ListState) Prev() bool { return s.GoTo(s.page - 1) }

// ViewOf computes the page view for source and remembers its page count for
// later navigation.
func ViewOf[T any](s *ListState, source []T, match Matcher[T]) PageView[T] {
	v := Paginate(source, match, s.filter, s.pageSize, s.page)
	s.page = v.CurrentPage
	s.totalPages = v.TotalPages
	return v
}

// PageLink is one element of the pagination control.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// PageWindow returns the pagination control for current of total pages.
//
// At most MaxPageButtons consecutive pages are shown around current, shifted
// to stay inside [1, total]. When the run does not reach the first or last
// page, that page is shown on its own, separated by an ellipsis if any pages
// lie between.
func PageWindow(current, total int) []PageLink {
	if total <= 1 {
		return []PageLink{{Number: 1, Current: true}}
	}
	current = clampPage(current, total)

	start := current - MaxPageButtons/2
	end := start + MaxPageButtons - 1
	if start < 1 {
		start, end = 1, min(MaxPageButtons, total)
	}
	if end > total {
		start, end = max(1, total-MaxPageButtons+1), total
	}

	links := make([]PageLink, 0, MaxPageButtons+4)
	if start > 1 {
		links = append(links, PageLink{Number: 1})
		if start > 2 {
			links = append(links, PageLink{Ellipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		links = append(links, PageLink{Number: n, Current: n == current})
	}
	if end < total {
		if end < total-1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Number: total})
	}
	return links
}
