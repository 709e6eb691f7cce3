package web

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/JonMunkholm/hireboard/internal/backend"
	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/JonMunkholm/hireboard/internal/logging"
	"github.com/JonMunkholm/hireboard/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

// listQuery is the user input of a list view. PrevSearch and PrevPageSize
// are what the client showed before this request; they equal Search and
// PageSize when the client did not send them.
type listQuery struct {
	Search       string
	PageSize     int
	Page         int
	PrevSearch   string
	PrevPageSize int
}

// state replays the request onto a ListState: the page the client saw, then
// any new filter or page size, which return to page 1.
func (q listQuery) state() *core.ListState {
	st := core.ResumeListState(q.PrevSearch, q.PrevPageSize, q.Page)
	if q.Search != st.Filter() {
		st.SetFilter(q.Search)
	}
	if q.PageSize != st.PageSize() {
		st.SetPageSize(q.PageSize)
	}
	return st
}

// entityList serves one paginated, searchable backend collection. serve
// returns an error only when nothing has been written yet.
type entityList interface {
	serve(w http.ResponseWriter, r *http.Request, client *backend.UserClient, q listQuery, opts listRender) error
}

// listRender controls the HTML fragment a list returns.
type listRender struct {
	pagerOnly bool
	pageSizes []string
}

// listSpec describes a collection: how to fetch it, which fields the search
// box looks at and how a row renders as table cells.
type listSpec[T any] struct {
	name    string
	fetch   func(*backend.UserClient, context.Context) ([]T, error)
	match   core.Matcher[T]
	columns []string
	row     func(T) []string
}

func (l listSpec[T]) serve(w http.ResponseWriter, r *http.Request, client *backend.UserClient, q listQuery, opts listRender) error {
	items, err := l.fetch(client, r.Context())
	if err != nil {
		return err
	}

	view := core.ViewOf(q.state(), items, l.match)

	if !isHTMX(r) {
		writeJSON(w, view)
		return nil
	}

	targetID := l.name + "-list"
	pager := templates.NewPagerParams("/api/"+l.name, "#"+targetID, view)

	var c templ.Component
	if opts.pagerOnly {
		c = templates.Pager(pager)
	} else {
		rows := make([][]string, len(view.Items))
		for i, item := range view.Items {
			rows[i] = l.row(item)
		}
		c = templates.ListTable(templates.ListTableParams{
			ID:        targetID,
			Columns:   l.columns,
			Rows:      rows,
			Pager:     pager,
			PageSizes: opts.pageSizes,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render list", "list", l.name, "error", err)
	}
	return nil
}

// entityLists returns every list the dashboard shows, keyed by URL name.
func entityLists() map[string]entityList {
	lists := []struct {
		name string
		list entityList
	}{
		{"candidates", listSpec[backend.Candidate]{
			name:  "candidates",
			fetch: (*backend.UserClient).Candidates,
			match: core.FieldsMatcher(
				func(c backend.Candidate) string { return c.Name },
				func(c backend.Candidate) string { return c.Email },
				func(c backend.Candidate) string { return c.Phone },
			),
			columns: []string{"Name", "Email", "Phone", "Experience", "Notice Period", "Skills", "LinkedIn", "Status"},
			row: func(c backend.Candidate) []string {
				return []string{c.Name, c.Email, c.Phone, c.Experience, c.NoticePeriod, c.Skills, core.LinkedInURL(c.LinkedInProfile), c.Status}
			},
		}},
		{"tickets", listSpec[backend.Ticket]{
			name:  "tickets",
			fetch: (*backend.UserClient).Tickets,
			match: core.FieldsMatcher(
				func(t backend.Ticket) string { return t.CandidateName },
				func(t backend.Ticket) string { return t.AssignedTo },
				func(t backend.Ticket) string { return t.TicketID },
			),
			columns: []string{"Ticket", "Candidate", "Assigned To", "Status", "Next Follow-up", "Remarks"},
			row: func(t backend.Ticket) []string {
				return []string{t.TicketID, t.CandidateName, t.AssignedTo, t.Status, t.NextFollowUpDate, t.Remarks}
			},
		}},
		{"users", listSpec[backend.User]{
			name:  "users",
			fetch: (*backend.UserClient).Users,
			match: core.FieldsMatcher(
				func(u backend.User) string { return u.Name },
				func(u backend.User) string { return u.Email },
				func(u backend.User) string { return u.Phone },
			),
			columns: []string{"Name", "Email", "Phone", "Company", "Department", "Role"},
			row: func(u backend.User) []string {
				return []string{u.Name, u.Email, u.Phone, u.CompanyName, u.DepartmentName, u.RoleName}
			},
		}},
		{"companies", listSpec[backend.Company]{
			name:  "companies",
			fetch: (*backend.UserClient).Companies,
			match: core.FieldsMatcher(
				func(c backend.Company) string { return c.Name },
				func(c backend.Company) string { return c.Email },
				func(c backend.Company) string { return c.Phone },
			),
			columns: []string{"Name", "Email", "Phone", "Address"},
			row: func(c backend.Company) []string {
				return []string{c.Name, c.Email, c.Phone, c.Address}
			},
		}},
		{"departments", listSpec[backend.Department]{
			name:  "departments",
			fetch: (*backend.UserClient).Departments,
			match: core.FieldsMatcher(
				func(d backend.Department) string { return d.Name },
				func(d backend.Department) string { return d.CompanyName },
			),
			columns: []string{"Department", "Company"},
			row: func(d backend.Department) []string {
				return []string{d.Name, d.CompanyName}
			},
		}},
		{"roles", listSpec[backend.Role]{
			name:  "roles",
			fetch: (*backend.UserClient).Roles,
			match: core.FieldsMatcher(
				func(r backend.Role) string { return r.Name },
				func(r backend.Role) string { return r.CompanyName },
			),
			columns: []string{"Role", "Company"},
			row: func(r backend.Role) []string {
				return []string{r.Name, r.CompanyName}
			},
		}},
		{"menus", listSpec[backend.Menu]{
			name:  "menus",
			fetch: (*backend.UserClient).MenuList,
			match: core.FieldsMatcher(
				func(m backend.Menu) string { return m.Name },
				func(m backend.Menu) string { return m.URL },
			),
			columns: []string{"Name", "URL", "Active"},
			row: func(m backend.Menu) []string {
				return []string{m.Name, m.URL, strconv.FormatBool(m.IsActive)}
			},
		}},
		{"submenus", listSpec[backend.SubMenu]{
			name:  "submenus",
			fetch: subMenus,
			match: core.FieldsMatcher(
				func(m backend.SubMenu) string { return m.Name },
				func(m backend.SubMenu) string { return m.URL },
			),
			columns: []string{"Name", "URL"},
			row: func(m backend.SubMenu) []string {
				return []string{m.Name, m.URL}
			},
		}},
	}

	out := make(map[string]entityList, len(lists))
	for _, l := range lists {
		out[l.name] = l.list
	}
	return out
}

// subMenus flattens the menu tree into its submenu entries.
func subMenus(c *backend.UserClient, ctx context.Context) ([]backend.SubMenu, error) {
	menus, err := c.Menus(ctx)
	if err != nil {
		return nil, err
	}
	var out []backend.SubMenu
	for _, m := range menus {
		out = append(out, m.SubMenus...)
	}
	return out, nil
}

// listQueryFrom reads search, pageSize and page. Page sizes outside the
// configured choices fall back to the default; "all" is always accepted.
func (s *Server) listQueryFrom(r *http.Request) listQuery {
	q := r.URL.Query()
	def := s.cfg.List.DefaultPageSize

	size := core.ParsePageSize(q.Get("pageSize"), def)
	if size != core.PageSizeAll && !slices.Contains(s.cfg.List.PageSizes, strconv.Itoa(size)) {
		size = def
	}

	lq := listQuery{
		Search:       q.Get("search"),
		PageSize:     size,
		Page:         parseIntParam(r, "page", 1),
		PrevSearch:   q.Get("search"),
		PrevPageSize: size,
	}
	if q.Has("prevSearch") {
		lq.PrevSearch = q.Get("prevSearch")
	}
	if q.Has("prevPageSize") {
		lq.PrevPageSize = core.ParsePageSize(q.Get("prevPageSize"), size)
	}
	return lq
}

// handleList returns the handler for the named list.
func (s *Server) handleList(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveList(w, r, name, false)
	}
}

// handlePager renders only the pagination control of a list.
func (s *Server) handlePager(w http.ResponseWriter, r *http.Request) {
	s.serveList(w, r, chi.URLParam(r, "entity"), true)
}

func (s *Server) serveList(w http.ResponseWriter, r *http.Request, name string, pagerOnly bool) {
	list, ok := s.lists[name]
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %s", errUnknownList, name), http.StatusNotFound)
		return
	}

	client, err := s.backendFor(r)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	q := s.listQueryFrom(r)
	opts := listRender{pagerOnly: pagerOnly, pageSizes: s.cfg.List.PageSizes}
	if err := list.serve(w, r, client, q, opts); err != nil {
		s.failRequest(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Debug("list served",
		"list", name,
		"search", q.Search,
		"page", q.Page,
		"prev_search", q.PrevSearch,
	)
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
