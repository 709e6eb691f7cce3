package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/hireboard/internal/core"
)

// exec sends a write whose data part is not needed.
func (u *UserClient) exec(ctx context.Context, method, path, op string, body any) error {
	req := u.req()
	if body != nil {
		req.SetBody(body)
	}
	_, err := do[json.RawMessage](ctx, req, method, path, op)
	return err
}

func idPath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

// CandidateByID fetches one candidate.
func (u *UserClient) CandidateByID(ctx context.Context, id int64) (*Candidate, error) {
	c, err := do[Candidate](ctx, u.req(), http.MethodGet, idPath("/candidates/get-by-id/", id), "get candidate")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCandidate replaces the stored fields of candidate id.
func (u *UserClient) UpdateCandidate(ctx context.Context, id int64, rec core.CandidateRecord) error {
	return u.exec(ctx, http.MethodPut, "/candidates/update", "update candidate",
		candidateUpdate{ID: id, CandidateRecord: rec})
}

func (u *UserClient) DeleteCandidate(ctx context.Context, id int64) error {
	return u.exec(ctx, http.MethodDelete, idPath("/candidates/delete/", id), "delete candidate", nil)
}

// SendCandidateDetail mails a candidate's profile to email and returns the
// backend's confirmation message.
func (u *UserClient) SendCandidateDetail(ctx context.Context, email string, candidateID int64) (string, error) {
	req := u.req().
		SetQueryParam("email", email).
		SetQueryParam("candidateId", strconv.FormatInt(candidateID, 10)).
		SetBody(map[string]any{"email": email, "candidateId": candidateID})

	env, err := call[json.RawMessage](ctx, req, http.MethodPost, "/ticket/send-candidate-detail", "send candidate detail")
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// TicketLogs returns the follow-up history of a ticket, oldest first as the
// backend stores it.
func (u *UserClient) TicketLogs(ctx context.Context, ticketID int64) ([]TicketLog, error) {
	req := u.req().SetQueryParam("ticketId", strconv.FormatInt(ticketID, 10))
	logs, err := do[[]TicketLog](ctx, req, http.MethodGet, "/log-history/get-by-ticket-id", "list ticket logs")
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []TicketLog{}
	}
	return logs, nil
}

// AddTicketLog records a follow-up. The backend also moves the ticket to
// the entry's status and follow-up date.
func (u *UserClient) AddTicketLog(ctx context.Context, entry TicketLog) error {
	entry.ID = 0
	return u.exec(ctx, http.MethodPost, "/log-history/add", "add ticket log", entry)
}

func (u *UserClient) AddTicket(ctx context.Context, t NewTicket) error {
	t.ID = 0
	return u.exec(ctx, http.MethodPost, "/ticket/add", "create ticket", t)
}

func (u *UserClient) AddCompany(ctx context.Context, c NewCompany) error {
	c.ID = 0
	return u.exec(ctx, http.MethodPost, "/company/add", "create company", c)
}

func (u *UserClient) AddRole(ctx context.Context, name string) error {
	return u.exec(ctx, http.MethodPost, "/role/add", "create role", map[string]string{"name": name})
}

// Signup creates a dashboard operator.
func (u *UserClient) Signup(ctx context.Context, s Signup) error {
	if s.Menus == nil {
		s.Menus = []MenuGrant{}
	}
	return u.exec(ctx, http.MethodPost, "/auth/signup", "create user", s)
}

func (u *UserClient) AddMenu(ctx context.Context, m NewMenu) error {
	m.ID = 0
	return u.exec(ctx, http.MethodPost, "/menu/add", "create menu", m)
}

func (u *UserClient) AddSubMenu(ctx context.Context, m NewSubMenu) error {
	m.ID = 0
	return u.exec(ctx, http.MethodPost, "/sub-menu/add", "create submenu", m)
}

// MenuList returns every top-level menu without submenus.
func (u *UserClient) MenuList(ctx context.Context) ([]Menu, error) {
	return list[Menu](ctx, u, "/menu/get-all", "list all menus")
}
