package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/JonMunkholm/hireboard/internal/core"
)

// sentRequest is what the fake backend saw.
type sentRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

func recordingClient(t *testing.T, data any) (*UserClient, *sentRequest) {
	t.Helper()
	got := &sentRequest{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.method, got.path, got.query = r.Method, r.URL.Path, r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &got.body)
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": 1, "message": "Done", "data": data})
	})
	return c.As("tok"), got
}

func TestRecordWrites(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func(*UserClient) error
		wantMethod string
		wantPath   string
		wantQuery  string
		wantBody   map[string]any
	}{
		{
			name: "update candidate",
			call: func(u *UserClient) error {
				return u.UpdateCandidate(ctx, 7, core.CandidateRecord{Name: "Asha", Email: "asha@example.com"})
			},
			wantMethod: http.MethodPut,
			wantPath:   "/candidates/update",
			wantBody:   map[string]any{"id": float64(7), "name": "Asha", "email": "asha@example.com"},
		},
		{
			name:       "delete candidate",
			call:       func(u *UserClient) error { return u.DeleteCandidate(ctx, 7) },
			wantMethod: http.MethodDelete,
			wantPath:   "/candidates/delete/7",
		},
		{
			name: "add ticket log",
			call: func(u *UserClient) error {
				return u.AddTicketLog(ctx, TicketLog{ID: 99, TicketID: 3, Status: "Interview", Remarks: "round 2", NextFollowUpDate: "2026-11-02"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/log-history/add",
			wantBody:   map[string]any{"id": float64(0), "ticketId": float64(3), "status": "Interview", "nextFollowUpDate": "2026-11-02"},
		},
		{
			name: "add ticket",
			call: func(u *UserClient) error {
				return u.AddTicket(ctx, NewTicket{CandidateID: 4, UserID: 2, Status: "Open"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/ticket/add",
			wantBody:   map[string]any{"id": float64(0), "candidateId": float64(4), "userId": float64(2), "status": "Open"},
		},
		{
			name: "add company",
			call: func(u *UserClient) error {
				return u.AddCompany(ctx, NewCompany{ID: 5, Name: "Acme", Email: "hr@acme.test"})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/company/add",
			wantBody:   map[string]any{"id": float64(0), "name": "Acme", "email": "hr@acme.test"},
		},
		{
			name:       "add role",
			call:       func(u *UserClient) error { return u.AddRole(ctx, "Recruiter") },
			wantMethod: http.MethodPost,
			wantPath:   "/role/add",
			wantBody:   map[string]any{"name": "Recruiter"},
		},
		{
			name: "signup",
			call: func(u *UserClient) error {
				return u.Signup(ctx, Signup{Name: "Arjun", Email: "arjun@example.com", Password: "pw", RoleID: 2})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/auth/signup",
			wantBody:   map[string]any{"name": "Arjun", "roleId": float64(2), "menuList": []any{}},
		},
		{
			name:       "add menu",
			call:       func(u *UserClient) error { return u.AddMenu(ctx, NewMenu{Name: "Reports", URL: "/reports"}) },
			wantMethod: http.MethodPost,
			wantPath:   "/menu/add",
			wantBody:   map[string]any{"id": float64(0), "name": "Reports", "url": "/reports"},
		},
		{
			name: "add submenu",
			call: func(u *UserClient) error {
				return u.AddSubMenu(ctx, NewSubMenu{Name: "Weekly", URL: "/reports/weekly", MenuID: 3})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/sub-menu/add",
			wantBody:   map[string]any{"id": float64(0), "menuId": float64(3), "name": "Weekly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, got := recordingClient(t, nil)
			if err := tt.call(u); err != nil {
				t.Fatalf("call: %v", err)
			}
			if got.method != tt.wantMethod || got.path != tt.wantPath {
				t.Errorf("request = %s %s, want %s %s", got.method, got.path, tt.wantMethod, tt.wantPath)
			}
			for k, want := range tt.wantBody {
				gotVal, _ := json.Marshal(got.body[k])
				wantVal, _ := json.Marshal(want)
				if string(gotVal) != string(wantVal) {
					t.Errorf("body[%s] = %s, want %s", k, gotVal, wantVal)
				}
			}
		})
	}
}

func TestCandidateByID(t *testing.T) {
	u, got := recordingClient(t, map[string]any{"id": 7, "name": "Asha", "linkedInProfile": "linkedin.com/in/asha"})

	c, err := u.CandidateByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("CandidateByID: %v", err)
	}
	if got.path != "/candidates/get-by-id/7" {
		t.Errorf("path = %s", got.path)
	}
	if c.ID != 7 || c.Name != "Asha" {
		t.Errorf("candidate = %+v", c)
	}
}

func TestSendCandidateDetail(t *testing.T) {
	u, got := recordingClient(t, nil)

	msg, err := u.SendCandidateDetail(context.Background(), "lead@example.com", 7)
	if err != nil {
		t.Fatalf("SendCandidateDetail: %v", err)
	}
	if msg != "Done" {
		t.Errorf("message = %q, want backend message", msg)
	}
	if !strings.Contains(got.query, "email=lead%40example.com") || !strings.Contains(got.query, "candidateId=7") {
		t.Errorf("query = %s", got.query)
	}
	if got.body["email"] != "lead@example.com" {
		t.Errorf("body = %v", got.body)
	}
}

func TestTicketLogs(t *testing.T) {
	u, got := recordingClient(t, []map[string]any{
		{"status": "Open", "remarks": "called", "nextFollowUpDate": "2026-10-20"},
		{"status": "Interview", "remarks": "round 1", "nextFollowUpDate": "2026-10-25"},
	})

	logs, err := u.TicketLogs(context.Background(), 3)
	if err != nil {
		t.Fatalf("TicketLogs: %v", err)
	}
	if got.path != "/log-history/get-by-ticket-id" || got.query != "ticketId=3" {
		t.Errorf("request = %s?%s", got.path, got.query)
	}
	if len(logs) != 2 || logs[1].Status != "Interview" {
		t.Errorf("logs = %+v", logs)
	}
}

func TestMenuList(t *testing.T) {
	u, got := recordingClient(t, []map[string]any{{"id": 1, "name": "Masters", "url": "/masters", "isActive": true}})

	menus, err := u.MenuList(context.Background())
	if err != nil {
		t.Fatalf("MenuList: %v", err)
	}
	if got.path != "/menu/get-all" {
		t.Errorf("path = %s", got.path)
	}
	if len(menus) != 1 || !menus[0].IsActive {
		t.Errorf("menus = %+v", menus)
	}
}

func TestRecordWrite_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "message": "Role already exists"})
	})

	err := c.As("tok").AddRole(context.Background(), "Recruiter")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Role already exists" {
		t.Fatalf("error = %v, want APIError with backend message", err)
	}
}
