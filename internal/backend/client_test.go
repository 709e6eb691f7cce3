package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/hireboard/internal/config"
	"github.com/JonMunkholm/hireboard/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return New(config.BackendConfig{
		BaseURL:    srv.URL + "/",
		Timeout:    2 * time.Second,
		RetryCount: 2,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "hr@example.com" || body["password"] != "s3cret" {
			writeJSON(w, http.StatusOK, map[string]any{"code": 0, "message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"code":    1,
			"message": "Login successful",
			"data": map[string]any{
				"token":          "Bearer abc.def.ghi",
				"name":           "Priya",
				"departmentName": "Talent",
				"menulist": []map[string]any{
					{"id": 1, "name": "Candidates", "url": "candidates", "isActive": true},
				},
			},
		})
	})

	data, err := c.Login(context.Background(), "hr@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if data.Token != "abc.def.ghi" {
		t.Errorf("Token = %q, want prefix stripped", data.Token)
	}
	if data.Name != "Priya" || len(data.Menus) != 1 || data.Menus[0].URL != "candidates" {
		t.Errorf("LoginData = %+v", data)
	}

	_, err = c.Login(context.Background(), "hr@example.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password error = %v, want ErrInvalidCredentials", err)
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("error %q should carry the backend message", err)
	}
}

func TestLogin_ServerErrorIsNotBadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]any{"code": 0, "message": "upstream down"})
	})

	_, err := c.Login(context.Background(), "a@b.c", "x")
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("5xx should not be reported as invalid credentials")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Errorf("error = %v, want *APIError 502", err)
	}
}

func TestCreateCandidate(t *testing.T) {
	var got core.CandidateRecord
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/candidates/add" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("Authorization = %q", auth)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]any{"code": 1, "data": map[string]any{"id": 42}})
	})

	rec := core.CandidateRecord{Name: "Asha", Email: "asha@example.com", LinkedIn: "linkedin.com/in/asha"}
	id, err := c.As("tok").AddCandidate(context.Background(), rec)
	if err != nil {
		t.Fatalf("AddCandidate: %v", err)
	}
	if id != 42 {
		t.Errorf("id = %d, want 42", id)
	}
	if got != rec {
		t.Errorf("backend received %+v", got)
	}
}

func TestCreateCandidate_Rejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "message": "Email already exists"})
	})

	err := c.As("tok").CreateCandidate(context.Background(), core.CandidateRecord{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if err.Error() != "backend rejected create candidate: Email already exists" {
		t.Errorf("Error() = %q", err.Error())
	}
	if core.MapError(err).Code != "BE001" {
		t.Errorf("MapError code = %s, want BE001", core.MapError(err).Code)
	}
}

func TestCreateCandidate_NotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.As("tok").CreateCandidate(context.Background(), core.CandidateRecord{})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("create sent %d times, want 1", n)
	}
}

func TestList_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": 1, "data": []map[string]any{
			{"id": 1, "ticketId": "TCK-001", "candidateName": "Asha", "assignedTo": "Priya"},
		}})
	})

	tickets, err := c.As("tok").Tickets(context.Background())
	if err != nil {
		t.Fatalf("Tickets: %v", err)
	}
	if len(tickets) != 1 || tickets[0].TicketID != "TCK-001" {
		t.Errorf("tickets = %+v", tickets)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestList_NullDataIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"code": 200, "data": nil})
	})

	roles, err := c.As("tok").Roles(context.Background())
	if err != nil {
		t.Fatalf("Roles: %v", err)
	}
	if roles == nil || len(roles) != 0 {
		t.Errorf("roles = %#v, want empty slice", roles)
	}
}

func TestList_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.As("expired").Candidates(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
}

func TestList_BadBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := c.As("tok").Companies(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode backend response") {
		t.Errorf("error = %v, want decode error", err)
	}
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.BackendConfig{BaseURL: url, Timeout: time.Second})
	_, err := c.As("tok").Departments(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
	if core.MapError(err).Code != "BE002" {
		t.Errorf("MapError code = %s, want BE002", core.MapError(err).Code)
	}
}

func TestContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.As("tok").Users(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}
