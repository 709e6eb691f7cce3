package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/hireboard/internal/backend"
	"github.com/JonMunkholm/hireboard/internal/core"
	"github.com/JonMunkholm/hireboard/internal/logging"
	"github.com/go-chi/chi/v5"
)

// idParam reads a positive numeric {id} route parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, errBadRequest
	}
	return id, nil
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

// required reports blank values as field errors, in the order given.
func required(pairs ...string) error {
	var errs []core.FieldError
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			errs = append(errs, core.FieldError{Field: core.Field(pairs[i]), Message: "is required"})
		}
	}
	if len(errs) > 0 {
		return &validationError{fields: errs}
	}
	return nil
}

// withBackend runs fn with the user's backend client and answers errors.
// fn returns the value to encode, or nil for 204 No Content.
func (s *Server) withBackend(w http.ResponseWriter, r *http.Request, status int, event string,
	fn func(ctx context.Context, c *backend.UserClient) (any, error)) {
	client, err := s.backendFor(r)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	out, err := fn(r.Context(), client)
	if err != nil {
		s.failRequest(w, r, err)
		return
	}

	if event != "" && isHTMX(r) {
		w.Header().Set("HX-Trigger", event)
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSONStatus(w, status, out)
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.withBackend(w, r, http.StatusOK, "", func(ctx context.Context, c *backend.UserClient) (any, error) {
		return c.CandidateByID(ctx, id)
	})
}

// handleUpdateCandidate applies the same validation as creation.
func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	rec, err := readCandidate(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	if errs := core.ValidateRecord(rec); len(errs) > 0 {
		err := &validationError{fields: errs}
		respondError(w, r, err, statusFor(err))
		return
	}

	s.withBackend(w, r, http.StatusOK, "candidate-updated", func(ctx context.Context, c *backend.UserClient) (any, error) {
		if err := c.UpdateCandidate(ctx, id, rec); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info("candidate updated", "candidate_id", id)
		return map[string]any{"id": id, "candidate": rec}, nil
	})
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.withBackend(w, r, 0, "candidate-deleted", func(ctx context.Context, c *backend.UserClient) (any, error) {
		if err := c.DeleteCandidate(ctx, id); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info("candidate deleted", "candidate_id", id)
		return nil, nil
	})
}

// handleSendCandidateDetail mails a candidate's profile to an address.
func (s *Server) handleSendCandidateDetail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	if !core.ValidEmail(body.Email) {
		err := &validationError{fields: []core.FieldError{{Field: core.FieldEmail, Message: "is not a valid email"}}}
		respondError(w, r, err, statusFor(err))
		return
	}

	s.withBackend(w, r, http.StatusOK, "", func(ctx context.Context, c *backend.UserClient) (any, error) {
		msg, err := c.SendCandidateDetail(ctx, body.Email, id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"message": msg}, nil
	})
}

func (s *Server) handleTicketLogs(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.withBackend(w, r, http.StatusOK, "", func(ctx context.Context, c *backend.UserClient) (any, error) {
		return c.TicketLogs(ctx, id)
	})
}

// handleAddTicketLog records a follow-up on the ticket in the path.
func (s *Server) handleAddTicketLog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	var entry backend.TicketLog
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	entry.TicketID = id
	if err := required("status", entry.Status, "remarks", entry.Remarks); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	s.withBackend(w, r, http.StatusCreated, "ticket-log-added", func(ctx context.Context, c *backend.UserClient) (any, error) {
		if err := c.AddTicketLog(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	})
}

// createHandler decodes a JSON payload of type T, checks it and forwards it
// to the backend.
func createHandler[T any](s *Server, event string, check func(T) error,
	send func(*backend.UserClient, context.Context, T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload T
		if err := decodeJSON(r, &payload); err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		if err := check(payload); err != nil {
			respondError(w, r, err, statusFor(err))
			return
		}
		s.withBackend(w, r, http.StatusCreated, event, func(ctx context.Context, c *backend.UserClient) (any, error) {
			if err := send(c, ctx, payload); err != nil {
				return nil, err
			}
			logging.FromContext(ctx).Info("record created", "event", event)
			return map[string]bool{"created": true}, nil
		})
	}
}

type roleRequest struct {
	Name string `json:"name"`
}

// createRoutes are the admin creates, keyed by path under /api.
func (s *Server) createRoutes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/tickets": createHandler(s, "ticket-created",
			func(t backend.NewTicket) error {
				if t.CandidateID < 1 || t.UserID < 1 {
					return errBadRequest
				}
				return required("status", t.Status)
			},
			(*backend.UserClient).AddTicket),
		"/companies": createHandler(s, "company-created",
			func(c backend.NewCompany) error {
				if err := required("name", c.Name, "email", c.Email); err != nil {
					return err
				}
				if !core.ValidEmail(c.Email) {
					return &validationError{fields: []core.FieldError{{Field: "email", Message: "is not a valid email"}}}
				}
				return nil
			},
			(*backend.UserClient).AddCompany),
		"/roles": createHandler(s, "role-created",
			func(r roleRequest) error { return required("name", r.Name) },
			func(c *backend.UserClient, ctx context.Context, r roleRequest) error {
				return c.AddRole(ctx, strings.TrimSpace(r.Name))
			}),
		"/users": createHandler(s, "user-created",
			func(u backend.Signup) error {
				return required("name", u.Name, "email", u.Email, "password", u.Password)
			},
			(*backend.UserClient).Signup),
		"/menus": createHandler(s, "menu-created",
			func(m backend.NewMenu) error { return required("name", m.Name, "url", m.URL) },
			(*backend.UserClient).AddMenu),
		"/submenus": createHandler(s, "submenu-created",
			func(m backend.NewSubMenu) error {
				if m.MenuID < 1 {
					return errBadRequest
				}
				return required("name", m.Name, "url", m.URL)
			},
			(*backend.UserClient).AddSubMenu),
	}
}
