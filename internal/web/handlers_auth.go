package web

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/hireboard/internal/logging"
	mw "github.com/JonMunkholm/hireboard/internal/web/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readLogin accepts JSON or form-encoded credentials.
func readLogin(r *http.Request) (loginRequest, error) {
	var req loginRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errBadRequest
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return req, errBadRequest
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return req, errMissingLogin
	}
	return req, nil
}

// handleLogin exchanges credentials with the backend and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := readLogin(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	login, err := s.backend.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	sess, err := s.sessions.Create(req.Email, login)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	mw.SetSessionCookie(w, sess, s.cfg.Security.SecureCookies)
	mw.SetRequestUser(r, sess.Email)
	logging.WithFields(r.Context(), "user", sess.Email).Info("login", "expires_at", sess.ExpiresAt)

	writeJSON(w, sess)
}

// handleLogout ends the session. It always succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess, err := currentSession(r); err == nil {
		s.sessions.Delete(sess.ID)
		logging.FromContext(r.Context()).Info("logout")
	}
	s.clearCookie(w)

	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/")
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMe returns the signed-in user and their menus.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := currentSession(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, sess)
}

func (s *Server) clearCookie(w http.ResponseWriter) {
	mw.ClearSessionCookie(w, s.cfg.Security.SecureCookies)
}
