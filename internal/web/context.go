package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/hireboard/internal/backend"
	"github.com/JonMunkholm/hireboard/internal/session"
)

// currentSession returns the session attached by RequireSession.
func currentSession(r *http.Request) (*session.Session, error) {
	if s := session.FromContext(r.Context()); s != nil {
		return s, nil
	}
	return nil, session.ErrNotFound
}

// backendFor returns a backend client acting for the request's user.
func (s *Server) backendFor(r *http.Request) (*backend.UserClient, error) {
	sess, err := currentSession(r)
	if err != nil {
		return nil, err
	}
	return s.backend.As(sess.Token), nil
}

// failRequest responds with err. A backend token rejection also ends the
// local session so the browser is sent back to login.
func (s *Server) failRequest(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, backend.ErrUnauthorized) {
		if sess := session.FromContext(r.Context()); sess != nil {
			s.sessions.Delete(sess.ID)
		}
		s.clearCookie(w)
	}
	respondError(w, r, err, statusFor(err))
}
