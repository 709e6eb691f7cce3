package middleware

import (
	"net/http"

	"github.com/JonMunkholm/hireboard/internal/logging"
	"github.com/JonMunkholm/hireboard/internal/session"
)

// SessionCookie is the cookie holding the opaque session ID.
const SessionCookie = "hireboard_session"

// ErrorResponder writes an error response for a rejected request.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error, status int)

// RequireSession rejects requests without a live session. On success the
// session is stored in the request context and the user is attached to logs.
func RequireSession(m *session.Manager, fail ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				fail(w, r, session.ErrNotFound, http.StatusUnauthorized)
				return
			}

			s, err := m.Get(cookie.Value)
			if err != nil {
				ClearSessionCookie(w, false)
				fail(w, r, err, http.StatusUnauthorized)
				return
			}

			SetRequestUser(r, s.Email)
			ctx := session.WithSession(r.Context(), s)
			ctx = logging.WithUser(ctx, s.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie issues the session cookie for s.
func SetSessionCookie(w http.ResponseWriter, s *session.Session, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
