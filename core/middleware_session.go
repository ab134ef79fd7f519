package core

import (
	"context"
	"errors"
	"net/http"

	"github.com/ayomtuase/julieth/session"
)

type contextKey string

const sessionIDKey contextKey = "session_id"

// Session makes sure every request carries a session id, issuing a cookie
// with a new one when the request has none or a tampered one.
func (a *App) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := a.cookies.SID(r)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				a.logger.Debug("session: discarding invalid cookie", "error", err)
			}
			sid, err = a.cookies.Issue(w)
			if err != nil {
				a.logger.Error("session: cannot issue cookie", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, sid)))
	})
}

// sessionID panics when the Session middleware did not run: a route was
// registered without it.
func sessionID(r *http.Request) string {
	sid, ok := r.Context().Value(sessionIDKey).(string)
	if !ok {
		panic("core: request without session id")
	}
	return sid
}
