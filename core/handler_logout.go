package core

import (
	"net/http"

	"github.com/ayomtuase/julieth/session"
)

// LogoutHandler ends the session and sends the browser to the login page.
// Signing out is never refused: provider errors are only logged.
// Endpoint: POST /logout
func (a *App) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	a.signOut(r, sid)
	http.Redirect(w, r, session.PathAnonymous, http.StatusSeeOther)
}

func (a *App) signOut(r *http.Request, sid string) {
	id := a.hub.Bind(sid).Terminate()
	a.forms.Drop(sid)
	if id == nil {
		return
	}
	if err := a.provider.SignOut(r.Context(), id); err != nil {
		a.logger.Warn("auth: provider sign out failed", "uid", id.UID, "error", err)
	}
}
