package core

import (
	"net/http"

	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/session"
)

// LoginPageHandler renders the sign-in form.
// Endpoint: GET /
func (a *App) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	a.formPage(w, r, flow.SignInForm)
}

// SignupPageHandler renders the sign-up form.
// Endpoint: GET /signup
func (a *App) SignupPageHandler(w http.ResponseWriter, r *http.Request) {
	a.formPage(w, r, flow.SignUpForm)
}

func (a *App) formPage(w http.ResponseWriter, r *http.Request, kind flow.Kind) {
	sid := sessionID(r)
	if target, ok := session.Decide(session.AnonymousView, a.hub.Current(sid)); ok {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	a.renderForm(w, http.StatusOK, kind, a.forms.Form(sid, kind).View())
}

// DashboardHandler greets the signed in user.
// Endpoint: GET /dashboard
func (a *App) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)
	st := a.hub.Current(sid)
	if target, ok := session.Decide(session.AuthenticatedView, st); ok {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	p := page{Title: "Dashboard", View: "dashboard", Notice: a.hub.TakeFlash(sid)}
	if st.Identity != nil {
		p.Greeting = st.Identity.Greeting()
	}
	a.render(w, http.StatusOK, pageDashboard, p)
}

// NotFoundHandler renders the not found error as json.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonError(w, errorNotFound)
}
