package core

import (
	"net/http"
	"time"

	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/session"
)

const (
	federatedCookieName   = "julieth_federated"
	federatedCookieMaxAge = 10 * time.Minute
)

// federatedState survives the consent round trip in a signed and encrypted
// cookie.
type federatedState struct {
	Provider string `json:"provider"`
	State    string `json:"state"`
	Verifier string `json:"verifier"`
	Form     string `json:"form"`
}

// FederatedBeginHandler sends the popup to the consent page of the provider.
// Endpoint: GET /auth/:provider?from=signin|signup
func (a *App) FederatedBeginHandler(w http.ResponseWriter, r *http.Request) {
	name := a.params.Get(r.Context()).ByName("provider")
	fed, ok := a.Federation(name)
	if !ok {
		writeJsonError(w, errorInvalidProvider)
		return
	}

	consent := fed.Begin()
	st := federatedState{
		Provider: name,
		State:    consent.State,
		Verifier: consent.CodeVerifier,
		Form:     parseFormKind(r.URL.Query().Get("from")).String(),
	}
	if err := a.cookies.Write(w, federatedCookieName, st, federatedCookieMaxAge); err != nil {
		a.logger.Error("auth: cannot write federated state cookie", "provider", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	setHeaders(w, map[string]string{"Cache-Control": "no-store"})
	http.Redirect(w, r, consent.URL, http.StatusFound)
}

// FederatedCallbackHandler completes the consent round trip and renders a page
// that moves the opener window to where the session now belongs.
// Endpoint: GET /auth/:provider/callback
func (a *App) FederatedCallbackHandler(w http.ResponseWriter, r *http.Request) {
	name := a.params.Get(r.Context()).ByName("provider")
	fed, ok := a.Federation(name)
	if !ok {
		writeJsonError(w, errorInvalidProvider)
		return
	}

	sid := sessionID(r)
	var st federatedState
	if err := a.cookies.Read(r, federatedCookieName, &st); err != nil || st.Provider != name {
		// Without the cookie the state check in Complete fails.
		a.logger.Warn("auth: federated callback without state", "provider", name, "error", err)
		st = federatedState{Form: st.Form}
	}
	a.cookies.Clear(w, federatedCookieName)

	kind := parseFormKind(st.Form)
	form := a.forms.Form(sid, kind)
	q := r.URL.Query()
	cb := identity.Callback{
		Code:         q.Get("code"),
		State:        q.Get("state"),
		WantState:    st.State,
		CodeVerifier: st.Verifier,
		Error:        q.Get("error"),
	}

	sess := a.hub.Bind(sid)
	res := a.flow.SignInFederated(r.Context(), form, fed, cb, sess)

	target := formPath(kind)
	switch res.Outcome {
	case flow.Succeeded:
		a.notice(sid, form, res)
		target = session.PathAuthenticated
	case flow.Ignored:
		_ = form.Wait(r.Context())
		if t, ok := session.Decide(session.AnonymousView, sess.State()); ok {
			target = t
		}
	}
	a.render(w, http.StatusOK, pageFederatedDone, page{Title: "Signing in", Target: target})
}

func parseFormKind(s string) flow.Kind {
	if s == flow.SignUpForm.String() {
		return flow.SignUpForm
	}
	return flow.SignInForm
}
