// Package session mirrors the identity provider session of each browser into
// redirect decisions for the views.
package session

import "github.com/ayomtuase/julieth/identity"

type Status int

const (
	// Pending means no observation has arrived yet. Views show a loading state.
	Pending Status = iota
	Anonymous
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "pending"
	}
}

// State is one observation of a browser session. Version orders observations
// so late deliveries can be dropped.
type State struct {
	Status   Status
	Identity *identity.Identity
	Version  uint64
}

// View is the side of the app a page belongs to.
type View int

const (
	AnonymousView View = iota
	AuthenticatedView
)

const (
	PathAnonymous     = "/"
	PathAuthenticated = "/dashboard"
)

// ParseView maps the view names used by the pages.
func ParseView(s string) (View, bool) {
	switch s {
	case "anonymous", "login", "signup":
		return AnonymousView, true
	case "authenticated", "dashboard":
		return AuthenticatedView, true
	}
	return 0, false
}

// Decide returns where a view showing st must go, if anywhere. Pending never
// redirects.
func Decide(view View, st State) (string, bool) {
	switch {
	case view == AnonymousView && st.Status == Authenticated:
		return PathAuthenticated, true
	case view == AuthenticatedView && st.Status == Anonymous:
		return PathAnonymous, true
	}
	return "", false
}
