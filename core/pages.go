package core

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/ayomtuase/julieth/assets"
	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/validation"
)

const (
	pageLogin         = "login.html"
	pageSignup        = "signup.html"
	pageDashboard     = "dashboard.html"
	pageFederatedDone = "federated_done.html"
)

// page is the data of every template. Unused fields stay zero.
type page struct {
	Title       string
	View        string
	Form        flow.View
	Federations []federationLink
	Greeting    string
	Notice      string
	Target      string
}

type federationLink struct {
	Name  string
	Label string
	URL   string
}

type fieldView struct {
	Name         string
	Label        string
	Type         string
	Autocomplete string
	Value        string
	Error        string
}

var pageFuncs = template.FuncMap{
	"field": func(name, label, typ, autocomplete string, v flow.View) fieldView {
		f := fieldView{
			Name:         name,
			Label:        label,
			Type:         typ,
			Autocomplete: autocomplete,
			Error:        v.FieldErrors[name],
		}
		// Secrets are never echoed back into the page.
		if name == validation.FieldEmail {
			f.Value = v.Values[name]
		}
		return f
	},
}

func parsePages() (*template.Template, error) {
	return template.New("pages").Funcs(pageFuncs).ParseFS(assets.Templates, "templates/*.html")
}

// render executes name into a buffer first so a template error still yields a
// clean 500.
func (a *App) render(w http.ResponseWriter, status int, name string, p page) {
	var buf bytes.Buffer
	if err := a.pages.ExecuteTemplate(&buf, name, p); err != nil {
		a.logger.Error("render: template failed", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	setHeaders(w, headersPage)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (a *App) renderForm(w http.ResponseWriter, status int, kind flow.Kind, v flow.View) {
	p := page{Form: v, Federations: a.federationLinks(kind)}
	name := pageLogin
	switch kind {
	case flow.SignUpForm:
		p.Title, p.View, name = "Sign up", "signup", pageSignup
	default:
		p.Title, p.View = "Login", "login"
	}
	a.render(w, status, name, p)
}

func (a *App) federationLinks(kind flow.Kind) []federationLink {
	providers := a.Config().OAuth2Providers
	names := a.FederationNames()
	verb := "Sign in with "
	if kind == flow.SignUpForm {
		verb = "Sign up with "
	}
	links := make([]federationLink, 0, len(names))
	for _, name := range names {
		label := name
		if p, ok := providers[name]; ok && p.DisplayName != "" {
			label = p.DisplayName
		}
		links = append(links, federationLink{
			Name:  name,
			Label: verb + label,
			URL:   "/auth/" + name + "?from=" + kind.String(),
		})
	}
	return links
}

// formPath is the page a form lives on.
func formPath(kind flow.Kind) string {
	if kind == flow.SignUpForm {
		return "/signup"
	}
	return "/"
}
