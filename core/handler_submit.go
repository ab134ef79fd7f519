package core

import (
	"context"
	"net/http"

	"github.com/ayomtuase/julieth/flow"
	"github.com/ayomtuase/julieth/session"
	"github.com/ayomtuase/julieth/validation"
)

const maxFormBytes = 1 << 16

// LoginSubmitHandler runs the sign-in flow for the posted form.
// Endpoint: POST /
// Allowed Mimetype: application/x-www-form-urlencoded
func (a *App) LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	a.submitForm(w, r, flow.SignInForm)
}

// SignupSubmitHandler runs the sign-up flow for the posted form.
// Endpoint: POST /signup
// Allowed Mimetype: application/x-www-form-urlencoded
func (a *App) SignupSubmitHandler(w http.ResponseWriter, r *http.Request) {
	a.submitForm(w, r, flow.SignUpForm)
}

func (a *App) submitForm(w http.ResponseWriter, r *http.Request, kind flow.Kind) {
	sid := sessionID(r)
	sess := a.hub.Bind(sid)
	if target, ok := session.Decide(session.AnonymousView, sess.State()); ok {
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	form := a.forms.Form(sid, kind)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		a.renderForm(w, http.StatusBadRequest, kind, form.View())
		return
	}
	form.SetAll(formValues(r, kind))

	res := a.run(r.Context(), kind, form, sess)
	switch res.Outcome {
	case flow.Ignored:
		// The browser posted twice. Answer the second request with the
		// outcome of the first.
		if err := form.Wait(r.Context()); err != nil {
			return
		}
		if target, ok := session.Decide(session.AnonymousView, sess.State()); ok {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		a.renderForm(w, http.StatusOK, kind, form.View())
	case flow.Succeeded:
		a.notice(sid, form, res)
		http.Redirect(w, r, session.PathAuthenticated, http.StatusSeeOther)
	default:
		a.renderForm(w, http.StatusUnprocessableEntity, kind, form.View())
	}
}

// notice moves the message of a success whose profile write failed from the
// form to the dashboard.
func (a *App) notice(sid string, form *flow.Form, res flow.Result) {
	if res.Message == "" {
		return
	}
	a.hub.Flash(sid, res.Message)
	form.Reset()
}

func (a *App) run(ctx context.Context, kind flow.Kind, form *flow.Form, sess flow.Session) flow.Result {
	if kind == flow.SignUpForm {
		return a.flow.SignUp(ctx, form, sess)
	}
	return a.flow.SignIn(ctx, form, sess)
}

func formFields(kind flow.Kind) []string {
	if kind == flow.SignUpForm {
		return []string{validation.FieldEmail, validation.FieldPassword, validation.FieldConfirmPassword}
	}
	return []string{validation.FieldEmail, validation.FieldPassword}
}

// formValues reads the posted fields of kind. Password fields are never
// rendered back into the page, so an empty one keeps the value the form
// already holds.
func formValues(r *http.Request, kind flow.Kind) map[string]string {
	fields := formFields(kind)
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		v := r.PostForm.Get(field)
		if v == "" && isSecretField(field) {
			continue
		}
		values[field] = v
	}
	return values
}

func isSecretField(field string) bool {
	return field == validation.FieldPassword || field == validation.FieldConfirmPassword
}
