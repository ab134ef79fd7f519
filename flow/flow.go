// Package flow runs credential submissions: validate, call the identity
// provider, write the profile and bind the browser session. It never returns
// an error to its caller; failures end up as a message on the form.
package flow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayomtuase/julieth/identity"
	"github.com/ayomtuase/julieth/validation"
)

type Outcome int

const (
	// Ignored means another submission of the same form was in flight.
	Ignored Outcome = iota
	Invalid
	Failed
	Succeeded
)

func (o Outcome) String() string {
	switch o {
	case Invalid:
		return "invalid"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	default:
		return "ignored"
	}
}

// Result tells the caller what happened. Kind and Message describe the
// failure when Outcome is Failed. Message also carries the profile notice of
// a success whose profile write failed.
type Result struct {
	Outcome  Outcome
	Identity *identity.Identity
	Kind     identity.Kind
	Message  string
}

// Session records the identity authenticated for the caller's browser session.
type Session interface {
	Authenticate(id *identity.Identity)
}

// ProfileWriter is satisfied by *profile.Writer.
type ProfileWriter interface {
	Upsert(ctx context.Context, id *identity.Identity) error
}

// ProfileFailedMessage is shown when authentication worked but the profile
// document could not be written.
const ProfileFailedMessage = "Your account is ready, but we could not save your profile"

type Flow struct {
	provider identity.Provider
	profiles ProfileWriter
	logger   *slog.Logger
}

func New(provider identity.Provider, profiles ProfileWriter, logger *slog.Logger) *Flow {
	return &Flow{provider: provider, profiles: profiles, logger: logger}
}

// SignUp creates an account from the form values, writes its profile and binds
// sess on success.
func (fl *Flow) SignUp(ctx context.Context, form *Form, sess Session) Result {
	return fl.submit(ctx, form, validateSignUp, func(values map[string]string) (*identity.Identity, error) {
		return fl.provider.CreateAccount(ctx, values[validation.FieldEmail], values[validation.FieldPassword])
	}, sess, true)
}

// SignIn authenticates an existing account. No profile is written.
func (fl *Flow) SignIn(ctx context.Context, form *Form, sess Session) Result {
	return fl.submit(ctx, form, validateSignIn, func(values map[string]string) (*identity.Identity, error) {
		return fl.provider.SignIn(ctx, values[validation.FieldEmail], values[validation.FieldPassword])
	}, sess, false)
}

// SignInFederated completes the consent round trip of fed and signs the user
// in with the resulting credential. A profile is written on every success
// since new and returning users cannot be told apart here.
func (fl *Flow) SignInFederated(ctx context.Context, form *Form, fed identity.Federation, cb identity.Callback, sess Session) Result {
	return fl.submit(ctx, form, nil, func(map[string]string) (*identity.Identity, error) {
		cred, err := fed.Complete(ctx, cb)
		if err != nil {
			return nil, err
		}
		return fl.provider.SignInFederated(ctx, cred)
	}, sess, true)
}

func validateSignUp(v map[string]string) validation.Errors {
	return validation.SignUp(v[validation.FieldEmail], v[validation.FieldPassword], v[validation.FieldConfirmPassword])
}

func validateSignIn(v map[string]string) validation.Errors {
	return validation.SignIn(v[validation.FieldEmail], v[validation.FieldPassword])
}

func (fl *Flow) submit(
	ctx context.Context,
	form *Form,
	validate func(map[string]string) validation.Errors,
	call func(map[string]string) (*identity.Identity, error),
	sess Session,
	writeProfile bool,
) (res Result) {
	values, ok := form.begin()
	if !ok {
		fl.logger.Debug("flow: submission ignored, another one is in flight", "form", form.Kind())
		return Result{Outcome: Ignored}
	}

	// A panic anywhere below still settles the form, otherwise every later
	// submission of it would be ignored.
	var (
		id      *identity.Identity
		bound   bool
		settled bool
	)
	finish := func(fn func()) {
		settled = true
		form.settle(fn)
	}
	defer func() {
		if settled {
			return
		}
		r := recover()
		fl.logger.Error("flow: submission panicked", "form", form.Kind(), "panic", r)
		if bound {
			form.settle(func() {
				form.resetLocked()
				form.authError = ProfileFailedMessage
			})
			res = Result{Outcome: Succeeded, Identity: id, Message: ProfileFailedMessage}
			return
		}
		ierr := identity.NewError(identity.Unknown, "", fmt.Errorf("flow: panic: %v", r))
		form.settle(func() {
			form.errs = validation.Errors{}
			form.authError = ierr.Message
		})
		res = Result{Outcome: Failed, Kind: ierr.Kind, Message: ierr.Message}
	}()

	if validate != nil {
		if errs := validate(values); !errs.Valid() {
			finish(func() { form.errs = errs })
			return Result{Outcome: Invalid}
		}
	}

	id, err := call(values)
	if err != nil {
		ierr := identity.Normalize(err)
		fl.logger.Info("flow: authentication failed", "form", form.Kind(), "kind", ierr.Kind, "error", err)
		finish(func() {
			form.errs = validation.Errors{}
			form.authError = ierr.Message
		})
		return Result{Outcome: Failed, Kind: ierr.Kind, Message: ierr.Message}
	}

	// The session is bound before the profile write so a store failure can
	// never undo the authentication.
	sess.Authenticate(id)
	bound = true

	var notice string
	if writeProfile {
		if err := fl.profiles.Upsert(ctx, id); err != nil {
			notice = ProfileFailedMessage
		}
	}

	finish(func() {
		form.resetLocked()
		form.authError = notice
	})
	fl.logger.Info("flow: authenticated", "form", form.Kind(), "uid", id.UID, "provider", id.ProviderID)
	return Result{Outcome: Succeeded, Identity: id, Message: notice}
}
