package flow

import (
	"context"
	"sync"

	"github.com/ayomtuase/julieth/validation"
)

type Kind int

const (
	SignInForm Kind = iota
	SignUpForm
)

func (k Kind) String() string {
	if k == SignUpForm {
		return "signup"
	}
	return "signin"
}

type Status int

const (
	Idle Status = iota
	Submitting
)

// View is what the presentation layer renders from a form.
type View struct {
	Values      map[string]string
	FieldErrors validation.Errors
	Submitting  bool
	AuthError   string
}

// Form is the state of one sign-in or sign-up form. Values survive failed
// attempts and are reset on success.
type Form struct {
	kind Kind

	mu        sync.Mutex
	status    Status
	values    map[string]string
	errs      validation.Errors
	authError string
	settled   chan struct{}
}

func NewForm(kind Kind) *Form {
	return &Form{
		kind:    kind,
		values:  make(map[string]string),
		errs:    validation.Errors{},
		settled: closedChan(),
	}
}

func (f *Form) Kind() Kind {
	return f.kind
}

// Set updates one field. Changing password drops a stale mismatch error so the
// confirmation is checked again against the new value on the next submit.
func (f *Form) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	if field == validation.FieldPassword {
		delete(f.errs, validation.FieldConfirmPassword)
	}
}

// SetAll replaces the values of every field present in values.
func (f *Form) SetAll(values map[string]string) {
	for field, value := range values {
		f.Set(field, value)
	}
}

func (f *Form) Value(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	errs := make(validation.Errors, len(f.errs))
	for k, v := range f.errs {
		errs[k] = v
	}
	return View{
		Values:      values,
		FieldErrors: errs,
		Submitting:  f.status == Submitting,
		AuthError:   f.authError,
	}
}

func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Wait blocks until no submission is in flight or ctx is done.
func (f *Form) Wait(ctx context.Context) error {
	f.mu.Lock()
	settled := f.settled
	f.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Reset clears values and messages. A form that is submitting is left alone.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == Submitting {
		return
	}
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.values = make(map[string]string)
	f.errs = validation.Errors{}
	f.authError = ""
}

// begin moves the form to Submitting and returns a snapshot of its values. It
// reports false when another submission is in flight.
func (f *Form) begin() (map[string]string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == Submitting {
		return nil, false
	}
	f.status = Submitting
	f.settled = make(chan struct{})
	f.authError = ""

	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	return values, true
}

// settle ends the submission. fn runs under the form lock.
func (f *Form) settle(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fn != nil {
		fn()
	}
	f.status = Idle
	close(f.settled)
}

func closedChan() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}
