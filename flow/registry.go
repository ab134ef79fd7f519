package flow

import (
	"sync"
	"time"
)

// Registry keeps one Form per browser session and form kind so that the
// requests of one browser share the in-flight guard and the entered values.
// Forms are never evicted while in use: only Sweep drops them, once they have
// been idle longer than ttl and no submission is in flight.
type Registry struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	forms map[string]*registered
}

type registered struct {
	form     *Form
	lastUsed time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:   ttl,
		now:   time.Now,
		forms: make(map[string]*registered),
	}
}

func formKey(sid string, kind Kind) string {
	return kind.String() + ":" + sid
}

// Form returns the form of sid, creating it when missing.
func (r *Registry) Form(sid string, kind Kind) *Form {
	key := formKey(sid, kind)

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.forms[key]; ok {
		e.lastUsed = r.now()
		return e.form
	}
	f := NewForm(kind)
	r.forms[key] = &registered{form: f, lastUsed: r.now()}
	return f
}

// Drop forgets every form of sid.
func (r *Registry) Drop(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, formKey(sid, SignInForm))
	delete(r.forms, formKey(sid, SignUpForm))
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep drops the forms idle longer than ttl and returns how many went.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	n := 0
	for key, e := range r.forms {
		if e.lastUsed.After(cutoff) || e.form.Status() == Submitting {
			continue
		}
		delete(r.forms, key)
		n++
	}
	return n
}
