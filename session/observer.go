package session

import "sync"

// Source is anything that can be subscribed to for the state of a session.
type Source interface {
	Subscribe(sid string, fn func(State)) (unsubscribe func())
}

// Observer applies the redirect rule of one view to the states of one
// session. It starts Pending and calls navigate once for every change of
// status that needs a redirect. Repeated observations of the same status do
// nothing.
type Observer struct {
	mu          sync.Mutex
	view        View
	navigate    func(target string)
	status      Status
	version     uint64
	closed      bool
	unsubscribe func()
}

// Watch subscribes to sid on src. navigate is called with the observer lock
// held and must not call back into the observer.
func Watch(src Source, sid string, view View, navigate func(target string)) *Observer {
	o := &Observer{view: view, navigate: navigate, status: Pending}
	unsub := src.Subscribe(sid, o.observe)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		unsub()
	} else {
		o.unsubscribe = unsub
	}
	return o
}

func (o *Observer) observe(st State) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || st.Version < o.version {
		return
	}
	o.version = st.Version
	if st.Status == o.status {
		return
	}
	o.status = st.Status

	if target, ok := Decide(o.view, st); ok {
		o.navigate(target)
	}
}

// Status is the last observed status, Pending until the first observation.
func (o *Observer) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Observer) Loading() bool {
	return o.Status() == Pending
}

// Close unsubscribes. No navigate call happens after Close returns.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	if o.unsubscribe != nil {
		o.unsubscribe()
	}
}
