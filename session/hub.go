package session

import (
	"sync"
	"time"

	"github.com/ayomtuase/julieth/identity"
)

// Hub holds the current state of every browser session and fans changes out
// to subscribers. There is one Hub per process.
type Hub struct {
	mu       sync.Mutex
	lifetime time.Duration
	now      func() time.Time
	version  uint64
	states   map[string]entry
	subs     map[string]map[uint64]func(State)
	nextSub  uint64
	flashes  map[string]string
}

type entry struct {
	state   State
	expires time.Time
}

func NewHub(lifetime time.Duration) *Hub {
	return &Hub{
		lifetime: lifetime,
		now:      time.Now,
		states:   make(map[string]entry),
		subs:     make(map[string]map[uint64]func(State)),
		flashes:  make(map[string]string),
	}
}

// Current returns the state of sid. Unknown and expired sessions are Anonymous.
func (h *Hub) Current(sid string) State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentLocked(sid)
}

func (h *Hub) currentLocked(sid string) State {
	e, ok := h.states[sid]
	if !ok {
		return State{Status: Anonymous, Version: h.version}
	}
	if h.now().After(e.expires) {
		// Sweep removes it and notifies the subscribers.
		return State{Status: Anonymous, Version: e.state.Version}
	}
	return e.state
}

// Publish records st for sid and notifies the subscribers of sid.
func (h *Hub) Publish(sid string, st State) {
	h.mu.Lock()
	h.version++
	st.Version = h.version
	if st.Status == Authenticated {
		h.states[sid] = entry{state: st, expires: h.now().Add(h.lifetime)}
	} else {
		delete(h.states, sid)
		delete(h.flashes, sid)
	}
	fns := h.subscribersLocked(sid)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// Subscribe calls fn with the current state of sid, then with every change.
// Callbacks run on the publishing goroutine and must not block.
func (h *Hub) Subscribe(sid string, fn func(State)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextSub++
	id := h.nextSub
	if h.subs[sid] == nil {
		h.subs[sid] = make(map[uint64]func(State))
	}
	h.subs[sid][id] = fn
	current := h.currentLocked(sid)
	h.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[sid], id)
			if len(h.subs[sid]) == 0 {
				delete(h.subs, sid)
			}
		})
	}
}

// Subscribers reports how many callbacks are registered for sid.
func (h *Hub) Subscribers(sid string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[sid])
}

func (h *Hub) subscribersLocked(sid string) []func(State) {
	fns := make([]func(State), 0, len(h.subs[sid]))
	for _, fn := range h.subs[sid] {
		fns = append(fns, fn)
	}
	return fns
}

// Flash stores a one-shot notice for sid, shown by the next page that takes it.
func (h *Hub) Flash(sid, msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flashes[sid] = msg
}

func (h *Hub) TakeFlash(sid string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := h.flashes[sid]
	delete(h.flashes, sid)
	return msg
}

// Sweep expires authenticated sessions past their lifetime and tells their
// subscribers. It returns the number of sessions expired.
func (h *Hub) Sweep() int {
	h.mu.Lock()
	now := h.now()
	candidates := make(map[string]uint64)
	for sid, e := range h.states {
		if now.After(e.expires) {
			candidates[sid] = e.state.Version
		}
	}
	h.mu.Unlock()

	n := 0
	for sid, version := range candidates {
		if h.expire(sid, version) {
			n++
		}
	}
	return n
}

// expire drops sid only if its entry is still the expired one seen by Sweep.
// A session published again in the meantime is left alone.
func (h *Hub) expire(sid string, version uint64) bool {
	h.mu.Lock()
	e, ok := h.states[sid]
	if !ok || e.state.Version != version || !h.now().After(e.expires) {
		h.mu.Unlock()
		return false
	}
	delete(h.states, sid)
	delete(h.flashes, sid)
	h.version++
	st := State{Status: Anonymous, Version: h.version}
	fns := h.subscribersLocked(sid)
	h.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
	return true
}

func (h *Hub) Bind(sid string) *Handle {
	return &Handle{hub: h, sid: sid}
}

// Handle is a Hub bound to one browser session.
type Handle struct {
	hub *Hub
	sid string
}

func (s *Handle) ID() string {
	return s.sid
}

func (s *Handle) State() State {
	return s.hub.Current(s.sid)
}

func (s *Handle) Authenticate(id *identity.Identity) {
	s.hub.Publish(s.sid, State{Status: Authenticated, Identity: id})
}

// Terminate moves the session to Anonymous and returns the identity it held.
func (s *Handle) Terminate() *identity.Identity {
	prev := s.hub.Current(s.sid)
	s.hub.Publish(s.sid, State{Status: Anonymous})
	return prev.Identity
}
