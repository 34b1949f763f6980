package identity

import (
	"sync"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/model"
)

// EventKind tells what happened to the session.
type EventKind int

const (
	// EventInitial carries the session (possibly nil) at subscription time.
	EventInitial EventKind = iota
	EventSignedIn
	EventSignedOut
	EventTokenRefreshed
	// EventProfileCreated follows EventSignedIn after a successful sign-up.
	EventProfileCreated
	// EventUpdated means provider-side attributes such as the display name changed.
	EventUpdated
	// EventUnsubscribed is the last event of every subscription.
	EventUnsubscribed
)

func (k EventKind) String() string {
	switch k {
	case EventInitial:
		return "initial"
	case EventSignedIn:
		return "signed-in"
	case EventSignedOut:
		return "signed-out"
	case EventTokenRefreshed:
		return "token-refreshed"
	case EventProfileCreated:
		return "profile-created"
	case EventUpdated:
		return "updated"
	case EventUnsubscribed:
		return "unsubscribed"
	}
	return "unknown"
}

// Event is one session transition. Session is nil when signed out. Seq
// increases with every transition of an adapter; EventInitial repeats the
// Seq of the transition it reflects and is 0 before the first one.
type Event struct {
	Kind    EventKind
	Session *model.Session
	Profile *model.Profile // set on EventProfileCreated only
	Seq     uint64
}

func (e Event) clone() Event {
	e.Session = e.Session.Clone()
	e.Profile = e.Profile.Clone()
	return e
}

// Subscription delivers events in emission order. Publishing never blocks:
// events queue until the consumer reads them.
type Subscription struct {
	hub     *hub
	ch      chan Event
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Event
	closing bool
}

// Events returns the delivery channel. It is closed after EventUnsubscribed.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Close ends the subscription. Pending events are still delivered, then
// EventUnsubscribed, then the channel closes. Close is idempotent.
func (s *Subscription) Close() {
	if !s.push(Event{Kind: EventUnsubscribed}, true) {
		return
	}
	s.hub.detach(s)
}

// push enqueues ev; last marks it as the terminal event. It reports whether ev was queued.
func (s *Subscription) push(ev Event, last bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.queue = append(s.queue, ev)
	s.closing = last
	s.cond.Signal()
	return true
}

func (s *Subscription) pump() {
	defer close(s.ch)
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closing {
			s.cond.Wait()
		}
		if len(s.queue) == 0 {
			s.mu.Unlock()
			return
		}
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		s.ch <- ev
	}
}

// hub holds the single active subscription of an adapter.
type hub struct {
	mu  sync.Mutex
	sub *Subscription
}

func (h *hub) attach(initial Event) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		return nil, errs.ErrAlreadySubscribed
	}
	s := &Subscription{hub: h, ch: make(chan Event), queue: []Event{initial}}
	s.cond = sync.NewCond(&s.mu)
	h.sub = s
	go s.pump()
	return s, nil
}

func (h *hub) publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sub != nil {
		h.sub.push(ev, false)
	}
}

func (h *hub) detach(s *Subscription) {
	h.mu.Lock()
	if h.sub == s {
		h.sub = nil
	}
	h.mu.Unlock()
}

func (h *hub) close() {
	h.mu.Lock()
	s := h.sub
	h.mu.Unlock()
	if s != nil {
		s.Close()
	}
}
