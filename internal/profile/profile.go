// Package profile keeps the backend profile in step with the identity session.
package profile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/gateway"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/identity"
	"github.com/and161185/auto-marketplace/internal/model"
	"github.com/and161185/auto-marketplace/internal/notify"
)

// State is the synchronization state.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticatedWithProfile
	StateAuthenticatedWithoutProfile
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticatedWithProfile:
		return "authenticated-with-profile"
	case StateAuthenticatedWithoutProfile:
		return "authenticated-without-profile"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Settled reports whether the state is final for the current session.
func (s State) Settled() bool {
	return s == StateAuthenticatedWithProfile || s == StateAuthenticatedWithoutProfile || s == StateUnauthenticated
}

// Snapshot is an immutable view of the context. Profile is nil whenever Session is nil.
type Snapshot struct {
	State   State
	Session *model.Session
	Profile *model.Profile
}

// Backend is the part of the users API the context calls.
type Backend interface {
	Me(ctx context.Context) (*model.Profile, error)
	UpdateMe(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error)
	UpdateSellerInfo(ctx context.Context, req model.UpdateSellerRequest) (*model.Profile, error)
}

// Events is a session event stream, usually an *identity.Subscription.
type Events interface {
	Events() <-chan identity.Event
	Close()
}

// Navigator performs the redirects of the auth guards.
type Navigator interface {
	ToLogin()
	ToHome()
}

// Context merges the identity session with the backend profile.
type Context struct {
	backend  Backend
	notifier notify.Notifier
	printer  *i18n.Printer
	nav      Navigator
	log      *zap.Logger

	mu       sync.Mutex
	snap     Snapshot
	gen      uint64 // bumped on every change of the cached profile's origin
	loading  uint64 // gen of the load in flight
	seq      uint64 // last applied identity.Event.Seq
	changed  chan struct{}
	watchers map[chan Snapshot]struct{}
	kick     chan struct{}
}

var _ identity.SessionObserver = (*Context)(nil)

// New constructs a Context in StateUninitialized. nav may be nil.
func New(b Backend, n notify.Notifier, pr *i18n.Printer, nav Navigator, log *zap.Logger) *Context {
	return &Context{
		backend:  b,
		notifier: n,
		printer:  pr,
		nav:      nav,
		log:      log,
		changed:  make(chan struct{}),
		watchers: map[chan Snapshot]struct{}{},
		kick:     make(chan struct{}, 1),
	}
}

// SessionChanged applies e immediately. Bound to the adapter, it makes a
// sign-in or sign-out visible here before the adapter call returns; the
// profile load itself is started by Run.
func (c *Context) SessionChanged(e identity.Event) {
	if c.apply(e) {
		select {
		case c.kick <- struct{}{}:
		default:
		}
	}
}

// Run applies session events until the stream ends or ctx is done and
// starts the profile loads they call for. Events already applied through
// SessionChanged are skipped. A load that finishes after a newer session
// change is dropped.
func (c *Context) Run(ctx context.Context, ev Events) error {
	var wg sync.WaitGroup
	defer wg.Wait()
	startLoad := func() {
		gen, sess, ok := c.nextLoad()
		if !ok {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			// first load is quiet: a missing profile means "not created yet"
			_, _ = c.load(gateway.Silent(ctx), gen, sess)
		}()
	}

	startLoad()
	for {
		select {
		case e, ok := <-ev.Events():
			if !ok {
				return nil
			}
			if c.apply(e) {
				startLoad()
			}
		case <-c.kick:
			startLoad()
		case <-ctx.Done():
			ev.Close()
			for range ev.Events() {
			}
			return ctx.Err()
		}
	}
}

// apply folds e into the snapshot and reports whether the state moved to
// StateLoading.
func (c *Context) apply(e identity.Event) bool {
	if e.Kind == identity.EventUnsubscribed {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.Seq != 0 {
		if e.Seq <= c.seq {
			return false
		}
		c.seq = e.Seq
	}
	cur := c.snap
	sameUser := cur.Session != nil && e.Session != nil && cur.Session.UID == e.Session.UID
	switch {
	case e.Session == nil:
		c.gen++
		c.setLocked(Snapshot{State: StateUnauthenticated})
		return false

	case e.Kind == identity.EventProfileCreated && sameUser && e.Profile != nil:
		c.gen++
		c.setLocked(Snapshot{State: StateAuthenticatedWithProfile, Session: e.Session, Profile: e.Profile.Clone()})
		return false

	case (e.Kind == identity.EventTokenRefreshed || e.Kind == identity.EventUpdated) && sameUser && cur.State.Settled():
		c.setLocked(Snapshot{State: cur.State, Session: e.Session, Profile: cur.Profile})
		return false
	}

	c.gen++
	c.setLocked(Snapshot{State: StateLoading, Session: e.Session})
	return true
}

// nextLoad claims the load due for the current snapshot, if any.
func (c *Context) nextLoad() (uint64, *model.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.State != StateLoading || c.loading == c.gen {
		return 0, nil, false
	}
	c.loading = c.gen
	return c.gen, c.snap.Session, true
}

// load fetches the profile for sess and publishes it unless the session
// changed since gen was taken.
func (c *Context) load(ctx context.Context, gen uint64, sess *model.Session) (*model.Profile, error) {
	p, err := c.backend.Me(ctx)
	if err != nil {
		c.log.Debug("profile not loaded", zap.String("uid", sess.UID), zap.Error(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return nil, fmt.Errorf("load profile: %w", errs.ErrSessionChanged)
	}
	if err != nil || p == nil {
		c.setLocked(Snapshot{State: StateAuthenticatedWithoutProfile, Session: sess})
		return nil, err
	}
	c.setLocked(Snapshot{State: StateAuthenticatedWithProfile, Session: sess, Profile: p})
	return p.Clone(), nil
}

// Reload fetches the profile again for the current session. Unlike the load
// after a sign-in, failures are reported to the user by the gateway.
func (c *Context) Reload(ctx context.Context) (*model.Profile, error) {
	c.mu.Lock()
	sess := c.snap.Session
	if sess == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("reload profile: %w", errs.ErrNoSession)
	}
	c.gen++
	gen := c.gen
	c.loading = gen
	c.setLocked(Snapshot{State: StateLoading, Session: sess})
	c.mu.Unlock()
	return c.load(ctx, gen, sess)
}

// setLocked publishes s. c.mu must be held.
func (c *Context) setLocked(s Snapshot) {
	if s.Session == nil {
		s.Profile = nil
	}
	c.snap = s
	close(c.changed)
	c.changed = make(chan struct{})
	for ch := range c.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- c.snap.clone()
	}
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{State: s.State, Session: s.Session.Clone(), Profile: s.Profile.Clone()}
}

// Snapshot returns the current value.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.clone()
}

// Watch delivers the latest snapshot, starting with the current one. Slow
// readers skip intermediate values. The channel closes when ctx is done.
func (c *Context) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	c.mu.Lock()
	ch <- c.snap.clone()
	c.watchers[ch] = struct{}{}
	c.mu.Unlock()
	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.watchers, ch)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

// WaitReady blocks until the state is settled.
func (c *Context) WaitReady(ctx context.Context) (Snapshot, error) {
	for {
		c.mu.Lock()
		s, ch := c.snap, c.changed
		c.mu.Unlock()
		if s.State.Settled() {
			return s.clone(), nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
	}
}
