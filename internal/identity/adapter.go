// Package identity bridges the identity provider with the client: sign-in
// flows, the persisted session, fresh ID tokens and session-change events.
package identity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
	"github.com/and161185/auto-marketplace/internal/notify"
)

const (
	DefaultPropagationDelay = time.Second
	DefaultRefreshSkew      = 5 * time.Minute
)

// ProfileCreator creates the backend profile right after sign-up.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, req model.CreateProfileRequest) (*model.Profile, error)
}

// SessionObserver sees every transition synchronously, before the adapter
// call that caused it returns. It runs under the adapter lock and must not
// call back into the adapter.
type SessionObserver interface {
	SessionChanged(Event)
}

// Option customizes an Adapter.
type Option func(*Adapter)

// WithPopup enables SignInWithPopup.
func WithPopup(a Authorizer) Option { return func(ad *Adapter) { ad.popup = a } }

// WithPropagationDelay sets the pause between account creation and profile creation.
func WithPropagationDelay(d time.Duration) Option { return func(ad *Adapter) { ad.delay = d } }

// WithRefreshSkew sets how long before expiry an ID token is refreshed.
func WithRefreshSkew(d time.Duration) Option { return func(ad *Adapter) { ad.skew = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(ad *Adapter) { ad.now = now } }

// Adapter owns the single active session.
type Adapter struct {
	provider Provider
	popup    Authorizer
	store    Store
	notifier notify.Notifier
	printer  *i18n.Printer
	log      *zap.Logger
	delay    time.Duration
	skew     time.Duration
	now      func() time.Time

	mu       sync.Mutex
	rec      *Record
	seq      uint64
	profiles ProfileCreator
	observer SessionObserver

	hub     hub
	refresh singleflight.Group
}

// NewAdapter constructs an Adapter. Call Restore to pick up a persisted session.
func NewAdapter(p Provider, store Store, n notify.Notifier, pr *i18n.Printer, log *zap.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		provider: p,
		store:    store,
		notifier: n,
		printer:  pr,
		log:      log,
		delay:    DefaultPropagationDelay,
		skew:     DefaultRefreshSkew,
		now:      time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// UseProfiles binds the backend profile creator used by SignUp.
func (a *Adapter) UseProfiles(pc ProfileCreator) {
	a.mu.Lock()
	a.profiles = pc
	a.mu.Unlock()
}

// UseObserver binds the observer that mirrors the session synchronously.
func (a *Adapter) UseObserver(o SessionObserver) {
	a.mu.Lock()
	a.observer = o
	a.mu.Unlock()
}

// Restore loads the persisted session. A corrupt store is cleared.
func (a *Adapter) Restore(_ context.Context) error {
	rec, err := a.store.Load()
	if err != nil {
		a.log.Warn("discarding unreadable session", zap.Error(err))
		_ = a.store.Clear()
		return err
	}
	if rec == nil {
		return nil
	}
	a.mu.Lock()
	a.rec = rec
	a.emit(Event{Kind: EventSignedIn, Session: rec.Session.Clone()})
	a.mu.Unlock()
	a.log.Debug("session restored", zap.String("uid", rec.Session.UID))
	return nil
}

// Current returns a copy of the active session, nil when signed out.
func (a *Adapter) Current() *model.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rec == nil {
		return nil
	}
	return a.rec.Session.Clone()
}

// SignIn authenticates with email and password.
func (a *Adapter) SignIn(ctx context.Context, email, password string) error {
	cred, err := a.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return a.report(classify(OpSignIn, err))
	}
	a.establish(cred, EventSignedIn)
	a.success(OpSignIn)
	return nil
}

// SignUp creates the account, waits for provider-side propagation and then
// creates the backend profile. If the profile cannot be created the account
// is deleted again and the session cleared.
func (a *Adapter) SignUp(ctx context.Context, email, password string, seed model.CreateProfileRequest) (*model.Profile, error) {
	cred, err := a.provider.SignUp(ctx, email, password)
	if err != nil {
		return nil, a.report(classify(OpSignUp, err))
	}
	a.establish(cred, EventSignedIn)

	prof, err := a.createProfile(ctx, seed)
	if err != nil {
		a.rollback(ctx, cred)
		return nil, a.report(&Error{Op: OpSignUp, Code: CodeProfileCreationFailed, Err: err})
	}

	a.mu.Lock()
	if a.rec != nil && a.rec.Session.UID == cred.Session.UID {
		a.emit(Event{Kind: EventProfileCreated, Session: a.rec.Session.Clone(), Profile: prof.Clone()})
	}
	a.mu.Unlock()
	a.success(OpSignUp)
	return prof, nil
}

func (a *Adapter) createProfile(ctx context.Context, seed model.CreateProfileRequest) (*model.Profile, error) {
	a.mu.Lock()
	pc := a.profiles
	a.mu.Unlock()
	if pc == nil {
		return nil, errors.New("no profile creator bound")
	}
	if a.delay > 0 {
		t := time.NewTimer(a.delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return pc.CreateProfile(ctx, seed)
}

func (a *Adapter) rollback(ctx context.Context, cred *Credential) {
	// the caller's ctx may already be done; the rollback must still run
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := a.provider.Delete(rctx, cred.IDToken); err != nil {
		a.log.Error("rollback: delete identity account", zap.String("uid", cred.Session.UID), zap.Error(err))
	} else {
		a.log.Info("rollback: identity account deleted", zap.String("uid", cred.Session.UID))
	}
	a.clear()
	if err := a.store.Clear(); err != nil {
		a.log.Warn("rollback: clear stored session", zap.Error(err))
	}
}

// SignInWithPopup runs the interactive federated sign-in. A cancelled popup
// is not announced; the returned error satisfies IsCancelled.
func (a *Adapter) SignInWithPopup(ctx context.Context) error {
	if a.popup == nil {
		return a.report(&Error{Op: OpPopup, Code: CodeOperationNotAllowed, Err: errors.New("popup sign-in is not configured")})
	}
	idc, err := a.popup.Authorize(ctx)
	if err != nil {
		return a.report(classify(OpPopup, err))
	}
	cred, err := a.provider.SignInWithIdP(ctx, idc.IDToken, idc.ProviderID)
	if err != nil {
		return a.report(classify(OpPopup, err))
	}
	a.establish(cred, EventSignedIn)
	a.success(OpPopup)
	return nil
}

// SignOut ends the session. Signing out without a session succeeds.
func (a *Adapter) SignOut(_ context.Context) error {
	a.clear()
	if err := a.store.Clear(); err != nil {
		return a.report(classify(OpSignOut, err))
	}
	a.success(OpSignOut)
	return nil
}

// UpdateDisplayName changes the provider-side display name and photo URL.
func (a *Adapter) UpdateDisplayName(ctx context.Context, displayName, photoURL string) error {
	token, ok, err := a.Token(ctx)
	if err != nil {
		return a.report(&Error{Op: OpUpdateProfile, Code: CodeOf(err), Err: err})
	}
	if !ok {
		return a.report(&Error{Op: OpUpdateProfile, Code: CodeUnknown, Err: errs.ErrNoSession})
	}
	upd, err := a.provider.UpdateProfile(ctx, token, displayName, photoURL)
	if err != nil {
		return a.report(classify(OpUpdateProfile, err))
	}

	a.mu.Lock()
	if a.rec != nil && (upd.UID == "" || upd.UID == a.rec.Session.UID) {
		rec := *a.rec
		rec.Session.DisplayName = displayName
		rec.Session.PhotoURL = photoURL
		if upd.Email != "" {
			rec.Session.Email = upd.Email
		}
		a.rec = &rec
		a.persist(&rec)
		a.emit(Event{Kind: EventUpdated, Session: rec.Session.Clone()})
	}
	a.mu.Unlock()
	a.success(OpUpdateProfile)
	return nil
}

// Token returns a fresh ID token for the active session; ok is false when
// signed out. Tokens close to expiry are refreshed first. If the provider
// rejects the refresh as invalid, the session ends.
func (a *Adapter) Token(ctx context.Context) (string, bool, error) {
	a.mu.Lock()
	rec := a.rec
	a.mu.Unlock()
	if rec == nil {
		return "", false, nil
	}
	if a.now().Add(a.skew).Before(rec.ExpiresAt) {
		return rec.IDToken, true, nil
	}

	v, err, _ := a.refresh.Do(rec.RefreshToken, func() (any, error) {
		return a.refreshToken(ctx, rec)
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), true, nil
}

func (a *Adapter) refreshToken(ctx context.Context, rec *Record) (string, error) {
	cred, err := a.provider.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		e := classify(OpRefresh, err)
		a.log.Warn("token refresh failed", zap.String("uid", rec.Session.UID), zap.Stringer("code", e.Code), zap.Error(err))
		if e.Code.invalidatesSession() && a.clearIf(rec.Session.UID) {
			_ = a.store.Clear()
		}
		return "", e
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rec == nil || a.rec.Session.UID != rec.Session.UID {
		return "", &Error{Op: OpRefresh, Code: CodeUserTokenExpired, Err: errs.ErrNoSession}
	}
	next := *a.rec
	next.IDToken = cred.IDToken
	if cred.RefreshToken != "" {
		next.RefreshToken = cred.RefreshToken
	}
	next.ExpiresAt = tokenExpiry(cred.IDToken, cred.ExpiresAt)
	a.rec = &next
	a.persist(&next)
	a.emit(Event{Kind: EventTokenRefreshed, Session: next.Session.Clone()})
	return next.IDToken, nil
}

// Subscribe opens the single session subscription. The current session is
// delivered first. A second concurrent subscription fails with errs.ErrAlreadySubscribed.
func (a *Adapter) Subscribe() (*Subscription, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var cur *model.Session
	if a.rec != nil {
		cur = a.rec.Session.Clone()
	}
	return a.hub.attach(Event{Kind: EventInitial, Session: cur, Seq: a.seq})
}

// OnSessionChanged calls fn with the session after every transition, starting
// with the current one. The returned func unsubscribes.
func (a *Adapter) OnSessionChanged(fn func(*model.Session)) (func(), error) {
	sub, err := a.Subscribe()
	if err != nil {
		return nil, err
	}
	go func() {
		for ev := range sub.Events() {
			if ev.Kind != EventUnsubscribed {
				fn(ev.Session)
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(sub.Close) }, nil
}

// Close ends the active subscription, if any.
func (a *Adapter) Close() { a.hub.close() }

func (a *Adapter) establish(cred *Credential, kind EventKind) {
	rec := &Record{
		IDToken:      cred.IDToken,
		RefreshToken: cred.RefreshToken,
		ExpiresAt:    tokenExpiry(cred.IDToken, cred.ExpiresAt),
	}
	if cred.Session != nil {
		rec.Session = *cred.Session
	}
	a.mu.Lock()
	a.rec = rec
	a.persist(rec)
	a.emit(Event{Kind: kind, Session: rec.Session.Clone()})
	a.mu.Unlock()
}

// emit numbers ev and hands it to the observer and the subscription. a.mu must be held.
func (a *Adapter) emit(ev Event) {
	a.seq++
	ev.Seq = a.seq
	if a.observer != nil {
		a.observer.SessionChanged(ev.clone())
	}
	a.hub.publish(ev)
}

// persist saves rec; a failing store only costs the session on the next start.
func (a *Adapter) persist(rec *Record) {
	if err := a.store.Save(rec); err != nil {
		a.log.Warn("persist session", zap.Error(err))
	}
}

func (a *Adapter) clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rec == nil {
		return
	}
	a.rec = nil
	a.emit(Event{Kind: EventSignedOut})
}

func (a *Adapter) clearIf(uid string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.rec == nil || a.rec.Session.UID != uid {
		return false
	}
	a.rec = nil
	a.emit(Event{Kind: EventSignedOut})
	return true
}

func (a *Adapter) report(e *Error) error {
	fields := []zap.Field{zap.String("op", string(e.Op)), zap.Stringer("code", e.Code)}
	if e.ProviderCode != "" {
		fields = append(fields, zap.String("provider_code", e.ProviderCode))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	if e.Code.Cancelled() {
		a.log.Debug("identity operation cancelled", fields...)
		return e
	}
	a.log.Warn("identity operation failed", fields...)
	notify.Error(a.notifier, a.printer.T(MessageKey(e.Op, e.Code)))
	return e
}

func (a *Adapter) success(op Op) {
	notify.Success(a.notifier, a.printer.T(op.successKey()))
}

// tokenExpiry reads exp from the ID token; the signature is the backend's concern.
func tokenExpiry(idToken string, fallback time.Time) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil || claims.ExpiresAt == nil {
		return fallback
	}
	return claims.ExpiresAt.Time
}
