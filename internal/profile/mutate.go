package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
	"github.com/and161185/auto-marketplace/internal/notify"
)

// UpdateProfile changes the profile and adopts the server's representation.
// On failure the cached profile stays as it was.
func (c *Context) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error) {
	return c.mutate(ctx, "update profile", i18n.MsgProfileUpdateOK, i18n.MsgProfileUpdateFailed,
		func(ctx context.Context) (*model.Profile, error) { return c.backend.UpdateMe(ctx, req) })
}

// UpdateSellerInfo changes the seller fields. Customers are refused locally.
func (c *Context) UpdateSellerInfo(ctx context.Context, req model.UpdateSellerRequest) (*model.Profile, error) {
	if s := c.Snapshot(); s.Profile != nil && !s.Profile.IsSeller() {
		notify.Error(c.notifier, c.printer.T(i18n.MsgProfileSellerOnly))
		return nil, errs.ErrNotSeller
	}
	return c.mutate(ctx, "update seller info", i18n.MsgProfileSellerOK, i18n.MsgProfileSellerFailed,
		func(ctx context.Context) (*model.Profile, error) { return c.backend.UpdateSellerInfo(ctx, req) })
}

func (c *Context) mutate(ctx context.Context, what string, ok, failed i18n.Key, call func(context.Context) (*model.Profile, error)) (*model.Profile, error) {
	c.mu.Lock()
	sess, gen := c.snap.Session, c.gen
	c.mu.Unlock()
	if sess == nil {
		notify.Error(c.notifier, c.printer.T(i18n.MsgHTTPUnauthorized))
		return nil, fmt.Errorf("%s: %w", what, errs.ErrNoSession)
	}

	p, err := call(ctx)
	if err != nil {
		c.log.Warn(what+" failed", zap.String("uid", sess.UID), zap.Error(err))
		notify.Error(c.notifier, c.printer.T(failed))
		return nil, fmt.Errorf("%s: %w", what, err)
	}

	c.mu.Lock()
	if c.gen == gen && c.snap.Session != nil {
		// supersedes a /users/me load still in flight
		c.gen++
		c.setLocked(Snapshot{State: StateAuthenticatedWithProfile, Session: c.snap.Session, Profile: p})
	} else {
		c.log.Info(what+": session changed meanwhile, result discarded", zap.String("uid", sess.UID))
	}
	c.mu.Unlock()
	notify.Success(c.notifier, c.printer.T(ok))
	return p.Clone(), nil
}

// RequireAuth waits for a settled state and demands a session; without one it
// redirects to the login screen.
func (c *Context) RequireAuth(ctx context.Context) (Snapshot, error) {
	s, err := c.WaitReady(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	if s.Session == nil {
		if c.nav != nil {
			c.nav.ToLogin()
		}
		return s, errs.ErrNoSession
	}
	return s, nil
}

// RequireSeller is RequireAuth plus a seller profile. A session whose
// profile is not loaded yet passes; the backend has the final word.
func (c *Context) RequireSeller(ctx context.Context) (Snapshot, error) {
	s, err := c.RequireAuth(ctx)
	if err != nil {
		return s, err
	}
	if s.Profile != nil && !s.Profile.IsSeller() {
		notify.Error(c.notifier, c.printer.T(i18n.MsgProfileSellerOnly))
		if c.nav != nil {
			c.nav.ToHome()
		}
		return s, errs.ErrNotSeller
	}
	return s, nil
}
