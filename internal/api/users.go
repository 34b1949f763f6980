package api

import (
	"context"
	"net/url"

	"github.com/and161185/auto-marketplace/internal/model"
)

// Users wraps /users endpoints.
type Users struct{ c Doer }

// NewUsers constructs Users.
func NewUsers(c Doer) *Users { return &Users{c: c} }

// CreateProfile calls POST /users/profile.
func (u *Users) CreateProfile(ctx context.Context, req model.CreateProfileRequest) (*model.Profile, error) {
	return u.profile(func(out *model.Profile) error { return u.c.Post(ctx, "/users/profile", req, out) })
}

// Me calls GET /users/me.
func (u *Users) Me(ctx context.Context) (*model.Profile, error) {
	return u.profile(func(out *model.Profile) error { return u.c.Get(ctx, "/users/me", nil, out) })
}

// UpdateMe calls PUT /users/me.
func (u *Users) UpdateMe(ctx context.Context, req model.UpdateProfileRequest) (*model.Profile, error) {
	return u.profile(func(out *model.Profile) error { return u.c.Put(ctx, "/users/me", req, out) })
}

// UpdateSellerInfo calls PUT /users/seller-info.
func (u *Users) UpdateSellerInfo(ctx context.Context, req model.UpdateSellerRequest) (*model.Profile, error) {
	return u.profile(func(out *model.Profile) error { return u.c.Put(ctx, "/users/seller-info", req, out) })
}

// Deactivate calls DELETE /users/me.
func (u *Users) Deactivate(ctx context.Context) error {
	return u.c.Delete(ctx, "/users/me", nil)
}

// Sellers calls GET /users/sellers.
func (u *Users) Sellers(ctx context.Context) ([]model.Profile, error) {
	var out pageOf[model.Profile]
	if err := u.c.Get(ctx, "/users/sellers", nil, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

// SearchSellers calls GET /users/sellers/search?specialization=.
func (u *Users) SearchSellers(ctx context.Context, specialization string) ([]model.Profile, error) {
	var out pageOf[model.Profile]
	q := url.Values{"specialization": {specialization}}
	if err := u.c.Get(ctx, "/users/sellers/search", q, &out); err != nil {
		return nil, err
	}
	return out.Content, nil
}

func (u *Users) profile(call func(*model.Profile) error) (*model.Profile, error) {
	var out model.Profile
	if err := call(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
