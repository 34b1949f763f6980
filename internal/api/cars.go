package api

import (
	"context"

	"github.com/and161185/auto-marketplace/internal/model"
)

// Cars wraps /cars endpoints.
type Cars struct{ c Doer }

// NewCars constructs Cars.
func NewCars(c Doer) *Cars { return &Cars{c: c} }

// Create calls POST /cars.
func (a *Cars) Create(ctx context.Context, req model.CreateListingRequest) (*model.Listing, error) {
	var out model.Listing
	if err := a.c.Post(ctx, "/cars", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update calls PUT /cars/{id}.
func (a *Cars) Update(ctx context.Context, id string, req model.UpdateListingRequest) (*model.Listing, error) {
	var out model.Listing
	if err := a.c.Put(ctx, "/cars/"+seg(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkSold calls PATCH /cars/{id}/sold.
func (a *Cars) MarkSold(ctx context.Context, id string) (*model.Listing, error) {
	var out model.Listing
	if err := a.c.Patch(ctx, "/cars/"+seg(id)+"/sold", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete calls DELETE /cars/{id}.
func (a *Cars) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/cars/"+seg(id), nil)
}

// Mine calls GET /cars/my-cars.
func (a *Cars) Mine(ctx context.Context) ([]model.Listing, error) {
	return a.list(ctx, "/cars/my-cars", model.ListingSearch{})
}

// Get calls GET /cars/{id}.
func (a *Cars) Get(ctx context.Context, id string) (*model.Listing, error) {
	var out model.Listing
	if err := a.c.Get(ctx, "/cars/"+seg(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List calls GET /cars with the set filters.
func (a *Cars) List(ctx context.Context, s model.ListingSearch) (*model.Page[model.Listing], error) {
	return a.page(ctx, "/cars", s)
}

// Search calls GET /cars/search with the set filters.
func (a *Cars) Search(ctx context.Context, s model.ListingSearch) (*model.Page[model.Listing], error) {
	return a.page(ctx, "/cars/search", s)
}

// Similar calls GET /cars/{id}/similar.
func (a *Cars) Similar(ctx context.Context, id string) ([]model.Listing, error) {
	return a.list(ctx, "/cars/"+seg(id)+"/similar", model.ListingSearch{})
}

// Stats calls GET /cars/stats.
func (a *Cars) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	if err := a.c.Get(ctx, "/cars/stats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Cars) page(ctx context.Context, path string, s model.ListingSearch) (*model.Page[model.Listing], error) {
	var out pageOf[model.Listing]
	if err := a.c.Get(ctx, path, s.Query(), &out); err != nil {
		return nil, err
	}
	return &out.Page, nil
}

func (a *Cars) list(ctx context.Context, path string, s model.ListingSearch) ([]model.Listing, error) {
	p, err := a.page(ctx, path, s)
	if err != nil {
		return nil, err
	}
	return p.Content, nil
}
