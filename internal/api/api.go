// Package api wraps the backend endpoints with typed calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/and161185/auto-marketplace/internal/model"
)

// Doer is the subset of the gateway client the wrappers need.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Put(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Health checks backend liveness.
type Health struct{ c Doer }

// NewHealth constructs Health.
func NewHealth(c Doer) *Health { return &Health{c: c} }

// Check calls GET /health.
func (h *Health) Check(ctx context.Context) (*model.Health, error) {
	var out model.Health
	if err := h.c.Get(ctx, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// pageOf accepts both a plain JSON array and a page object.
type pageOf[T any] struct {
	model.Page[T]
}

func (p *pageOf[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		p.Page = model.Page[T]{
			Content:       items,
			TotalElements: int64(len(items)),
			TotalPages:    1,
			Size:          len(items),
			First:         true,
			Last:          true,
		}
		return nil
	}
	return json.Unmarshal(data, &p.Page)
}

func seg(s string) string { return url.PathEscape(s) }
