package gateway

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// TokenSource yields a fresh bearer token; ok is false when nobody is signed in.
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// authTransport decorates every outgoing request.
type authTransport struct {
	base      http.RoundTripper
	tokens    TokenSource
	userAgent string
	log       *zap.Logger
}

func (t *authTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Request-ID", uuid.Must(uuid.NewV4()).String())
	if r.Header.Get("Accept") == "" {
		r.Header.Set("Accept", "application/json")
	}
	if t.userAgent != "" {
		r.Header.Set("User-Agent", t.userAgent)
	}
	if t.tokens != nil {
		tok, ok, err := t.tokens.Token(r.Context())
		switch {
		case err != nil:
			t.log.Warn("attach auth token", zap.String("path", r.URL.Path), zap.Error(err))
		case ok:
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return t.base.RoundTrip(r)
}
