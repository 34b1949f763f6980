package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/metrics"
	"github.com/and161185/auto-marketplace/internal/notify"
)

type fakeTokens struct {
	token string
	ok    bool
	err   error
}

var _ TokenSource = (*fakeTokens)(nil)

func (f *fakeTokens) Token(context.Context) (string, bool, error) { return f.token, f.ok, f.err }

type fakeCollector struct {
	mu       sync.Mutex
	routes   []string
	failures []string
}

var _ metrics.Collector = (*fakeCollector)(nil)

func (f *fakeCollector) RecordRequest(method, route string, status int, _ time.Duration) {
	f.mu.Lock()
	f.routes = append(f.routes, method+" "+route)
	f.mu.Unlock()
}

func (f *fakeCollector) RecordFailure(kind string) {
	f.mu.Lock()
	f.failures = append(f.failures, kind)
	f.mu.Unlock()
}

type harness struct {
	client *Client
	rec    *notify.Recorder
	navs   *atomic.Int32
	coll   *fakeCollector
	srv    *httptest.Server
}

func newHarness(t *testing.T, tokens TokenSource, h http.HandlerFunc, timeout time.Duration) *harness {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	navs := &atomic.Int32{}
	rec := &notify.Recorder{}
	coll := &fakeCollector{}
	c := New(Config{BaseURL: srv.URL + "/api/", Timeout: timeout, UserAgent: "amp-test"},
		tokens, rec, i18n.MustPrinter("de"), zaptest.NewLogger(t),
		WithNavigator(NavigatorFunc(func() { navs.Add(1) })),
		WithCollector(coll),
	)
	return &harness{client: c, rec: rec, navs: navs, coll: coll, srv: srv}
}

func status(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, body)
	}
}

func TestAuthorizationHeader(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		tokens TokenSource
		want   string
	}{
		{"active session", &fakeTokens{token: "abc", ok: true}, "Bearer abc"},
		{"no session", &fakeTokens{}, ""},
		{"token failure sends unauthenticated", &fakeTokens{err: errors.New("refresh failed")}, ""},
		{"anonymous client", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got http.Header
			h := newHarness(t, tc.tokens, func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				_, _ = io.WriteString(w, `{}`)
			}, 0)
			require.NoError(t, h.client.Get(context.Background(), "/users/me", nil, nil))
			require.Equal(t, tc.want, got.Get("Authorization"))
			require.NotEmpty(t, got.Get("X-Request-ID"))
			require.Equal(t, "application/json", got.Get("Accept"))
			require.Equal(t, "amp-test", got.Get("User-Agent"))
		})
	}
}

func TestStatusClassification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		code     int
		body     string
		sentinel error
		kind     Kind
		message  string
		navs     int32
	}{
		{"401", 401, `{}`, errs.ErrUnauthorized, KindUnauthorized, "Bitte melden Sie sich an", 1},
		{"403", 403, `{"error":"nope"}`, errs.ErrForbidden, KindForbidden, "Keine Berechtigung für diese Aktion", 0},
		{"404", 404, ``, errs.ErrNotFound, KindNotFound, "Ressource nicht gefunden", 0},
		{"422 with message", 422, `{"error":"Preis muss größer als 0 sein"}`, errs.ErrValidation, KindValidation, "Preis muss größer als 0 sein", 0},
		{"422 ignores message field", 422, `{"message":"x"}`, errs.ErrValidation, KindValidation, "Validierungsfehler", 0},
		{"500", 500, `{"error":"db down"}`, errs.ErrServer, KindServer, "Serverfehler. Bitte versuchen Sie es später erneut.", 0},
		{"other with error", 409, `{"error":"Bereits vorhanden"}`, errs.ErrRequest, KindOther, "Bereits vorhanden", 0},
		{"other with message", 400, `{"message":"Ungültige Anfrage"}`, errs.ErrRequest, KindOther, "Ungültige Anfrage", 0},
		{"other without body", 503, `<html>`, errs.ErrRequest, KindOther, "Ein Fehler ist aufgetreten", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, nil, status(tc.code, tc.body), 0)
			err := h.client.Get(context.Background(), "/cars/17", nil, nil)

			require.ErrorIs(t, err, tc.sentinel)
			var ge *Error
			require.True(t, errors.As(err, &ge))
			require.Equal(t, tc.kind, ge.Kind)
			require.Equal(t, tc.code, ge.Status)
			require.Equal(t, []string{tc.message}, h.rec.Messages(notify.LevelError))
			require.Equal(t, tc.navs, h.navs.Load())
			require.Equal(t, []string{"GET /cars/{id}"}, h.coll.routes)
			require.Equal(t, []string{tc.kind.String()}, h.coll.failures)
		})
	}
}

func TestUnauthorized_NavigatesOncePerFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, status(401, `{}`), 0)
	for i := 0; i < 3; i++ {
		require.Error(t, h.client.Get(context.Background(), "/users/me", nil, nil))
	}
	require.Equal(t, int32(3), h.navs.Load())
}

func TestSilent_SuppressesSideEffects(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, status(401, `{}`), 0)
	err := h.client.Get(Silent(context.Background()), "/users/me", nil, nil)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	require.Empty(t, h.rec.All())
	require.Zero(t, h.navs.Load())
}

func TestTimeout_IsNoResponse(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	h := newHarness(t, nil, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	err := h.client.Put(context.Background(), "/users/me", map[string]string{"firstName": "Ada"}, nil)
	require.ErrorIs(t, err, errs.ErrNoResponse)
	require.Equal(t, []string{"Verbindungsfehler. Prüfen Sie Ihre Internetverbindung."}, h.rec.Messages(notify.LevelError))
	require.Zero(t, h.navs.Load())
}

func TestUnreachable_IsNoResponse(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, status(200, `{}`), 0)
	h.srv.Close()
	err := h.client.Get(context.Background(), "/health", nil, nil)
	require.ErrorIs(t, err, errs.ErrNoResponse)
}

func TestVerbs_BodiesQueryAndDecoding(t *testing.T) {
	t.Parallel()

	type seen struct {
		method, path, query, contentType string
		body                             map[string]any
	}
	var got seen
	h := newHarness(t, nil, func(w http.ResponseWriter, r *http.Request) {
		got = seen{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, contentType: r.Header.Get("Content-Type")}
		_ = json.NewDecoder(r.Body).Decode(&got.body)
		_, _ = io.WriteString(w, `{"id":"c1","brand":"BMW"}`)
	}, 0)
	ctx := context.Background()

	var out struct {
		ID    string `json:"id"`
		Brand string `json:"brand"`
	}
	require.NoError(t, h.client.Get(ctx, "cars/search", url.Values{"brand": {"BMW"}}, &out))
	require.Equal(t, "GET", got.method)
	require.Equal(t, "/api/cars/search", got.path)
	require.Equal(t, "brand=BMW", got.query)
	require.Equal(t, "c1", out.ID)

	require.NoError(t, h.client.Post(ctx, "/cars", map[string]any{"brand": "Audi"}, nil))
	require.Equal(t, "POST", got.method)
	require.Equal(t, "application/json", got.contentType)
	require.Equal(t, "Audi", got.body["brand"])

	require.NoError(t, h.client.Patch(ctx, "/cars/c1/sold", nil, nil))
	require.Equal(t, "PATCH", got.method)
	require.Empty(t, got.contentType)

	require.NoError(t, h.client.Delete(ctx, "/cars/c1", nil))
	require.Equal(t, "DELETE", got.method)
	require.Empty(t, h.rec.All())
}

func TestUnexpected(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil, status(200, `not json`), 0)
	var out map[string]any
	err := h.client.Get(context.Background(), "/cars/stats", nil, &out)
	var ge *Error
	require.True(t, errors.As(err, &ge))
	require.Equal(t, KindUnexpected, ge.Kind)
	require.ErrorIs(t, err, errs.ErrRequest)

	err = h.client.Do(context.Background(), "BAD METHOD", "/x", nil, nil, nil)
	require.True(t, errors.As(err, &ge))
	require.Equal(t, KindUnexpected, ge.Kind)
	require.Equal(t, "Ein unerwarteter Fehler ist aufgetreten", h.rec.Messages(notify.LevelError)[1])
}

func TestRouteOf(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/cars/42/similar":      "/cars/{id}/similar",
		"/cars/abc-def/sold":    "/cars/{id}/sold",
		"/cars/kombi":           "/cars/{id}",
		"/cars/a%20b":           "/cars/{id}",
		"cars/my-cars":          "/cars/my-cars",
		"/cars/search":          "/cars/search",
		"/cars/stats":           "/cars/stats",
		"/cars":                 "/cars",
		"/users/me":             "/users/me",
		"/users/sellers/search": "/users/sellers/search",
		"/health":               "/health",
	}
	for path, want := range cases {
		require.Equal(t, want, routeOf(path), path)
	}
}
