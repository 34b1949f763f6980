// Package gateway is the single HTTP client of the marketplace backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/metrics"
	"github.com/and161185/auto-marketplace/internal/notify"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second

	maxBody = 4 << 20
)

// Navigator performs the redirect to the login screen.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a func to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Config configures the Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithNavigator sets where a 401 redirects to.
func WithNavigator(n Navigator) Option { return func(c *Client) { c.nav = n } }

// WithCollector sets the metrics collector.
func WithCollector(m metrics.Collector) Option { return func(c *Client) { c.metrics = m } }

// WithTransport replaces the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option { return func(c *Client) { c.transport = rt } }

// Client issues authenticated JSON requests and turns failures into notifications.
type Client struct {
	base      string
	hc        *http.Client
	transport http.RoundTripper
	notifier  notify.Notifier
	printer   *i18n.Printer
	nav       Navigator
	metrics   metrics.Collector
	log       *zap.Logger
}

// New constructs a Client. tokens may be nil for an anonymous client.
func New(cfg Config, tokens TokenSource, n notify.Notifier, pr *i18n.Printer, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		base:      strings.TrimRight(cfg.BaseURL, "/"),
		transport: http.DefaultTransport,
		notifier:  n,
		printer:   pr,
		metrics:   metrics.Nop{},
		log:       log,
	}
	if c.base == "" {
		c.base = DefaultBaseURL
	}
	for _, o := range opts {
		o(c)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c.hc = &http.Client{
		Timeout:   timeout,
		Transport: &authTransport{base: c.transport, tokens: tokens, userAgent: cfg.UserAgent, log: log},
	}
	return c
}

type silentKey struct{}

// Silent marks ctx so that failures of requests made with it are neither
// announced nor redirected. They are still returned.
func Silent(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentKey{}, true)
}

func isSilent(ctx context.Context) bool {
	v, _ := ctx.Value(silentKey{}).(bool)
	return v
}

// Get issues GET path?query and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues POST with in as JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, in, out)
}

// Put issues PUT with in as JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, in, out)
}

// Patch issues PATCH with in as JSON body.
func (c *Client) Patch(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, in, out)
}

// Delete issues DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one request. in (if non-nil) is sent as JSON; a JSON response
// body is decoded into out (if non-nil). Failures are announced and returned
// as *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	route := routeOf(path)
	req, err := c.newRequest(ctx, method, path, query, in)
	if err != nil {
		return c.fail(ctx, &Error{Kind: KindUnexpected, Method: method, Path: path, Err: err})
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.RecordRequest(method, route, 0, time.Since(start))
		return c.fail(ctx, &Error{Kind: KindNoResponse, Method: method, Path: path, Err: err})
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.metrics.RecordRequest(method, route, resp.StatusCode, time.Since(start))
	if err != nil {
		return c.fail(ctx, &Error{Kind: KindNoResponse, Status: resp.StatusCode, Method: method, Path: path, Err: err})
	}
	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.fail(ctx, &Error{
			Kind:    kindOf(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  method,
			Path:    path,
			Message: backendMessage(resp.StatusCode, data),
		})
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return c.fail(ctx, &Error{Kind: KindUnexpected, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)})
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, in any) (*http.Request, error) {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// fail announces e unless ctx is silent, and returns it.
func (c *Client) fail(ctx context.Context, e *Error) error {
	c.metrics.RecordFailure(e.Kind.String())
	fields := []zap.Field{
		zap.String("method", e.Method),
		zap.String("path", e.Path),
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.Status),
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	if isSilent(ctx) {
		c.log.Debug("backend request failed (silent)", fields...)
		return e
	}
	c.log.Warn("backend request failed", fields...)

	msg := c.printer.T(e.Kind.messageKey())
	if (e.Kind == KindValidation || e.Kind == KindOther) && e.Message != "" {
		msg = e.Message
	}
	notify.Error(c.notifier, msg)
	if e.Kind == KindUnauthorized && c.nav != nil {
		c.nav.ToLogin()
	}
	return e
}

// backendMessage extracts the message of a backend error body. A 422 carries
// it in "error"; other statuses use "error" and then "message".
func backendMessage(status int, data []byte) string {
	var body struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	errText, _ := body.Error.(string)
	if status == http.StatusUnprocessableEntity || errText != "" {
		return errText
	}
	return body.Message
}

// idCollections lists the collections whose second path segment is a
// resource id, together with the fixed sub-paths that are not.
var idCollections = map[string]map[string]bool{
	"cars": {"my-cars": true, "search": true, "stats": true},
}

// routeOf maps a request path to its route template so metric labels stay bounded.
func routeOf(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) > 1 {
		if fixed, ok := idCollections[segs[0]]; ok && !fixed[segs[1]] {
			segs[1] = "{id}"
		}
	}
	return "/" + strings.Join(segs, "/")
}
