package identity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/oauth2"
)

func newOAuthFake(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "the-code", r.PostForm.Get("code"))
		require.NotEmpty(t, r.PostForm.Get("code_verifier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"google-id-token"}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// browser answers the authorization request the way the user's browser would.
func browser(t *testing.T, params func(state string) url.Values) Opener {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		require.NoError(t, err)
		q := u.Query()
		require.Equal(t, "select_account", q.Get("prompt"))
		require.Equal(t, "S256", q.Get("code_challenge_method"))
		resp, err := http.Get(q.Get("redirect_uri") + "?" + params(q.Get("state")).Encode())
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}
}

func newTestAuthorizer(t *testing.T, tokenURL string, open Opener) *LoopbackAuthorizer {
	return NewLoopbackAuthorizer(oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: "http://auth.invalid/authorize", TokenURL: tokenURL},
		Scopes:       []string{"openid", "email"},
	}, open, zaptest.NewLogger(t))
}

func TestLoopbackAuthorizer_Success(t *testing.T) {
	t.Parallel()

	srv := newOAuthFake(t)
	a := newTestAuthorizer(t, srv.URL, browser(t, func(state string) url.Values {
		return url.Values{"code": {"the-code"}, "state": {state}}
	}))
	idc, err := a.Authorize(context.Background())
	require.NoError(t, err)
	require.Equal(t, "google-id-token", idc.IDToken)
	require.Equal(t, "google.com", idc.ProviderID)
}

func TestLoopbackAuthorizer_AccessDeniedIsCancellation(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t, "http://token.invalid", browser(t, func(state string) url.Values {
		return url.Values{"error": {"access_denied"}, "state": {state}}
	}))
	_, err := a.Authorize(context.Background())
	require.Error(t, err)
	require.True(t, classify(OpPopup, err).Code.Cancelled())
}

func TestLoopbackAuthorizer_AbandonedIsCancellation(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t, "http://token.invalid", func(string) error { return nil })
	a.timeout = 50 * time.Millisecond
	_, err := a.Authorize(context.Background())
	require.Equal(t, CodeCancelledPopupRequest, classify(OpPopup, err).Code)
}

func TestLoopbackAuthorizer_ForgedStateIgnored(t *testing.T) {
	t.Parallel()

	a := newTestAuthorizer(t, "http://token.invalid", browser(t, func(string) url.Values {
		return url.Values{"code": {"the-code"}, "state": {"forged"}}
	}))
	a.timeout = 100 * time.Millisecond
	_, err := a.Authorize(context.Background())
	require.Equal(t, CodeCancelledPopupRequest, classify(OpPopup, err).Code)
}
