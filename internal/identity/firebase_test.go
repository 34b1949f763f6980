package identity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type firebaseFake struct {
	t      *testing.T
	calls  []string
	bodies map[string]map[string]any
}

func (f *firebaseFake) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, "test-key", r.URL.Query().Get("key"))
		method := strings.TrimPrefix(r.URL.Path, "/v1/")
		f.calls = append(f.calls, method)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[method] = body

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "accounts:signInWithPassword":
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":{"code":400,"message":"INVALID_PASSWORD","errors":[]}}`)
				return
			}
			_, _ = io.WriteString(w, `{"localId":"uid-1","email":"a@b.de","idToken":"id-1","refreshToken":"r-1","expiresIn":"3600"}`)
		case "accounts:lookup":
			_, _ = io.WriteString(w, `{"users":[{"localId":"uid-1","emailVerified":true,"displayName":"Ada","photoUrl":"https://img/a.png"}]}`)
		case "accounts:signUp":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`)
		case "accounts:signInWithIdp":
			_, _ = io.WriteString(w, `{"needConfirmation":true}`)
		case "accounts:update":
			_, _ = io.WriteString(w, `{"localId":"uid-1","displayName":"Ada L"}`)
		case "accounts:delete":
			_, _ = io.WriteString(w, `{}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(f.t, r.ParseForm())
		require.Equal(f.t, "refresh_token", r.PostForm.Get("grant_type"))
		if r.PostForm.Get("refresh_token") != "r-1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"TOKEN_EXPIRED"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"id_token":"id-2","refresh_token":"r-2","expires_in":"3600","user_id":"uid-1"}`)
	})
	return mux
}

func newFirebaseFake(t *testing.T) (*FirebaseProvider, *firebaseFake) {
	t.Helper()
	fake := &firebaseFake{t: t, bodies: map[string]map[string]any{}}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	p := NewFirebaseProvider(FirebaseConfig{
		APIKey:           "test-key",
		IdentityEndpoint: srv.URL + "/v1",
		TokenEndpoint:    srv.URL,
		HTTPClient:       srv.Client(),
	})
	return p, fake
}

func TestFirebase_SignInWithPassword(t *testing.T) {
	t.Parallel()

	p, fake := newFirebaseFake(t)
	cred, err := p.SignInWithPassword(context.Background(), "a@b.de", "secret1")
	require.NoError(t, err)
	require.Equal(t, "id-1", cred.IDToken)
	require.Equal(t, "r-1", cred.RefreshToken)
	require.Equal(t, "uid-1", cred.Session.UID)
	require.True(t, cred.Session.EmailVerified)
	require.Equal(t, "Ada", cred.Session.DisplayName)
	require.Equal(t, []string{"accounts:signInWithPassword", "accounts:lookup"}, fake.calls)
	require.Equal(t, true, fake.bodies["accounts:signInWithPassword"]["returnSecureToken"])

	_, err = p.SignInWithPassword(context.Background(), "a@b.de", "wrong")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "INVALID_PASSWORD", pe.Code)
	require.Equal(t, http.StatusBadRequest, pe.Status)
	require.Equal(t, CodeWrongPassword, classify(OpSignIn, err).Code)
}

func TestFirebase_SignUpError(t *testing.T) {
	t.Parallel()

	p, _ := newFirebaseFake(t)
	_, err := p.SignUp(context.Background(), "a@b.de", "123")
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, "WEAK_PASSWORD", pe.Code)
	require.Equal(t, "Password should be at least 6 characters", pe.Message)
}

func TestFirebase_IdPNeedsConfirmation(t *testing.T) {
	t.Parallel()

	p, fake := newFirebaseFake(t)
	_, err := p.SignInWithIdP(context.Background(), "google-id", "google.com")
	require.Equal(t, CodeAccountExistsWithDifferentCredential, classify(OpPopup, err).Code)

	post, err := url.ParseQuery(fake.bodies["accounts:signInWithIdp"]["postBody"].(string))
	require.NoError(t, err)
	require.Equal(t, "google-id", post.Get("id_token"))
	require.Equal(t, "google.com", post.Get("providerId"))
}

func TestFirebase_Refresh(t *testing.T) {
	t.Parallel()

	p, _ := newFirebaseFake(t)
	cred, err := p.Refresh(context.Background(), "r-1")
	require.NoError(t, err)
	require.Equal(t, "id-2", cred.IDToken)
	require.Equal(t, "r-2", cred.RefreshToken)
	require.Nil(t, cred.Session)

	_, err = p.Refresh(context.Background(), "stale")
	require.Equal(t, CodeUserTokenExpired, classify(OpRefresh, err).Code)
}

func TestFirebase_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	p, fake := newFirebaseFake(t)
	s, err := p.UpdateProfile(context.Background(), "id-1", "Ada L", "")
	require.NoError(t, err)
	require.Equal(t, "Ada L", s.DisplayName)
	require.Equal(t, []any{"PHOTO_URL"}, fake.bodies["accounts:update"]["deleteAttribute"])

	require.NoError(t, p.Delete(context.Background(), "id-1"))
	require.Equal(t, "id-1", fake.bodies["accounts:delete"]["idToken"])
}

func TestFirebase_MissingAPIKey(t *testing.T) {
	t.Parallel()

	p := NewFirebaseProvider(FirebaseConfig{})
	_, err := p.SignInWithPassword(context.Background(), "a@b.de", "secret1")
	require.Equal(t, CodeOperationNotAllowed, classify(OpSignIn, err).Code)
}

func TestFirebase_TransportFailureIsNetwork(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	p := NewFirebaseProvider(FirebaseConfig{APIKey: "k", IdentityEndpoint: srv.URL})
	_, err := p.SignInWithPassword(context.Background(), "a@b.de", "secret1")
	require.Equal(t, CodeNetworkRequestFailed, classify(OpSignIn, err).Code)
}
