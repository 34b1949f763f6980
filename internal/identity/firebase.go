package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/auto-marketplace/internal/model"
)

const (
	DefaultIdentityEndpoint = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenEndpoint    = "https://securetoken.googleapis.com/v1"
)

// FirebaseConfig configures the Firebase Authentication REST client.
type FirebaseConfig struct {
	APIKey           string
	IdentityEndpoint string // overridable for tests and the emulator
	TokenEndpoint    string
	HTTPClient       *http.Client
}

// FirebaseProvider implements Provider over the Firebase Authentication REST API.
type FirebaseProvider struct {
	apiKey      string
	identityURL string
	tokenURL    string
	hc          *http.Client
	now         func() time.Time
}

// NewFirebaseProvider constructs a FirebaseProvider.
func NewFirebaseProvider(cfg FirebaseConfig) *FirebaseProvider {
	p := &FirebaseProvider{
		apiKey:      cfg.APIKey,
		identityURL: strings.TrimRight(cfg.IdentityEndpoint, "/"),
		tokenURL:    strings.TrimRight(cfg.TokenEndpoint, "/"),
		hc:          cfg.HTTPClient,
		now:         time.Now,
	}
	if p.identityURL == "" {
		p.identityURL = DefaultIdentityEndpoint
	}
	if p.tokenURL == "" {
		p.tokenURL = DefaultTokenEndpoint
	}
	if p.hc == nil {
		p.hc = &http.Client{Timeout: 10 * time.Second}
	}
	return p
}

var _ Provider = (*FirebaseProvider)(nil)

type authResponse struct {
	LocalID          string `json:"localId"`
	Email            string `json:"email"`
	DisplayName      string `json:"displayName"`
	PhotoURL         string `json:"photoUrl"`
	EmailVerified    bool   `json:"emailVerified"`
	IDToken          string `json:"idToken"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        string `json:"expiresIn"`
	NeedConfirmation bool   `json:"needConfirmation"`
}

func (r *authResponse) credential(now time.Time) *Credential {
	return &Credential{
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt(now, r.ExpiresIn),
		Session: &model.Session{
			UID:           r.LocalID,
			Email:         r.Email,
			DisplayName:   r.DisplayName,
			PhotoURL:      r.PhotoURL,
			EmailVerified: r.EmailVerified,
		},
	}
}

func expiresAt(now time.Time, seconds string) time.Time {
	n, err := strconv.Atoi(seconds)
	if err != nil || n <= 0 {
		n = 3600
	}
	return now.Add(time.Duration(n) * time.Second)
}

// SignInWithPassword implements Provider.
func (p *FirebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (*Credential, error) {
	var out authResponse
	err := p.postJSON(ctx, "accounts:signInWithPassword", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	cred := out.credential(p.now())
	p.lookup(ctx, cred)
	return cred, nil
}

// SignUp implements Provider.
func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*Credential, error) {
	var out authResponse
	err := p.postJSON(ctx, "accounts:signUp", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.credential(p.now()), nil
}

// SignInWithIdP implements Provider.
func (p *FirebaseProvider) SignInWithIdP(ctx context.Context, idpToken, providerID string) (*Credential, error) {
	var out authResponse
	post := url.Values{"id_token": {idpToken}, "providerId": {providerID}}
	err := p.postJSON(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.NeedConfirmation {
		return nil, &ProviderError{Code: "auth/account-exists-with-different-credential"}
	}
	return out.credential(p.now()), nil
}

// Refresh implements Provider.
func (p *FirebaseProvider) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	form := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {refreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL+"/token?key="+url.QueryEscape(p.apiKey), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := p.do(req, &out); err != nil {
		return nil, err
	}
	return &Credential{IDToken: out.IDToken, RefreshToken: out.RefreshToken, ExpiresAt: expiresAt(p.now(), out.ExpiresIn)}, nil
}

// UpdateProfile implements Provider.
func (p *FirebaseProvider) UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) (*model.Session, error) {
	body := map[string]any{"idToken": idToken, "returnSecureToken": false}
	var del []string
	if displayName != "" {
		body["displayName"] = displayName
	} else {
		del = append(del, "DISPLAY_NAME")
	}
	if photoURL != "" {
		body["photoUrl"] = photoURL
	} else {
		del = append(del, "PHOTO_URL")
	}
	if len(del) > 0 {
		body["deleteAttribute"] = del
	}
	var out authResponse
	if err := p.postJSON(ctx, "accounts:update", body, &out); err != nil {
		return nil, err
	}
	return &model.Session{
		UID:           out.LocalID,
		Email:         out.Email,
		DisplayName:   out.DisplayName,
		PhotoURL:      out.PhotoURL,
		EmailVerified: out.EmailVerified,
	}, nil
}

// Delete implements Provider.
func (p *FirebaseProvider) Delete(ctx context.Context, idToken string) error {
	return p.postJSON(ctx, "accounts:delete", map[string]any{"idToken": idToken}, nil)
}

// lookup fills attributes the sign-in response omits. Failures keep what we have.
func (p *FirebaseProvider) lookup(ctx context.Context, cred *Credential) {
	var out struct {
		Users []authResponse `json:"users"`
	}
	if err := p.postJSON(ctx, "accounts:lookup", map[string]any{"idToken": cred.IDToken}, &out); err != nil || len(out.Users) == 0 {
		return
	}
	u := out.Users[0]
	cred.Session.EmailVerified = u.EmailVerified
	if u.PhotoURL != "" {
		cred.Session.PhotoURL = u.PhotoURL
	}
	if u.DisplayName != "" {
		cred.Session.DisplayName = u.DisplayName
	}
}

func (p *FirebaseProvider) postJSON(ctx context.Context, method string, in, out any) error {
	if p.apiKey == "" {
		return &ProviderError{Code: "OPERATION_NOT_ALLOWED", Message: "identity provider api key is not configured"}
	}
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.identityURL+"/"+method+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *FirebaseProvider) do(req *http.Request, out any) error {
	resp, err := p.hc.Do(req)
	if err != nil {
		return fmt.Errorf("identity provider: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("identity provider: read body: %w", err)
	}
	if resp.StatusCode >= 300 {
		return providerError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("identity provider: decode: %w", err)
	}
	return nil
}

// providerError decodes both error shapes: identitytoolkit's {"error":{"message":...}}
// and securetoken's {"error":"...","error_description":"..."}.
func providerError(status int, data []byte) error {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &nested) == nil && nested.Error.Message != "" {
		code, msg, _ := strings.Cut(nested.Error.Message, " : ")
		return &ProviderError{Code: strings.TrimSpace(code), Message: msg, Status: status}
	}
	var flat struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if json.Unmarshal(data, &flat) == nil && flat.Error != "" {
		code := flat.Description
		if code == "" {
			code = flat.Error
		}
		return &ProviderError{Code: code, Message: flat.Error, Status: status}
	}
	return &ProviderError{Code: "HTTP_" + strconv.Itoa(status), Message: http.StatusText(status), Status: status}
}
