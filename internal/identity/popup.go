package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// IdPCredential is the federated token handed to Provider.SignInWithIdP.
type IdPCredential struct {
	IDToken    string
	ProviderID string
}

// Authorizer runs an interactive federated sign-in (the "popup").
type Authorizer interface {
	Authorize(ctx context.Context) (*IdPCredential, error)
}

// Opener shows the authorization URL to the user, typically by starting a browser.
type Opener func(authURL string) error

// LoopbackAuthorizer runs Google sign-in through the system browser and
// captures the redirect on a 127.0.0.1 listener.
type LoopbackAuthorizer struct {
	cfg     oauth2.Config
	open    Opener
	log     *zap.Logger
	timeout time.Duration
}

// NewGoogleAuthorizer constructs a LoopbackAuthorizer for Google.
func NewGoogleAuthorizer(clientID, clientSecret string, open Opener, log *zap.Logger) *LoopbackAuthorizer {
	return NewLoopbackAuthorizer(oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}, open, log)
}

// NewLoopbackAuthorizer constructs a LoopbackAuthorizer for an arbitrary OAuth endpoint.
func NewLoopbackAuthorizer(cfg oauth2.Config, open Opener, log *zap.Logger) *LoopbackAuthorizer {
	return &LoopbackAuthorizer{cfg: cfg, open: open, log: log, timeout: 5 * time.Minute}
}

var _ Authorizer = (*LoopbackAuthorizer)(nil)

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context) (*IdPCredential, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("popup listener: %w", err)
	}
	cfg := a.cfg
	cfg.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state := uuid.Must(uuid.NewV4()).String()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case q.Get("error") == "access_denied":
			res.err = &ProviderError{Code: "auth/popup-closed-by-user", Message: q.Get("error_description")}
		case q.Get("error") != "":
			res.err = &ProviderError{Code: q.Get("error"), Message: q.Get("error_description")}
		default:
			res.code = q.Get("code")
		}
		_, _ = fmt.Fprintln(w, "Sie können dieses Fenster jetzt schließen.")
		select {
		case results <- res:
		default:
		}
	})
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("popup callback server", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.S256ChallengeOption(verifier),
	)
	if err := a.open(authURL); err != nil {
		return nil, fmt.Errorf("open authorization url: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	var res callbackResult
	select {
	case res = <-results:
	case <-waitCtx.Done():
		return nil, &ProviderError{Code: "auth/cancelled-popup-request", Message: waitCtx.Err().Error()}
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return nil, &ProviderError{Code: "INVALID_IDP_RESPONSE", Message: "token response carries no id_token"}
	}
	return &IdPCredential{IDToken: idToken, ProviderID: "google.com"}, nil
}
