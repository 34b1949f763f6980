package identity

import (
	"context"
	"time"

	"github.com/and161185/auto-marketplace/internal/model"
)

// Credential is what the provider issues on a successful sign-in or refresh.
type Credential struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
	Session      *model.Session // nil on refresh: the provider only returns tokens
}

// Provider is the identity provider the adapter talks to.
type Provider interface {
	// SignInWithPassword authenticates an existing email/password account.
	SignInWithPassword(ctx context.Context, email, password string) (*Credential, error)
	// SignUp creates an email/password account and signs it in.
	SignUp(ctx context.Context, email, password string) (*Credential, error)
	// SignInWithIdP exchanges a federated ID token (e.g. Google) for a session.
	SignInWithIdP(ctx context.Context, idpToken, providerID string) (*Credential, error)
	// Refresh exchanges a refresh token for a fresh ID token.
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
	// UpdateProfile changes display name and photo URL of the signed-in account.
	UpdateProfile(ctx context.Context, idToken, displayName, photoURL string) (*model.Session, error)
	// Delete removes the signed-in account.
	Delete(ctx context.Context, idToken string) error
}
