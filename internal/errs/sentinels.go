// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Backend sentinels, one per response class of the gateway.
var (
	// ErrUnauthorized indicates the backend rejected the caller's identity (401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller lacks permission for the action (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested entity does not exist (404).
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the backend rejected the payload (422).
	ErrValidation = errors.New("validation failed")

	// ErrServer indicates an internal backend failure (500).
	ErrServer = errors.New("server error")

	// ErrNoResponse indicates the request was sent but no response arrived (network failure, timeout).
	ErrNoResponse = errors.New("no response")

	// ErrRequest indicates any other failed request.
	ErrRequest = errors.New("request failed")
)

// Session sentinels.
var (
	// ErrNoSession indicates an operation requires a signed-in session.
	ErrNoSession = errors.New("no active session")

	// ErrIdentity indicates the identity provider rejected an operation.
	ErrIdentity = errors.New("identity provider error")

	// ErrRateLimited indicates the identity provider temporarily blocked sign-in attempts.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrAlreadySubscribed indicates a second session subscription was requested.
	ErrAlreadySubscribed = errors.New("session subscription already active")

	// ErrNotSeller indicates a seller-only action was attempted by a customer profile.
	ErrNotSeller = errors.New("seller profile required")

	// ErrSessionChanged indicates a result was discarded because the session changed meanwhile.
	ErrSessionChanged = errors.New("session changed")
)

// Client-side sentinels.
var (
	// ErrInvalidInput indicates a form failed local validation and was not sent.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInFlight indicates a submission is already running.
	ErrInFlight = errors.New("request already in flight")
)
