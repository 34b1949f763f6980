package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/and161185/auto-marketplace/internal/errs"
)

// ProviderError is a failure reported by the identity provider itself.
type ProviderError struct {
	Code    string // wire code, e.g. "INVALID_PASSWORD" or "auth/popup-closed-by-user"
	Message string
	Status  int // HTTP status, 0 when not applicable
}

func (e *ProviderError) Error() string {
	if e.Message != "" && e.Message != e.Code {
		return fmt.Sprintf("identity provider: %s: %s", e.Code, e.Message)
	}
	return "identity provider: " + e.Code
}

// Error is the categorized failure of an adapter operation.
type Error struct {
	Op           Op
	Code         Code
	ProviderCode string
	Err          error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("identity %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("identity %s: %s", e.Op, e.Code)
}

// Unwrap exposes the cause and the matching errs sentinels.
func (e *Error) Unwrap() []error {
	out := []error{errs.ErrIdentity}
	switch e.Code {
	case CodeTooManyRequests:
		out = append(out, errs.ErrRateLimited)
	case CodeEmailAlreadyInUse, CodeAccountExistsWithDifferentCredential:
		out = append(out, errs.ErrAlreadyExists)
	case CodeUserTokenExpired:
		out = append(out, errs.ErrNoSession)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// IsCancelled reports whether err is a user-cancelled popup sign-in.
func IsCancelled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code.Cancelled()
}

// CodeOf extracts the Code from err, CodeUnknown if err is not an identity error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// classify turns any provider-side failure into an *Error for op.
func classify(op Op, err error) *Error {
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	e := &Error{Op: op, Code: CodeUnknown, Err: err}
	var pe *ProviderError
	var ne net.Error
	var ue *url.Error
	switch {
	case errors.As(err, &pe):
		e.ProviderCode = pe.Code
		e.Code = ParseCode(pe.Code)
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne), errors.As(err, &ue):
		e.Code = CodeNetworkRequestFailed
	}
	return e
}
