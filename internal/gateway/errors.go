package gateway

import (
	"fmt"

	"github.com/and161185/auto-marketplace/internal/errs"
	"github.com/and161185/auto-marketplace/internal/i18n"
)

// Kind classifies a failed request.
type Kind int

const (
	KindUnauthorized Kind = iota + 1
	KindForbidden
	KindNotFound
	KindValidation
	KindServer
	KindNoResponse // transport failure or timeout
	KindOther      // any other error status
	KindUnexpected // the request could not be built or the response not read
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNoResponse:
		return "no_response"
	case KindOther:
		return "other"
	case KindUnexpected:
		return "unexpected"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindUnauthorized:
		return errs.ErrUnauthorized
	case KindForbidden:
		return errs.ErrForbidden
	case KindNotFound:
		return errs.ErrNotFound
	case KindValidation:
		return errs.ErrValidation
	case KindServer:
		return errs.ErrServer
	case KindNoResponse:
		return errs.ErrNoResponse
	}
	return errs.ErrRequest
}

func (k Kind) messageKey() i18n.Key {
	switch k {
	case KindUnauthorized:
		return i18n.MsgHTTPUnauthorized
	case KindForbidden:
		return i18n.MsgHTTPForbidden
	case KindNotFound:
		return i18n.MsgHTTPNotFound
	case KindValidation:
		return i18n.MsgHTTPValidation
	case KindServer:
		return i18n.MsgHTTPServer
	case KindNoResponse:
		return i18n.MsgHTTPNoResponse
	case KindOther:
		return i18n.MsgHTTPOther
	}
	return i18n.MsgHTTPUnexpected
}

func kindOf(status int) Kind {
	switch status {
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 404:
		return KindNotFound
	case 422:
		return KindValidation
	case 500:
		return KindServer
	}
	return KindOther
}

// Error is a classified request failure. errors.Is matches the errs sentinel of its Kind.
type Error struct {
	Kind    Kind
	Status  int // 0 when no response arrived
	Method  string
	Path    string
	Message string // backend-supplied message, if any
	Err     error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		s += fmt.Sprintf(" (%d)", e.Status)
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes the sentinel and the cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}
