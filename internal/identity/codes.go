package identity

import (
	"strings"

	"github.com/and161185/auto-marketplace/internal/i18n"
)

// Code is the closed set of identity failures the client distinguishes.
type Code int

const (
	CodeUnknown Code = iota
	CodeInvalidCredential
	CodeUserNotFound
	CodeWrongPassword
	CodeInvalidEmail
	CodeUserDisabled
	CodeTooManyRequests
	CodeNetworkRequestFailed
	CodeEmailAlreadyInUse
	CodeOperationNotAllowed
	CodeWeakPassword
	CodePopupClosedByUser
	CodeCancelledPopupRequest
	CodeAccountExistsWithDifferentCredential
	CodeUserTokenExpired
	CodeProfileCreationFailed
)

// String returns the provider-style code, e.g. "auth/wrong-password".
func (c Code) String() string {
	switch c {
	case CodeInvalidCredential:
		return "auth/invalid-credential"
	case CodeUserNotFound:
		return "auth/user-not-found"
	case CodeWrongPassword:
		return "auth/wrong-password"
	case CodeInvalidEmail:
		return "auth/invalid-email"
	case CodeUserDisabled:
		return "auth/user-disabled"
	case CodeTooManyRequests:
		return "auth/too-many-requests"
	case CodeNetworkRequestFailed:
		return "auth/network-request-failed"
	case CodeEmailAlreadyInUse:
		return "auth/email-already-in-use"
	case CodeOperationNotAllowed:
		return "auth/operation-not-allowed"
	case CodeWeakPassword:
		return "auth/weak-password"
	case CodePopupClosedByUser:
		return "auth/popup-closed-by-user"
	case CodeCancelledPopupRequest:
		return "auth/cancelled-popup-request"
	case CodeAccountExistsWithDifferentCredential:
		return "auth/account-exists-with-different-credential"
	case CodeUserTokenExpired:
		return "auth/user-token-expired"
	case CodeProfileCreationFailed:
		return "auth/profile-creation-failed"
	case CodeUnknown:
		return "auth/unknown"
	}
	return "auth/unknown"
}

// ParseCode maps a provider wire code to a Code. It accepts the SDK form
// ("auth/wrong-password") and the REST form ("INVALID_PASSWORD", optionally
// followed by " : detail").
func ParseCode(s string) Code {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, " "); i > 0 {
		s = s[:i]
	}
	switch s {
	case "auth/invalid-credential", "INVALID_LOGIN_CREDENTIALS", "INVALID_IDP_RESPONSE":
		return CodeInvalidCredential
	case "auth/user-not-found", "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return CodeUserNotFound
	case "auth/wrong-password", "INVALID_PASSWORD":
		return CodeWrongPassword
	case "auth/invalid-email", "INVALID_EMAIL", "MISSING_EMAIL":
		return CodeInvalidEmail
	case "auth/user-disabled", "USER_DISABLED":
		return CodeUserDisabled
	case "auth/too-many-requests", "TOO_MANY_ATTEMPTS_TRY_LATER", "QUOTA_EXCEEDED":
		return CodeTooManyRequests
	case "auth/network-request-failed":
		return CodeNetworkRequestFailed
	case "auth/email-already-in-use", "EMAIL_EXISTS":
		return CodeEmailAlreadyInUse
	case "auth/operation-not-allowed", "OPERATION_NOT_ALLOWED", "PASSWORD_LOGIN_DISABLED":
		return CodeOperationNotAllowed
	case "auth/weak-password", "WEAK_PASSWORD":
		return CodeWeakPassword
	case "auth/popup-closed-by-user":
		return CodePopupClosedByUser
	case "auth/cancelled-popup-request":
		return CodeCancelledPopupRequest
	case "auth/account-exists-with-different-credential", "FEDERATED_USER_ID_ALREADY_LINKED":
		return CodeAccountExistsWithDifferentCredential
	case "auth/user-token-expired", "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "INVALID_ID_TOKEN", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return CodeUserTokenExpired
	case "auth/profile-creation-failed":
		return CodeProfileCreationFailed
	}
	return CodeUnknown
}

// Cancelled reports whether the code means the user dismissed the popup.
func (c Code) Cancelled() bool {
	return c == CodePopupClosedByUser || c == CodeCancelledPopupRequest
}

// invalidatesSession reports whether a refresh failure with this code ends the session.
func (c Code) invalidatesSession() bool {
	return c == CodeUserDisabled || c == CodeUserTokenExpired || c == CodeUserNotFound
}

// Op names an adapter operation for messages and logs.
type Op string

const (
	OpSignIn        Op = "sign-in"
	OpSignUp        Op = "sign-up"
	OpPopup         Op = "popup-sign-in"
	OpSignOut       Op = "sign-out"
	OpUpdateProfile Op = "update-profile"
	OpRefresh       Op = "refresh"
)

func (o Op) successKey() i18n.Key {
	switch o {
	case OpSignIn:
		return i18n.MsgAuthSignInOK
	case OpSignUp:
		return i18n.MsgAuthSignUpOK
	case OpPopup:
		return i18n.MsgAuthPopupOK
	case OpSignOut:
		return i18n.MsgAuthSignOutOK
	case OpUpdateProfile:
		return i18n.MsgAuthDisplayNameOK
	}
	return ""
}

func (o Op) failedKey() i18n.Key {
	switch o {
	case OpSignIn:
		return i18n.MsgAuthSignInFailed
	case OpSignUp:
		return i18n.MsgAuthSignUpFailed
	case OpPopup:
		return i18n.MsgAuthPopupFailed
	case OpSignOut:
		return i18n.MsgAuthSignOutFailed
	case OpUpdateProfile:
		return i18n.MsgAuthDisplayNameFailed
	case OpRefresh:
		return i18n.MsgAuthErrorSessionExpired
	}
	return i18n.MsgHTTPUnexpected
}

// MessageKey returns the localized message for a failure of op with code c.
// Codes without a dedicated text fall back to the operation's generic failure.
func MessageKey(op Op, c Code) i18n.Key {
	switch c {
	case CodeInvalidCredential:
		return i18n.MsgAuthErrorInvalidCredential
	case CodeUserNotFound:
		return i18n.MsgAuthErrorUserNotFound
	case CodeWrongPassword:
		return i18n.MsgAuthErrorWrongPassword
	case CodeInvalidEmail:
		return i18n.MsgAuthErrorInvalidEmail
	case CodeUserDisabled:
		return i18n.MsgAuthErrorUserDisabled
	case CodeTooManyRequests:
		return i18n.MsgAuthErrorTooManyRequests
	case CodeNetworkRequestFailed:
		return i18n.MsgAuthErrorNetwork
	case CodeEmailAlreadyInUse:
		return i18n.MsgAuthErrorEmailInUse
	case CodeOperationNotAllowed:
		return i18n.MsgAuthErrorOperationNotAllowed
	case CodeWeakPassword:
		return i18n.MsgAuthErrorWeakPassword
	case CodePopupClosedByUser, CodeCancelledPopupRequest:
		return i18n.MsgAuthErrorPopupCancelled
	case CodeAccountExistsWithDifferentCredential:
		return i18n.MsgAuthErrorAccountExists
	case CodeUserTokenExpired:
		return i18n.MsgAuthErrorSessionExpired
	case CodeProfileCreationFailed:
		return i18n.MsgAuthErrorProfileCreation
	case CodeUnknown:
		return op.failedKey()
	}
	return op.failedKey()
}
