package form

import (
	"strings"

	"github.com/and161185/auto-marketplace/internal/i18n"
	"github.com/and161185/auto-marketplace/internal/model"
)

// MinPasswordLen matches the identity provider's own minimum.
const MinPasswordLen = 6

// Login is the sign-in form.
type Login struct {
	Email    string
	Password string
}

// Validate trims the email and checks both fields.
func (l *Login) Validate() error {
	l.Email = strings.TrimSpace(l.Email)
	var c checker
	c.check(validEmail(l.Email), "email", i18n.MsgFormEmailInvalid)
	c.check(len(l.Password) >= MinPasswordLen, "password", i18n.MsgFormPasswordMin)
	return c.err()
}

// Registration is the sign-up form.
type Registration struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	UserType        model.UserType
	AcceptTerms     bool
}

// Validate trims the text fields and checks the whole form.
func (r *Registration) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	var c checker
	c.check(runes(r.FirstName) >= 2, "firstName", i18n.MsgFormFirstNameMin)
	c.check(runes(r.LastName) >= 2, "lastName", i18n.MsgFormLastNameMin)
	c.check(validEmail(r.Email), "email", i18n.MsgFormEmailInvalid)
	c.check(len(r.Password) >= MinPasswordLen, "password", i18n.MsgFormPasswordMin)
	c.check(r.Password == r.ConfirmPassword, "confirmPassword", i18n.MsgFormPasswordMismatch)
	c.check(r.UserType.Valid(), "userType", i18n.MsgFormUserTypeInvalid)
	c.check(r.AcceptTerms, "agreeToTerms", i18n.MsgFormTermsRequired)
	return c.err()
}

// Seed is the backend profile created right after sign-up.
func (r *Registration) Seed() model.CreateProfileRequest {
	return model.CreateProfileRequest{FirstName: r.FirstName, LastName: r.LastName, UserType: r.UserType}
}
