// Package model defines domain entities exchanged with the identity provider and the backend.
package model

import "time"

// Session is the live identity issued by the identity provider.
// Empty strings mean the provider did not report the attribute.
type Session struct {
	UID           string `json:"uid"`
	Email         string `json:"email,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	PhotoURL      string `json:"photoURL,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

// Clone returns a copy safe to hand out to readers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// UserType distinguishes buyers from sellers.
type UserType string

const (
	UserTypeSeller   UserType = "SELLER"
	UserTypeCustomer UserType = "CUSTOMER"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypeSeller || t == UserTypeCustomer
}

// DisplayName returns the German label used by the marketplace UI.
func (t UserType) DisplayName() string {
	switch t {
	case UserTypeSeller:
		return "Verkäufer"
	case UserTypeCustomer:
		return "Kunde"
	}
	return string(t)
}

// AccountStatus is the lifecycle state of a backend profile.
type AccountStatus string

const (
	AccountActive              AccountStatus = "ACTIVE"
	AccountInactive            AccountStatus = "INACTIVE"
	AccountSuspended           AccountStatus = "SUSPENDED"
	AccountPendingVerification AccountStatus = "PENDING_VERIFICATION"
)

// DisplayName returns the German label used by the marketplace UI.
func (s AccountStatus) DisplayName() string {
	switch s {
	case AccountActive:
		return "Aktiv"
	case AccountInactive:
		return "Inaktiv"
	case AccountSuspended:
		return "Gesperrt"
	case AccountPendingVerification:
		return "Warte auf Verifizierung"
	}
	return string(s)
}

// Profile is the backend-owned user record keyed by the session UID.
type Profile struct {
	ID              string        `json:"id"`
	FirebaseUID     string        `json:"firebaseUid"`
	Email           string        `json:"email"`
	FirstName       string        `json:"firstName"`
	LastName        string        `json:"lastName"`
	PhoneNumber     string        `json:"phoneNumber,omitempty"`
	ProfileImageURL string        `json:"profileImageUrl,omitempty"`
	UserType        UserType      `json:"userType"`
	Status          AccountStatus `json:"status"`
	CreatedAt       *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time    `json:"updatedAt,omitempty"`
	LastLoginAt     *time.Time    `json:"lastLoginAt,omitempty"`

	// seller-only
	CompanyName     string   `json:"companyName,omitempty"`
	BusinessLicense string   `json:"businessLicense,omitempty"`
	Address         string   `json:"address,omitempty"`
	Specializations []string `json:"specializations,omitempty"`
}

// IsSeller reports whether the profile belongs to a seller account.
func (p *Profile) IsSeller() bool { return p != nil && p.UserType == UserTypeSeller }

// FullName joins first and last name.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Clone returns a deep copy safe to hand out to readers.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Specializations != nil {
		c.Specializations = append([]string(nil), p.Specializations...)
	}
	return &c
}

// Health is the backend liveness report.
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}
