// Package account contains the identity, preferences, and membership
// domain. Every persisted collection is namespaced by an identity key
// derived here, so identity handling is the isolation boundary between
// users.
package account

import "strings"

// GuestIdentity is the anonymous identity used before sign-in.
const GuestIdentity Identity = "guest"

// Identity is the normalized signed-in email, or the literal "guest".
type Identity string

// NewIdentity normalizes a raw email into an identity. Empty input
// resolves to the guest identity.
func NewIdentity(email string) Identity {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return GuestIdentity
	}
	return Identity(email)
}

// IsGuest reports whether this is the anonymous identity.
func (id Identity) IsGuest() bool {
	return id == GuestIdentity
}

// Key derives the alphanumeric-safe storage prefix for this identity.
// Distinct identities must never collide after sanitization in practice;
// every non-alphanumeric rune maps to an underscore.
func (id Identity) Key() string {
	var b strings.Builder
	for _, r := range strings.ToLower(string(id)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return string(GuestIdentity)
	}
	return b.String()
}
