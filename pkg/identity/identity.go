// Package identity describes the caller of an operation that changes data.
package identity

import "strings"

// Identity is an authenticated user.
type Identity struct {
	UserID   uint
	Username string
}

// IsZero reports whether the identity is missing.
func (id Identity) IsZero() bool {
	return id.UserID == 0 && strings.TrimSpace(id.Username) == ""
}

// Require returns an Unauthenticated error for a missing identity.
func Require(id Identity) error {
	if id.IsZero() {
		return UnauthenticatedError()
	}
	return nil
}

// IDPtr returns a pointer to the user ID, nil when the ID is not known.
func (id Identity) IDPtr() *uint {
	if id.UserID == 0 {
		return nil
	}
	res := id.UserID
	return &res
}
