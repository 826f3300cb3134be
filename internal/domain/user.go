package domain

import "fmt"

// User is the identity record owned by exactly one live connection. IDs are
// monotonic and never reused within a process run; the fingerprint is the
// stable ban key that survives reconnects.
type User struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Fingerprint string `json:"-"` // IP-derived, not serialized
}

// NewUser creates a User with the default display name.
func NewUser(id int64, fingerprint string) *User {
	return &User{
		ID:          id,
		Name:        fmt.Sprintf("Usuário %d", id),
		Fingerprint: fingerprint,
	}
}
