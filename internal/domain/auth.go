package domain

import "time"

// TokenUser is the denormalized user snapshot embedded in a token.
// It is copied at login and stays stale if the user record changes.
type TokenUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthToken is an opaque bearer credential with a fixed expiry.
// The token string carries no decodable structure; validity is
// established purely by server-side lookup.
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      TokenUser `json:"user"`
}

// Expired reports whether the token is dead at the given instant.
// A token is valid up to and including its exact expiry time.
func (t AuthToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
