package domain

// User is an account that owns tickets. Password holds either the raw
// secret or a bcrypt hash depending on configuration and must never be
// included in anything that leaves the auth service boundary.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Sanitized returns a copy of the user with the password stripped.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
