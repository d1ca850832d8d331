package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hasher prepares and checks stored password values. Hashing is off by
// default: the stored value is the raw secret and comparison is plain
// equality, matching the seeded-plaintext contract the service inherits.
// Enabling it switches storage and comparison to bcrypt.
type Hasher struct {
	enabled bool
	cost    int
}

// NewHasher builds a hasher; cost is only used when hashing is enabled.
func NewHasher(enabled bool, cost int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{enabled: enabled, cost: cost}
}

// Hash converts a plaintext password into its stored form.
func (h *Hasher) Hash(password string) (string, error) {
	if !h.enabled {
		return password, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare verifies a plaintext password against its stored form.
func (h *Hasher) Compare(stored, plain string) bool {
	if !h.enabled {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
