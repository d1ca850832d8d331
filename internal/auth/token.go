package auth

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateToken returns an opaque bearer credential. The string carries
// no decodable structure; validity is decided by server-side lookup.
func GenerateToken() string {
	raw := uuid.NewString() + uuid.NewString()
	return strings.ReplaceAll(raw, "-", "")
}
