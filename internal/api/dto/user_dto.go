package dto

import (
	"time"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
)

// RegisterRequest payload for POST /users.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest payload for POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is a user with the password stripped.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthResponse is the minted token returned by login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

// NewAuthResponse maps a minted token.
func NewAuthResponse(token domain.AuthToken) AuthResponse {
	return AuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User: UserResponse{
			ID:    token.User.ID,
			Email: token.User.Email,
			Name:  token.User.Name,
		},
	}
}
