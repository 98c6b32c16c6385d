package dto

import (
	"time"

	"github.com/freshplate/recipe-service/internal/domain"
)

// UserCreateRequest payload for new accounts.
type UserCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// TokenRequest payload for the token endpoint.
type TokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserUpdateRequest payload for profile updates; nil fields stay untouched.
type UserUpdateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

// UserResponse is the public account shape. The password never appears.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{Email: user.Email, Name: user.Name}
}
