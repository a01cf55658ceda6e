package dto

import (
	"time"

	"github.com/wmachadoc/Abertura-de-tickets/internal/domain"
)

// LoginRequest carries the login email. No password: authentication is an
// active-directory-entry lookup.
type LoginRequest struct {
	Email string `json:"email"`
}

// LoginResponse returns the session token and the resolved user.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}
