package dto

import (
	"time"

	"github.com/havenly/property-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest payload for password changes.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SessionUser is the identity block embedded in session responses.
type SessionUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// SessionResponse is the wire shape of an active session. Login and
// transfer-token exchange both return it.
type SessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        SessionUser `json:"user"`
}

// NewSessionResponse maps a domain session onto the wire shape.
func NewSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresAt:   session.ExpiresAt,
		User: SessionUser{
			ID:    session.UserID,
			Name:  session.Name,
			Email: session.Email,
			Role:  session.Role,
		},
	}
}
