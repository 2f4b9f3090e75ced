package domain

import "time"

// Session represents an authenticated session handed to a client after login
// or after a successful transfer-token exchange.
type Session struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	UserID      string
	Name        string
	Email       string
	Role        Role
}
