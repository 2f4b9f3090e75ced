package dto

import "time"

// TransferTokenResponse is returned when an authenticated session mints a
// handoff token for the companion app.
type TransferTokenResponse struct {
	Token     string    `json:"token"`
	DeepLink  string    `json:"deep_link"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExchangeTokenRequest is the body of POST /api/auth/exchange-token.
type ExchangeTokenRequest struct {
	Token string `json:"token"`
}

// ExchangeTokenResponse wraps the session handed to the mobile app.
type ExchangeTokenResponse struct {
	Session SessionResponse `json:"session"`
}

// PurgeTokensResponse reports how many expired rows were removed.
type PurgeTokensResponse struct {
	Deleted int64 `json:"deleted"`
}
