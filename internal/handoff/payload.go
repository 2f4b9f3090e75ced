package handoff

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/havenly/property-service/internal/domain"
)

// TokenTTL is the fixed lifetime of a transfer token.
const TokenTTL = 300 * time.Second

// sessionFragmentLen bounds how much of the issuing access token is copied
// into the payload. The fragment is for log correlation only; it is never
// used to reconstruct a session.
const sessionFragmentLen = 16

// Payload is the decoded content of a transfer token string. It is
// base64url-encoded JSON, not a signed credential: integrity comes from the
// server-side row lookup, not from the encoding.
type Payload struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	SessionID string      `json:"sessionId"`
	Nonce     string      `json:"nonce"`
	IssuedAt  int64       `json:"iat"`
	ExpiresAt int64       `json:"exp"`
}

// NewPayload builds a payload bound to the given identity at the given
// instant. ExpiresAt is always IssuedAt plus TokenTTL; the nonce keeps two
// payloads minted in the same second from encoding to the same string.
func NewPayload(userID, email string, role domain.Role, accessToken string, now time.Time) Payload {
	iat := now.Unix()
	return Payload{
		UserID:    userID,
		Email:     email,
		Role:      role,
		SessionID: SessionFragment(accessToken),
		Nonce:     uuid.NewString(),
		IssuedAt:  iat,
		ExpiresAt: iat + int64(TokenTTL/time.Second),
	}
}

// SessionFragment returns the traceability fragment of an access token.
func SessionFragment(accessToken string) string {
	if len(accessToken) > sessionFragmentLen {
		return accessToken[:sessionFragmentLen]
	}
	return accessToken
}

// Encode serializes the payload into its token-string form.
func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Expiry returns the absolute expiry instant.
func (p Payload) Expiry() time.Time {
	return time.Unix(p.ExpiresAt, 0)
}

// ExpiredAt reports whether the payload is past its expiry at the given time.
func (p Payload) ExpiredAt(now time.Time) bool {
	return now.Unix() > p.ExpiresAt
}

// Decode parses a token string back into a payload. Any decoding or shape
// failure is reported as ErrInvalidFormat; expiry is not checked here.
func Decode(token string) (Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Payload{}, ErrInvalidFormat
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, ErrInvalidFormat
	}
	if p.UserID == "" || p.IssuedAt == 0 || p.ExpiresAt == 0 {
		return Payload{}, ErrInvalidFormat
	}
	return p, nil
}
