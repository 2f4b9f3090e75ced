package handoff

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenly/property-service/internal/domain"
)

func TestNewPayloadLifetime(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	p := NewPayload("u1", "lena@example.com", domain.RoleLandlord, "access-token-abcdef123456", now)

	assert.Equal(t, now.Unix(), p.IssuedAt)
	assert.Equal(t, now.Unix()+300, p.ExpiresAt)
	assert.Equal(t, "access-token-abc", p.SessionID)
	assert.NotEmpty(t, p.Nonce)
}

func TestSessionFragmentShortToken(t *testing.T) {
	assert.Equal(t, "short", SessionFragment("short"))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := NewPayload("u1", "lena@example.com", domain.RoleLandlord, "access-token-abcdef123456", time.Now())

	token, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestEncodeUniqueness(t *testing.T) {
	now := time.Now()
	first, err := NewPayload("u1", "a@example.com", domain.RoleLandlord, "tok", now).Encode()
	require.NoError(t, err)
	second, err := NewPayload("u1", "a@example.com", domain.RoleLandlord, "tok", now).Encode()
	require.NoError(t, err)

	// Same user, same instant: the nonce still forces distinct strings.
	assert.NotEqual(t, first, second)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "not-valid-base64!!!"},
		{"base64 but not json", base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{"json but wrong shape", base64.RawURLEncoding.EncodeToString([]byte(`{"foo":1}`))},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.token)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestExpiredAt(t *testing.T) {
	now := time.Now()
	p := NewPayload("u1", "a@example.com", domain.RoleTenant, "tok", now)

	assert.False(t, p.ExpiredAt(now))
	assert.False(t, p.ExpiredAt(now.Add(300*time.Second)))
	assert.True(t, p.ExpiredAt(now.Add(301*time.Second)))
}
