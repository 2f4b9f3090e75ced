package applink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchangeServer(t *testing.T, handler func(token string, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/exchange-token", r.URL.Path)

		var req struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		handler(req.Token, w)
	}))
}

func validSessionBody() map[string]any {
	return map[string]any{
		"session": map[string]any{
			"access_token": "minted-token",
			"token_type":   "Bearer",
			"expires_at":   time.Now().Add(time.Hour).Format(time.RFC3339),
			"user": map[string]any{
				"id":    "U1",
				"name":  "Lena",
				"email": "lena@example.com",
				"role":  "LANDLORD",
			},
		},
	}
}

func TestHandleLinkSuccess(t *testing.T) {
	server := newExchangeServer(t, func(token string, w http.ResponseWriter) {
		assert.Equal(t, "tok123", token)
		_ = json.NewEncoder(w).Encode(validSessionBody())
	})
	defer server.Close()

	consumer := NewConsumer(server.URL, "havenly", server.Client())
	require.Equal(t, StateIdle, consumer.State())

	session, err := consumer.HandleLink(context.Background(), "havenly://auth?token=tok123")
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, consumer.State())
	assert.Equal(t, "minted-token", session.AccessToken)
	assert.Equal(t, "lena@example.com", session.User.Email)
	assert.Same(t, session, consumer.Session())
}

func TestHandleLinkRejection(t *testing.T) {
	server := newExchangeServer(t, func(_ string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "this sign-in link is invalid or has expired",
		})
	})
	defer server.Close()

	consumer := NewConsumer(server.URL, "havenly", server.Client())
	_, err := consumer.HandleLink(context.Background(), "havenly://auth?token=stale")

	var exchangeErr *ExchangeError
	require.ErrorAs(t, err, &exchangeErr)
	assert.Equal(t, http.StatusUnauthorized, exchangeErr.StatusCode)
	assert.Equal(t, "this sign-in link is invalid or has expired", exchangeErr.Message)
	// Failure returns the consumer to Idle; retry is the user's call.
	assert.Equal(t, StateIdle, consumer.State())
	assert.Nil(t, consumer.Session())
}

func TestExtractTokenRejectsForeignLinks(t *testing.T) {
	consumer := NewConsumer("http://api.test", "havenly", nil)

	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "https://example.com?token=abc"},
		{"no token", "havenly://auth"},
		{"empty token", "havenly://auth?token="},
		{"unparseable", "::::"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := consumer.ExtractToken(tt.url)
			assert.ErrorIs(t, err, ErrNotHandoffLink)
		})
	}
}

func TestColdAndWarmLinksBehaveIdentically(t *testing.T) {
	var served int
	server := newExchangeServer(t, func(_ string, w http.ResponseWriter) {
		served++
		_ = json.NewEncoder(w).Encode(validSessionBody())
	})
	defer server.Close()

	// Cold start: consumer constructed, then immediately handed the launch URL.
	cold := NewConsumer(server.URL, "havenly", server.Client())
	_, err := cold.HandleLink(context.Background(), "havenly://auth?token=cold")
	require.NoError(t, err)

	// Warm: consumer already past one flow, a new link event arrives.
	warm := NewConsumer(server.URL, "havenly", server.Client())
	_, err = warm.HandleLink(context.Background(), "havenly://auth?token=first")
	require.NoError(t, err)
	warm.Reset()
	_, err = warm.HandleLink(context.Background(), "havenly://auth?token=second")
	require.NoError(t, err)

	assert.Equal(t, 3, served)
}

func TestHandleLinkBadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"session":{}}`))
	}))
	defer server.Close()

	consumer := NewConsumer(server.URL, "havenly", server.Client())
	_, err := consumer.HandleLink(context.Background(), "havenly://auth?token=abc")
	require.Error(t, err)
	assert.Equal(t, StateIdle, consumer.State())
}
