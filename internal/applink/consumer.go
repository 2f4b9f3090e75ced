package applink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// State tracks where the consumer is in the handoff flow.
type State string

const (
	StateIdle          State = "IDLE"
	StateExchanging    State = "EXCHANGING"
	StateAuthenticated State = "AUTHENTICATED"
)

var (
	// ErrNotHandoffLink is returned for URLs that do not carry a token.
	ErrNotHandoffLink = errors.New("url does not carry a transfer token")
	// ErrExchangeInProgress is returned when a second link arrives while one
	// is still being exchanged.
	ErrExchangeInProgress = errors.New("an exchange is already in progress")
)

// ExchangeError carries the server's rejection of a token. It is terminal
// for that token; the user has to mint a fresh one from the web app.
type ExchangeError struct {
	StatusCode int
	Message    string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("exchange rejected (%d): %s", e.StatusCode, e.Message)
}

// Session mirrors the session block of the exchange response.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Consumer drives the mobile side of the session handoff. Links that launch
// the app cold and links that arrive while it is running funnel into the
// same HandleLink call; the state machine makes no distinction between them.
type Consumer struct {
	baseURL string
	scheme  string
	client  *http.Client

	mu      sync.Mutex
	state   State
	session *Session
}

// NewConsumer builds a consumer pointed at the web application's API.
func NewConsumer(baseURL, scheme string, client *http.Client) *Consumer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Consumer{
		baseURL: baseURL,
		scheme:  scheme,
		client:  client,
		state:   StateIdle,
	}
}

// State returns the current state.
func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns the active session, if authenticated.
func (c *Consumer) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ExtractToken pulls the transfer token out of a deep-link URL. The scheme
// must match the app's registered scheme; anything without a token query
// parameter is not a handoff link.
func (c *Consumer) ExtractToken(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", ErrNotHandoffLink
	}
	if c.scheme != "" && parsed.Scheme != c.scheme {
		return "", ErrNotHandoffLink
	}
	token := parsed.Query().Get("token")
	if token == "" {
		return "", ErrNotHandoffLink
	}
	return token, nil
}

// HandleLink runs the full flow for an incoming deep link: extract the
// token, exchange it, and transition to Authenticated. On any failure the
// consumer returns to Idle with the error surfaced; there is no automatic
// retry.
func (c *Consumer) HandleLink(ctx context.Context, rawURL string) (*Session, error) {
	token, err := c.ExtractToken(rawURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state == StateExchanging {
		c.mu.Unlock()
		return nil, ErrExchangeInProgress
	}
	c.state = StateExchanging
	c.mu.Unlock()

	session, err := c.exchange(ctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = StateIdle
		return nil, err
	}
	c.state = StateAuthenticated
	c.session = session
	return session, nil
}

func (c *Consumer) exchange(ctx context.Context, token string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api/auth/exchange-token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read exchange response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &failure)
		if failure.Message == "" {
			failure.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &ExchangeError{StatusCode: resp.StatusCode, Message: failure.Message}
	}

	var success struct {
		Session Session `json:"session"`
	}
	if err := json.Unmarshal(raw, &success); err != nil {
		return nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if success.Session.AccessToken == "" {
		return nil, errors.New("exchange response missing session")
	}
	return &success.Session, nil
}

// Reset drops the active session and returns to Idle.
func (c *Consumer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.session = nil
}
