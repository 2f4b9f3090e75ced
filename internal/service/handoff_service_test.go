package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/config"
	"github.com/havenly/property-service/internal/domain"
	"github.com/havenly/property-service/internal/handoff"
)

// --- fakes ---

type fakeTransferTokenRepo struct {
	mu      sync.Mutex
	rows    map[string]*domain.TransferToken
	lookups int
}

func newFakeTransferTokenRepo() *fakeTransferTokenRepo {
	return &fakeTransferTokenRepo{rows: make(map[string]*domain.TransferToken)}
}

func (f *fakeTransferTokenRepo) Create(_ context.Context, token *domain.TransferToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = "tt-" + token.Token[:8]
	token.CreatedAt = time.Now()
	copied := *token
	f.rows[token.Token] = &copied
	return nil
}

func (f *fakeTransferTokenRepo) GetByToken(_ context.Context, tokenStr, userID string) (*domain.TransferToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	row, ok := f.rows[tokenStr]
	if !ok || row.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	copied := *row
	return &copied, nil
}

func (f *fakeTransferTokenRepo) MarkUsed(_ context.Context, tokenStr string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[tokenStr]
	if !ok || row.Used {
		return false, nil
	}
	now := time.Now()
	row.Used = true
	row.UsedAt = &now
	return true, nil
}

func (f *fakeTransferTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for key, row := range f.rows {
		if row.ExpiresAt.Before(time.Now()) {
			delete(f.rows, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	byEml map[string]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	f := &fakeUserRepo{byID: make(map[string]*domain.User), byEml: make(map[string]*domain.User)}
	for _, u := range users {
		f.byID[u.ID] = u
		f.byEml[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID == "" {
		user.ID = "u-" + user.Email
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = user
	f.byEml[user.Email] = user
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.byID[user.ID] = user
	f.byEml[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEml[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

// --- helpers ---

func testLandlord() *domain.User {
	return &domain.User{
		ID:     "U1",
		Name:   "Lena",
		Email:  "lena@example.com",
		Role:   domain.RoleLandlord,
		Status: domain.UserStatusActive,
	}
}

func newHandoffService(t *testing.T, tokens *fakeTransferTokenRepo, users *fakeUserRepo) *HandoffService {
	t.Helper()
	return NewHandoffService(config.HandoffConfig{AppScheme: "havenly", LinkPath: "auth"}, HandoffDependencies{
		TokenRepo:    tokens,
		UserRepo:     users,
		TokenManager: auth.NewTokenManager("test-secret", 60),
		Logger:       zap.NewNop(),
	})
}

func activeSession(user *domain.User) domain.Session {
	return domain.Session{
		AccessToken: "issuer-access-token-0123456789",
		TokenType:   "Bearer",
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
	}
}

// --- tests ---

func TestGenerateThenVerify(t *testing.T) {
	user := testLandlord()
	tokens := newFakeTransferTokenRepo()
	svc := newHandoffService(t, tokens, newFakeUserRepo(user))

	token, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "U1", payload.UserID)
	assert.Equal(t, domain.RoleLandlord, payload.Role)
	assert.Equal(t, payload.IssuedAt+300, payload.ExpiresAt)
}

func TestGenerateFailsWithoutProfile(t *testing.T) {
	tokens := newFakeTransferTokenRepo()
	svc := newHandoffService(t, tokens, newFakeUserRepo())

	_, err := svc.Generate(context.Background(), domain.Session{UserID: "ghost"})
	require.Error(t, err)
	// No partial state: a failed lookup must not leave a row behind.
	assert.Empty(t, tokens.rows)
}

func TestGenerateUniqueTokens(t *testing.T) {
	user := testLandlord()
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo(user))

	first, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestExchangeSucceedsOnceThenAlreadyUsed(t *testing.T) {
	user := testLandlord()
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo(user))

	token, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)

	session, err := svc.Exchange(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "U1", session.UserID)
	assert.Equal(t, domain.RoleLandlord, session.Role)
	assert.NotEmpty(t, session.AccessToken)
	// The minted session is new, not the issuer's.
	assert.NotEqual(t, "issuer-access-token-0123456789", session.AccessToken)

	_, err = svc.Exchange(context.Background(), token)
	assert.ErrorIs(t, err, handoff.ErrAlreadyUsed)
}

func TestVerifyExpiredToken(t *testing.T) {
	user := testLandlord()
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo(user))

	token, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(301 * time.Second) }
	_, err = svc.Verify(context.Background(), token)
	assert.ErrorIs(t, err, handoff.ErrExpired)
	_, err = svc.Exchange(context.Background(), token)
	assert.ErrorIs(t, err, handoff.ErrExpired)
}

func TestVerifyUnknownToken(t *testing.T) {
	user := testLandlord()
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo(user))

	// A well-formed payload with no backing row.
	payload := handoff.NewPayload("U1", user.Email, user.Role, "tok", time.Now())
	orphan, err := payload.Encode()
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), orphan)
	assert.ErrorIs(t, err, handoff.ErrNotFound)
}

func TestExchangeMalformedTokenSkipsLookup(t *testing.T) {
	user := testLandlord()
	tokens := newFakeTransferTokenRepo()
	svc := newHandoffService(t, tokens, newFakeUserRepo(user))

	_, err := svc.Exchange(context.Background(), "not-valid-base64")
	assert.ErrorIs(t, err, handoff.ErrInvalidFormat)
	assert.Zero(t, tokens.lookups)
}

func TestVerifyHasNoSideEffects(t *testing.T) {
	user := testLandlord()
	tokens := newFakeTransferTokenRepo()
	svc := newHandoffService(t, tokens, newFakeUserRepo(user))

	token, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Verify(context.Background(), token)
		require.NoError(t, err)
	}
	assert.False(t, tokens.rows[token].Used)
}

func TestConcurrentExchangeSingleWinner(t *testing.T) {
	user := testLandlord()
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo(user))

	token, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Exchange(context.Background(), token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, alreadyUsed int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case err == handoff.ErrAlreadyUsed:
			alreadyUsed++
		default:
			t.Fatalf("unexpected exchange error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, alreadyUsed)
}

func TestPurgeExpiredLeavesLiveRows(t *testing.T) {
	user := testLandlord()
	tokens := newFakeTransferTokenRepo()
	svc := newHandoffService(t, tokens, newFakeUserRepo(user))

	live, err := svc.Generate(context.Background(), activeSession(user))
	require.NoError(t, err)
	tokens.rows["stale"] = &domain.TransferToken{
		Token:     "stale",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	deleted, err := svc.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Contains(t, tokens.rows, live)
	assert.NotContains(t, tokens.rows, "stale")
}

func TestDeepLinkShape(t *testing.T) {
	svc := newHandoffService(t, newFakeTransferTokenRepo(), newFakeUserRepo())
	assert.Equal(t, "havenly://auth?token=abc", svc.DeepLink("abc"))
}
