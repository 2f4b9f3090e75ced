package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenly/property-service/internal/config"
	"github.com/havenly/property-service/internal/domain"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
		},
	}
	return NewAuthService(cfg, users)
}

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	session, err := svc.Register(context.Background(), "Lena", "lena@example.com", "hunter22", domain.RoleLandlord)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleLandlord, session.Role)
	assert.NotEmpty(t, session.AccessToken)

	session, err = svc.Login(context.Background(), "lena@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "lena@example.com", session.Email)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	_, err := svc.Register(context.Background(), "Eve", "eve@example.com", "pw", domain.RoleAdmin)
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), "Lena", "lena@example.com", "pw1", domain.RoleLandlord)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "Other", "lena@example.com", "pw2", domain.RoleTenant)
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	_, err := svc.Register(context.Background(), "Lena", "lena@example.com", "correct", domain.RoleLandlord)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "lena@example.com", "wrong")
	assert.Error(t, err)
}

func TestLoginSuspendedAccount(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	session, err := svc.Register(context.Background(), "Lena", "lena@example.com", "pw", domain.RoleLandlord)
	require.NoError(t, err)

	user, err := users.GetByID(context.Background(), session.UserID)
	require.NoError(t, err)
	user.Status = domain.UserStatusSuspended

	_, err = svc.Login(context.Background(), "lena@example.com", "pw")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	session, err := svc.Register(context.Background(), "Lena", "lena@example.com", "old-pw", domain.RoleLandlord)
	require.NoError(t, err)

	require.Error(t, svc.ChangePassword(context.Background(), session.UserID, "bad-guess", "new-pw"))
	require.NoError(t, svc.ChangePassword(context.Background(), session.UserID, "old-pw", "new-pw"))

	_, err = svc.Login(context.Background(), "lena@example.com", "new-pw")
	assert.NoError(t, err)
}
