package services

import (
	"context"
	"testing"
	"time"

	"gemvault/internal/adapters/persistence/models"
	"gemvault/internal/config"
	"gemvault/internal/pkg/password"
	"gemvault/internal/pkg/referral"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*fakeStore, *fakeRefreshTokenRepo, *AuthService) {
	store := newFakeStore()
	tokens := newFakeRefreshTokenRepo()
	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	svc := NewAuthService(store.repos().Users, tokens, cfg)
	return store, tokens, svc
}

func seedReferrer(store *fakeStore) *models.User {
	hash, _ := password.Hash("referrer-pass")
	return store.addUser(models.User{
		Name:         "Referrer",
		Phone:        "0800000000",
		Password:     hash,
		ReferralCode: "AAAA1111",
	})
}

func TestRegister(t *testing.T) {
	store, tokens, svc := newAuthFixture()
	referrer := seedReferrer(store)

	resp, err := svc.Register(context.Background(), &RegisterInput{
		Name:         "Newcomer",
		Phone:        "0812345678",
		Password:     "secret1234",
		ReferralCode: referrer.ReferralCode,
	})
	require.NoError(t, err)

	assert.Equal(t, "Newcomer", resp.User.Name)
	assert.Equal(t, "0812345678", resp.User.Phone)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// The new account hangs off the referrer and gets a fresh code.
	created, err := store.repos().Users.GetByPhone(context.Background(), "0812345678")
	require.NoError(t, err)
	require.NotNil(t, created.ReferredBy)
	assert.Equal(t, referrer.ID, *created.ReferredBy)
	assert.True(t, referral.IsValidCode(created.ReferralCode))
	assert.NotEqual(t, referrer.ReferralCode, created.ReferralCode)
	assert.True(t, password.Verify("secret1234", created.Password))
	assert.False(t, created.IsAdmin)

	// A refresh token is stored hashed, never in the clear.
	stored, err := tokens.GetByTokenHash(context.Background(), password.HashToken(resp.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.UserID)
}

func TestRegisterRejectsUnknownReferralCode(t *testing.T) {
	_, _, svc := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:         "Newcomer",
		Phone:        "0812345678",
		Password:     "secret1234",
		ReferralCode: "DEAD0000",
	})
	assert.ErrorIs(t, err, ErrReferralCodeInvalid)
}

func TestRegisterRejectsDuplicatePhone(t *testing.T) {
	store, _, svc := newAuthFixture()
	referrer := seedReferrer(store)

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:         "Impostor",
		Phone:        referrer.Phone,
		Password:     "secret1234",
		ReferralCode: referrer.ReferralCode,
	})
	assert.ErrorIs(t, err, ErrPhoneAlreadyUsed)
}

func TestLogin(t *testing.T) {
	store, _, svc := newAuthFixture()
	referrer := seedReferrer(store)

	resp, err := svc.Login(context.Background(), &LoginInput{
		Phone:    referrer.Phone,
		Password: "referrer-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, claims.UserID)
	assert.Equal(t, referrer.Phone, claims.Phone)
}

func TestLoginRejections(t *testing.T) {
	store, _, svc := newAuthFixture()
	referrer := seedReferrer(store)

	_, err := svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Phone: "0899999999", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	store.users[referrer.ID].IsActive = false
	_, err = svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "referrer-pass"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefreshTokenRotation(t *testing.T) {
	store, tokens, svc := newAuthFixture()
	referrer := seedReferrer(store)

	login, err := svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "referrer-pass"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Rotation revokes the old token; replaying it must fail.
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// The new one still works.
	_, err = svc.RefreshToken(context.Background(), refreshed.RefreshToken)
	require.NoError(t, err)

	old, err := tokens.GetByTokenHash(context.Background(), password.HashToken(login.RefreshToken))
	require.NoError(t, err)
	assert.True(t, old.IsRevoked())
}

func TestRefreshTokenRejections(t *testing.T) {
	store, tokens, svc := newAuthFixture()
	referrer := seedReferrer(store)

	_, err := svc.RefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	login, err := svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "referrer-pass"})
	require.NoError(t, err)

	// A token that is valid JWT but expired in storage.
	stored, err := tokens.GetByTokenHash(context.Background(), password.HashToken(login.RefreshToken))
	require.NoError(t, err)
	tokens.tokens[stored.ID].ExpiresAt = time.Now().Add(-time.Hour)
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// An inactive user cannot refresh.
	tokens.tokens[stored.ID].ExpiresAt = time.Now().Add(time.Hour)
	store.users[referrer.ID].IsActive = false
	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLogout(t *testing.T) {
	store, _, svc := newAuthFixture()
	referrer := seedReferrer(store)

	login, err := svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "referrer-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.RefreshToken))

	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutAll(t *testing.T) {
	store, tokens, svc := newAuthFixture()
	referrer := seedReferrer(store)

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), &LoginInput{Phone: referrer.Phone, Password: "referrer-pass"})
		require.NoError(t, err)
	}

	active, err := tokens.CountActiveByUserID(context.Background(), referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), active)

	require.NoError(t, svc.LogoutAll(context.Background(), referrer.ID))

	active, err = tokens.CountActiveByUserID(context.Background(), referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), active)
}
