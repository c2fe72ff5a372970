package auth_test

import (
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartaircity/smartaircity/internal/auth"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-signing-key-for-unit-tests",
		Issuer:     "https://api.smartair.city",
		Audience:   "smartaircity-api",
	})
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newJWTService()

	token, expiresAt, err := svc.GenerateAccessToken("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(auth.AccessTokenExpiry), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "https://api.smartair.city", claims.Issuer)
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	svc := newJWTService()
	other := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "a-different-key",
		Issuer:     "https://api.smartair.city",
		Audience:   "smartaircity-api",
	})

	token, _, err := svc.GenerateAccessToken("admin")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_RejectsWrongAudience(t *testing.T) {
	issuing := auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-signing-key-for-unit-tests",
		Issuer:     "https://api.smartair.city",
		Audience:   "some-other-api",
	})
	svc := newJWTService()

	token, _, err := issuing.GenerateAccessToken("admin")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newJWTService()

	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func newAuthService(username, password string) *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService:    newJWTService(),
		AdminUsername: username,
		AdminPassword: password,
		Logger:        zerolog.New(io.Discard),
	})
}

func TestService_Login(t *testing.T) {
	svc := newAuthService("admin", "s3cret")

	pair, err := svc.Login("admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestService_Login_BadCredentials(t *testing.T) {
	svc := newAuthService("admin", "s3cret")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Login("intruder", "s3cret")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_NoPasswordConfigured(t *testing.T) {
	svc := newAuthService("admin", "")

	// An empty configured password disables login entirely rather than
	// matching an empty submission.
	_, err := svc.Login("admin", "")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}
