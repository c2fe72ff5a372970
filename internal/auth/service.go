package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidCredentials is returned when a login attempt fails. The
// same error covers bad usernames and bad passwords so responses do
// not reveal which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service handles admin sign-in and token validation.
type Service struct {
	jwt           *JWTService
	adminUsername string
	adminPassword string
	logger        zerolog.Logger
}

// ServiceConfig holds service dependencies.
type ServiceConfig struct {
	JWTService    *JWTService
	AdminUsername string
	AdminPassword string
	Logger        zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwt:           cfg.JWTService,
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		logger:        cfg.Logger.With().Str("component", "auth_service").Logger(),
	}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Login checks the credential pair and issues an access token.
func (s *Service) Login(username, password string) (*TokenPair, error) {
	if s.adminPassword == "" {
		s.logger.Warn().Msg("Login rejected, no admin password configured")
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	if !userOK || !passOK {
		s.logger.Warn().Str("username", username).Msg("Login failed")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(username)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Msg("Admin logged in")
	return &TokenPair{AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(token string) (*JWTClaims, error) {
	return s.jwt.ValidateAccessToken(token)
}
