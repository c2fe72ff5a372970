package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Validation errors.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrEmailRequired    = errors.New("email is required")
)

// Service provides user account operations on top of a Repository.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

// ServiceConfig holds service dependencies.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
}

// NewService creates a new user service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger.With().Str("component", "user_service").Logger(),
	}
}

// List returns all users ordered by creation time.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Create validates and creates a new active user. The role is
// normalized onto the closed role set.
func (s *Service) Create(ctx context.Context, username, email, role string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	u := NewUser(username, email, NormalizeRole(role))
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID).
		Str("role", string(u.Role)).
		Msg("User created")
	return u, nil
}

// SetActive toggles whether an account receives notifications.
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	u.IsActive = active
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", u.ID).
		Bool("active", active).
		Msg("User activation changed")
	return u, nil
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("User deleted")
	return nil
}

// ActiveRecipients returns the email addresses of all active accounts,
// in listing order. Inactive accounts are never notified.
func (s *Service) ActiveRecipients(ctx context.Context) ([]string, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	recipients := make([]string, 0, len(users))
	for _, u := range users {
		if u.IsActive && u.Email != "" {
			recipients = append(recipients, u.Email)
		}
	}
	return recipients, nil
}
