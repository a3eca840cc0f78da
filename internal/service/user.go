package service

import (
	"context"

	"github.com/openleadr/openleadr-go/internal/auth"
	"github.com/openleadr/openleadr-go/internal/domain"
	"github.com/openleadr/openleadr-go/internal/policy"
	"github.com/openleadr/openleadr-go/internal/pkg/errors"
)

// UserService serves user and credential management. Every operation,
// reads included, requires the write_users scope.
type UserService struct {
	users       UserStore
	credentials CredentialStore

	// hashSecret is swappable so tests avoid Argon2 cost.
	hashSecret func(string) (string, error)
}

func (s *UserService) hash(secret string) (string, error) {
	if s.hashSecret != nil {
		return s.hashSecret(secret)
	}
	return auth.HashSecret(secret)
}

func validateUserContent(content domain.UserContent) error {
	if err := domain.Validate(content); err != nil {
		return err
	}
	if content.MarkerRoleCount() > 1 {
		return errors.InvalidRequest("a user may hold at most one marker role")
	}
	return nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context, caller auth.Caller, page domain.Pagination) ([]domain.User, error) {
	if err := policy.UserAccess(caller); err != nil {
		return nil, err
	}
	return s.users.List(ctx, page)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, caller auth.Caller, id string) (*domain.User, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := policy.UserAccess(caller); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, id)
}

// Create stores a new user.
func (s *UserService) Create(ctx context.Context, caller auth.Caller, content domain.UserContent) (*domain.User, error) {
	if err := validateUserContent(content); err != nil {
		return nil, err
	}
	if err := policy.UserAccess(caller); err != nil {
		return nil, err
	}
	return s.users.Create(ctx, content)
}

// Update rewrites a user.
func (s *UserService) Update(ctx context.Context, caller auth.Caller, id string, content domain.UserContent) (*domain.User, error) {
	if err := domain.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	if err := validateUserContent(content); err != nil {
		return nil, err
	}
	if err := policy.UserAccess(caller); err != nil {
		return nil, err
	}
	return s.users.Update(ctx, id, content)
}

// Delete removes a user and their credentials.
func (s *UserService) Delete(ctx context.Context, caller auth.Caller, id string) error {
	if err := domain.ValidateIdentifier(id); err != nil {
		return err
	}
	if err := policy.UserAccess(caller); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

// AddCredential hashes the secret and attaches the credential to the user.
// Duplicate client ids conflict; the plaintext secret is never stored.
func (s *UserService) AddCredential(ctx context.Context, caller auth.Caller, userID string, req domain.CredentialRequest) (*domain.User, error) {
	if err := domain.ValidateIdentifier(userID); err != nil {
		return nil, err
	}
	if err := domain.Validate(req); err != nil {
		return nil, err
	}
	if err := policy.UserAccess(caller); err != nil {
		return nil, err
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	hash, err := s.hash(req.ClientSecret)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if err := s.credentials.Add(ctx, userID, req.ClientID, hash); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, userID)
}

// DeleteCredential removes one credential from the user.
func (s *UserService) DeleteCredential(ctx context.Context, caller auth.Caller, userID, clientID string) error {
	if err := domain.ValidateIdentifier(userID); err != nil {
		return err
	}
	if err := policy.UserAccess(caller); err != nil {
		return err
	}
	return s.credentials.Delete(ctx, userID, clientID)
}
