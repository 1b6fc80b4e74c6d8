// Package service provides the business logic for account onboarding and
// ownership-scoped project and task management, delegating persistence to
// repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the persistence operations required by the AuthService.
type UserRepository interface {
	// FindByUsername retrieves the account with the given username,
	// or apperrors.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.Account, error)
	// ExistsByUsername returns true if an account with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Create inserts a new account record. A username collision surfaces
	// as apperrors.ErrConflict.
	Create(ctx context.Context, username string, passwordHash []byte) (*models.Account, error)
}

// TokenIssuer mints a signed bearer token for a username.
type TokenIssuer interface {
	Issue(username string) (string, error)
}

// AuthService implements registration and login.
type AuthService struct {
	// repo performs the account data-layer operations.
	repo UserRepository
	// tokens issues bearer tokens for authenticated usernames.
	tokens TokenIssuer
	// bcryptCost is the cost factor for password hashing.
	bcryptCost int
}

// NewAuthService constructs an AuthService using the provided repository,
// token issuer and bcrypt cost factor.
func NewAuthService(repo UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates a new account and returns a freshly issued token so the
// caller is immediately authenticated.
//
// The username is trimmed before any check; a blank or out-of-range
// username fails with apperrors.ErrInvalidInput, a taken username with
// apperrors.ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 100 {
		return "", fmt.Errorf("%w: username must be 3-100 characters", apperrors.ErrInvalidInput)
	}
	if len(password) < 6 || len(password) > 100 {
		return "", fmt.Errorf("%w: password must be 6-100 characters", apperrors.ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("check username: %w", err)
	}
	if exists {
		return "", fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	// The store's unique index still guards against a concurrent
	// registration slipping in between the existence check and the insert.
	if _, err := s.repo.Create(ctx, username, hash); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return "", fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	return s.tokens.Issue(username)
}

// Login verifies the credentials and returns a freshly issued token.
// An unknown username and a wrong password both fail with
// apperrors.ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrUnauthenticated
		}
		return "", fmt.Errorf("find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return "", apperrors.ErrUnauthenticated
	}

	return s.tokens.Issue(account.Username)
}
