// Package service provides registration, sign-in and profile business logic,
// delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// HashCost is the bcrypt work factor used for every stored password.
const HashCost = 10

// AuthRepository defines the persistence operations
// required by the authentication service.
type AuthRepository interface {
	// Register stores the credential and creates the profile atomically.
	// A duplicate email yields models.ErrConflict.
	Register(ctx context.Context, email, name, hash string) (*models.Profile, error)
	// FindCredential returns models.ErrNotFound for an unknown email.
	FindCredential(ctx context.Context, email string) (*models.Credential, error)
	// GetProfileByEmail returns models.ErrNotFound when no profile exists.
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
}

// Service implements registration and sign-in by delegating
// to an AuthRepository.
type Service struct {
	// repo performs the data-layer operations.
	repo AuthRepository

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService constructs a new Service using the provided repository.
func NewAuthService(repo AuthRepository) *Service {
	return &Service{repo: repo}
}

// Register hashes the password and creates the credential and profile.
// It returns models.ErrInvalidInput when a field is empty and
// models.ErrConflict when the email is taken.
func (s *Service) Register(ctx context.Context, email, name, password string) (*models.Profile, error) {
	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("%w: email, name and password are required", models.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Register(ctx, email, name, string(hash))
}

// SignIn checks the password against the stored hash and returns the
// profile. Unknown emails and wrong passwords both yield models.ErrAuthFailed.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.Profile, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrInvalidInput)
	}

	cred, err := s.repo.FindCredential(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Spend the same bcrypt time as a real check.
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, models.ErrAuthFailed
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.Hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.ErrAuthFailed
		}
		return nil, fmt.Errorf("compare hash: %w", err)
	}

	profile, err := s.repo.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sign in: load profile: %w", err)
	}
	return profile, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("smartbrain-dummy-password"), HashCost)
	})
	return s.dummyHash
}
