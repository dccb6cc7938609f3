package service

import (
	"context"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// ProfileRepository defines the persistence operations needed by the ProfileService.
type ProfileRepository interface {
	// GetProfileByID returns models.ErrNotFound when no profile has the id.
	GetProfileByID(ctx context.Context, id int64) (*models.Profile, error)
	// IncrementEntries atomically adds one to the counter and returns the new value.
	IncrementEntries(ctx context.Context, id int64) (int64, error)
}

// ProfileService reads profiles and counts submitted images.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService constructs a ProfileService with the provided ProfileRepository.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns the profile with the given id.
func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	return s.repo.GetProfileByID(ctx, id)
}

// IncrementEntries records one more submitted image for the profile and
// returns the new count. The counter never decreases.
func (s *ProfileService) IncrementEntries(ctx context.Context, id int64) (int64, error) {
	return s.repo.IncrementEntries(ctx, id)
}
