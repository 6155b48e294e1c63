package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, contextTimeout: timeout}
}

func (s *profileService) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return loadOrCreateProfile(ctx, s.profileRepo, identity)
}

func (s *profileService) Save(ctx context.Context, identity domain.Identity, displayName, teeShirtSize string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(displayName); name != "" {
		profile.DisplayName = name
	}
	if teeShirtSize != "" {
		size, err := domain.ParseTeeShirtSize(teeShirtSize)
		if err != nil {
			return nil, err
		}
		profile.TeeShirtSize = size
	}
	profile.UpdatedAt = time.Now()
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// loadOrCreateProfile returns the caller's profile, creating it from the identity claims
// on first access. Concurrent first accesses converge on a single row.
func loadOrCreateProfile(ctx context.Context, repo domain.ProfileRepository, identity domain.Identity) (*domain.Profile, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	profile, err := repo.GetByID(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	displayName := identity.Name
	if displayName == "" {
		displayName = identity.Email
	}
	profile = domain.NewProfile(identity.UserID, displayName, identity.Email, time.Now())
	created, err := repo.Create(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	if created {
		return profile, nil
	}
	profile, err = repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// displayNames resolves profile display names for the given user IDs. Unknown IDs are
// absent from the result.
func displayNames(ctx context.Context, repo domain.ProfileRepository, ids []string) (map[string]string, error) {
	ids = dedupe(nonEmpty(ids))
	if len(ids) == 0 {
		return map[string]string{}, nil
	}
	profiles, err := repo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	names := make(map[string]string, len(profiles))
	for id, p := range profiles {
		names[id] = p.DisplayName
	}
	return names, nil
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
