package services

import (
	"context"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type registrationService struct {
	profileRepo    domain.ProfileRepository
	store          domain.RegistrationStore
	contextTimeout time.Duration
}

// NewRegistrationService creates the registration ledger. Every register and unregister
// runs in a single store transaction over the caller's profile and the conference.
func NewRegistrationService(profileRepo domain.ProfileRepository, store domain.RegistrationStore, timeout time.Duration) domain.RegistrationService {
	return &registrationService{
		profileRepo:    profileRepo,
		store:          store,
		contextTimeout: timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, identity domain.Identity, websafeConferenceKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return false, err
	}
	if _, err := loadOrCreateProfile(ctx, s.profileRepo, identity); err != nil {
		return false, err
	}
	websafe := confKey.Encode()

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.RegistrationTx) error {
		profile, conf, err := lockPair(ctx, tx, identity.UserID, confKey)
		if err != nil {
			return err
		}
		if profile.ConferenceKeysToAttend.Contains(websafe) {
			return domain.ErrAlreadyRegistered
		}
		if conf.SeatsAvailable <= 0 {
			return domain.ErrNoSeatsAvailable
		}
		attending := profile.ConferenceKeysToAttend.Clone()
		attending.Add(websafe)
		if err := tx.SaveAttendance(ctx, profile.ID, attending); err != nil {
			return fmt.Errorf("save attendance: %w", err)
		}
		if err := tx.SaveSeatsAvailable(ctx, conf.ID, conf.SeatsAvailable-1); err != nil {
			return fmt.Errorf("save seats: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *registrationService) Unregister(ctx context.Context, identity domain.Identity, websafeConferenceKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return false, err
	}
	if _, err := loadOrCreateProfile(ctx, s.profileRepo, identity); err != nil {
		return false, err
	}
	websafe := confKey.Encode()

	var removed bool
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx domain.RegistrationTx) error {
		removed = false
		profile, conf, err := lockPair(ctx, tx, identity.UserID, confKey)
		if err != nil {
			return err
		}
		attending := profile.ConferenceKeysToAttend.Clone()
		if !attending.Remove(websafe) {
			return nil
		}
		if err := tx.SaveAttendance(ctx, profile.ID, attending); err != nil {
			return fmt.Errorf("save attendance: %w", err)
		}
		// Not clamped to MaxAttendees.
		if err := tx.SaveSeatsAvailable(ctx, conf.ID, conf.SeatsAvailable+1); err != nil {
			return fmt.Errorf("save seats: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// lockPair locks the profile row, then the conference row. All ledger transactions
// take locks in this order.
func lockPair(ctx context.Context, tx domain.RegistrationTx, userID string, confKey *domain.Key) (*domain.Profile, *domain.Conference, error) {
	profile, err := tx.LockProfile(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock profile: %w", err)
	}
	conf, err := tx.LockConference(ctx, confKey.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock conference: %w", err)
	}
	if conf.OrganizerUserID != confKey.Parent.ID {
		return nil, nil, fmt.Errorf("lock conference: %w", domain.ErrNotFound)
	}
	return profile, conf, nil
}
