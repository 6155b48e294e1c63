package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

// NewWishlistService creates a WishlistService. Wishlist changes touch only the
// caller's profile, so no transaction is used.
func NewWishlistService(profileRepo domain.ProfileRepository, sessionRepo domain.SessionRepository, timeout time.Duration) domain.WishlistService {
	return &wishlistService{
		profileRepo:    profileRepo,
		sessionRepo:    sessionRepo,
		contextTimeout: timeout,
	}
}

func (s *wishlistService) AddToWishlist(ctx context.Context, identity domain.Identity, websafeSessionKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeKeyOfKind(websafeSessionKey, domain.KindSession)
	if err != nil {
		return false, err
	}
	if _, err := getSessionByKey(ctx, s.sessionRepo, key); err != nil {
		return false, err
	}
	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return false, err
	}

	wishList := profile.SessionWishList.Clone()
	if !wishList.Add(key.Encode()) {
		return false, domain.ErrAlreadyInWishlist
	}
	if err := s.profileRepo.UpdateWishList(ctx, profile.ID, wishList); err != nil {
		return false, fmt.Errorf("update wishlist: %w", err)
	}
	return true, nil
}

// RemoveFromWishlist does not require the session to exist, so keys of sessions that
// no longer resolve can still be removed.
func (s *wishlistService) RemoveFromWishlist(ctx context.Context, identity domain.Identity, websafeSessionKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeKeyOfKind(websafeSessionKey, domain.KindSession)
	if err != nil {
		return false, err
	}
	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return false, err
	}

	wishList := profile.SessionWishList.Clone()
	if !wishList.Remove(key.Encode()) {
		return false, nil
	}
	if err := s.profileRepo.UpdateWishList(ctx, profile.ID, wishList); err != nil {
		return false, fmt.Errorf("update wishlist: %w", err)
	}
	return true, nil
}

func (s *wishlistService) ListWishlist(ctx context.Context, identity domain.Identity) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(profile.SessionWishList))
	for _, websafe := range profile.SessionWishList {
		key, err := domain.DecodeKeyOfKind(websafe, domain.KindSession)
		if err != nil {
			continue
		}
		ids = append(ids, key.ID)
	}
	if len(ids) == 0 {
		return []*domain.SessionView{}, nil
	}
	sessions, err := s.sessionRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}

	byID := make(map[string]*domain.Session, len(sessions))
	for _, sess := range sessions {
		byID[sess.ID] = sess
	}
	ordered := make([]*domain.Session, 0, len(sessions))
	for _, id := range ids {
		if sess, ok := byID[id]; ok {
			ordered = append(ordered, sess)
		}
	}
	return sessionViews(ctx, s.profileRepo, ordered)
}

// getSessionByKey loads the session named by key, reporting ErrNotFound when the key's
// ancestry does not match the stored session.
func getSessionByKey(ctx context.Context, repo domain.SessionRepository, key *domain.Key) (*domain.Session, error) {
	sess, err := repo.GetByID(ctx, key.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Key().String() != key.String() {
		return nil, domain.ErrNotFound
	}
	return sess, nil
}
