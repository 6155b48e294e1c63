package controllers

import (
	"context"
	"io"
	"log/slog"

	"conferencecentral/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testIdentity = domain.Identity{UserID: "user-123", Email: "una@example.com", Name: "Una"}

type fakeProfileService struct {
	profile      *domain.Profile
	profiles     []*domain.Profile
	err          error
	lastIdentity domain.Identity
	lastName     string
	lastSize     string
}

func (f *fakeProfileService) GetOrCreate(_ context.Context, identity domain.Identity) (*domain.Profile, error) {
	f.lastIdentity = identity
	return f.profile, f.err
}

func (f *fakeProfileService) Save(_ context.Context, identity domain.Identity, displayName, teeShirtSize string) (*domain.Profile, error) {
	f.lastIdentity, f.lastName, f.lastSize = identity, displayName, teeShirtSize
	return f.profile, f.err
}

func (f *fakeProfileService) List(context.Context) ([]*domain.Profile, error) {
	return f.profiles, f.err
}

type fakeConferenceService struct {
	view         *domain.ConferenceView
	views        []*domain.ConferenceView
	err          error
	lastIdentity domain.Identity
	lastUserID   string
	lastKey      string
	lastInput    domain.ConferenceInput
	lastFilters  []domain.RawFilter
}

func (f *fakeConferenceService) CreateConference(_ context.Context, identity domain.Identity, in domain.ConferenceInput) (*domain.ConferenceView, error) {
	f.lastIdentity, f.lastInput = identity, in
	return f.view, f.err
}

func (f *fakeConferenceService) UpdateConference(_ context.Context, userID, key string, in domain.ConferenceInput) (*domain.ConferenceView, error) {
	f.lastUserID, f.lastKey, f.lastInput = userID, key, in
	return f.view, f.err
}

func (f *fakeConferenceService) GetConference(_ context.Context, key string) (*domain.ConferenceView, error) {
	f.lastKey = key
	return f.view, f.err
}

func (f *fakeConferenceService) ListCreated(_ context.Context, userID string) ([]*domain.ConferenceView, error) {
	f.lastUserID = userID
	return f.views, f.err
}

func (f *fakeConferenceService) ListAttending(_ context.Context, identity domain.Identity) ([]*domain.ConferenceView, error) {
	f.lastIdentity = identity
	return f.views, f.err
}

func (f *fakeConferenceService) QueryConferences(_ context.Context, filters []domain.RawFilter) ([]*domain.ConferenceView, error) {
	f.lastFilters = filters
	return f.views, f.err
}

type fakeRegistrationService struct {
	result       bool
	err          error
	lastIdentity domain.Identity
	lastKey      string
}

func (f *fakeRegistrationService) Register(_ context.Context, identity domain.Identity, key string) (bool, error) {
	f.lastIdentity, f.lastKey = identity, key
	return f.result, f.err
}

func (f *fakeRegistrationService) Unregister(_ context.Context, identity domain.Identity, key string) (bool, error) {
	f.lastIdentity, f.lastKey = identity, key
	return f.result, f.err
}

type fakeSessionService struct {
	view        *domain.SessionView
	views       []*domain.SessionView
	err         error
	lastUserID  string
	lastKey     string
	lastType    string
	lastInput   domain.SessionInput
	lastFilters []domain.RawFilter
}

func (f *fakeSessionService) CreateSession(_ context.Context, userID, key string, in domain.SessionInput) (*domain.SessionView, error) {
	f.lastUserID, f.lastKey, f.lastInput = userID, key, in
	return f.view, f.err
}

func (f *fakeSessionService) ListByConference(_ context.Context, key string) ([]*domain.SessionView, error) {
	f.lastKey = key
	return f.views, f.err
}

func (f *fakeSessionService) ListByType(_ context.Context, key, typeOfSession string) ([]*domain.SessionView, error) {
	f.lastKey, f.lastType = key, typeOfSession
	return f.views, f.err
}

func (f *fakeSessionService) ListBySpeaker(_ context.Context, speakerKey string) ([]*domain.SessionView, error) {
	f.lastKey = speakerKey
	return f.views, f.err
}

func (f *fakeSessionService) ListSpeaking(_ context.Context, userID, key string) ([]*domain.SessionView, error) {
	f.lastUserID, f.lastKey = userID, key
	return f.views, f.err
}

func (f *fakeSessionService) QuerySessions(_ context.Context, key string, filters []domain.RawFilter) ([]*domain.SessionView, error) {
	f.lastKey, f.lastFilters = key, filters
	return f.views, f.err
}

type fakeWishlistService struct {
	result       bool
	views        []*domain.SessionView
	err          error
	lastIdentity domain.Identity
	lastKey      string
}

func (f *fakeWishlistService) AddToWishlist(_ context.Context, identity domain.Identity, key string) (bool, error) {
	f.lastIdentity, f.lastKey = identity, key
	return f.result, f.err
}

func (f *fakeWishlistService) RemoveFromWishlist(_ context.Context, identity domain.Identity, key string) (bool, error) {
	f.lastIdentity, f.lastKey = identity, key
	return f.result, f.err
}

func (f *fakeWishlistService) ListWishlist(_ context.Context, identity domain.Identity) ([]*domain.SessionView, error) {
	f.lastIdentity = identity
	return f.views, f.err
}

type fakeNoticeService struct {
	announcement    string
	featuredSpeaker string
	built           string
	err             error
	buildCalls      int
}

func (f *fakeNoticeService) BuildAnnouncement(context.Context) (string, error) {
	f.buildCalls++
	return f.built, f.err
}

func (f *fakeNoticeService) BuildFeaturedSpeaker(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeNoticeService) Announcement(context.Context) string { return f.announcement }

func (f *fakeNoticeService) FeaturedSpeaker(context.Context) string { return f.featuredSpeaker }
