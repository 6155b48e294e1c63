package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type sessionService struct {
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	profileRepo    domain.ProfileRepository
	notices        domain.NoticeService
	logger         *slog.Logger
	contextTimeout time.Duration
	// runTask starts background work; tests replace it to run synchronously.
	runTask func(func())
}

// NewSessionService creates a SessionService. Creating a session with a speaker rebuilds
// the featured-speaker notice of its conference in the background.
func NewSessionService(conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	profileRepo domain.ProfileRepository,
	notices domain.NoticeService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		conferenceRepo: conferenceRepo,
		sessionRepo:    sessionRepo,
		profileRepo:    profileRepo,
		notices:        notices,
		logger:         logger,
		contextTimeout: timeout,
		runTask:        func(f func()) { go f() },
	}
}

func (s *sessionService) CreateSession(ctx context.Context, userID, websafeConferenceKey string, in domain.SessionInput) (*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, confKey)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != userID {
		return nil, fmt.Errorf("%w: only the owner can add sessions to the conference", domain.ErrForbidden)
	}

	sess, err := buildSession(conf, in)
	if err != nil {
		return nil, err
	}
	var speakerName string
	if in.Speaker != "" {
		speakerKey, err := domain.DecodeKeyOfKind(in.Speaker, domain.KindProfile)
		if err != nil {
			return nil, err
		}
		speaker, err := s.profileRepo.GetByID(ctx, speakerKey.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("speaker: %w", domain.ErrNotFound)
			}
			return nil, fmt.Errorf("get speaker: %w", err)
		}
		sess.SpeakerID = speaker.ID
		speakerName = speaker.DisplayName
	}

	sess.CreatedAt = time.Now()
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if sess.SpeakerID != "" {
		s.rebuildFeaturedSpeaker(ctx, confKey.Encode())
	}
	return domain.NewSessionView(sess, speakerName), nil
}

func (s *sessionService) rebuildFeaturedSpeaker(ctx context.Context, websafeConferenceKey string) {
	ctx = context.WithoutCancel(ctx)
	s.runTask(func() {
		ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
		defer cancel()
		if _, err := s.notices.BuildFeaturedSpeaker(ctx, websafeConferenceKey); err != nil {
			s.logger.ErrorContext(ctx, "featured speaker rebuild failed", "conference", websafeConferenceKey, "err", err)
		}
	})
}

// buildSession validates in against conf and returns the session to insert.
func buildSession(conf *domain.Conference, in domain.SessionInput) (*domain.Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	if in.Date == "" {
		return nil, fmt.Errorf("%w: session 'date' field required", domain.ErrInvalidInput)
	}
	date, err := time.Parse(domain.DateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if in.StartTime == "" {
		return nil, fmt.Errorf("%w: session 'startTime' field required", domain.ErrInvalidInput)
	}
	startTime, err := time.Parse(domain.TimeLayout, in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be HH:MM", domain.ErrInvalidInput)
	}
	if conf.StartDate != nil && conf.EndDate != nil &&
		(date.Before(*conf.StartDate) || date.After(*conf.EndDate)) {
		return nil, fmt.Errorf("%w: session date must be between %s and %s", domain.ErrInvalidInput,
			conf.StartDate.Format(domain.DateLayout), conf.EndDate.Format(domain.DateLayout))
	}

	typeOfSession := domain.SessionTypeNotSpecified
	if in.TypeOfSession != "" {
		if typeOfSession, err = domain.ParseSessionType(in.TypeOfSession); err != nil {
			return nil, err
		}
	}
	duration := in.Duration
	switch {
	case duration == 0:
		duration = domain.DefaultSessionDuration
	case duration < 0:
		return nil, fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	}

	return &domain.Session{
		ConferenceID:    conf.ID,
		OrganizerUserID: conf.OrganizerUserID,
		Name:            name,
		Highlights:      in.Highlights,
		TypeOfSession:   typeOfSession,
		Date:            date,
		Duration:        duration,
		StartTime:       startTime,
	}, nil
}

func (s *sessionService) ListByConference(ctx context.Context, websafeConferenceKey string) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, confKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConference(ctx, conf.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessionViews(ctx, s.profileRepo, sortSessionsByName(sessions))
}

func (s *sessionService) ListByType(ctx context.Context, websafeConferenceKey, typeOfSession string) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, err := domain.ParseSessionType(typeOfSession)
	if err != nil {
		return nil, err
	}
	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, confKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conf.ID, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessionViews(ctx, s.profileRepo, sortSessionsByName(sessions))
}

func (s *sessionService) ListBySpeaker(ctx context.Context, websafeSpeakerKey string) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speakerKey, err := domain.DecodeKeyOfKind(websafeSpeakerKey, domain.KindProfile)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListBySpeaker(ctx, speakerKey.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessionViews(ctx, s.profileRepo, sortSessionsByName(sessions))
}

func (s *sessionService) ListSpeaking(ctx context.Context, userID, websafeConferenceKey string) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, confKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndSpeaker(ctx, conf.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by speaker: %w", err)
	}
	return sessionViews(ctx, s.profileRepo, sortSessionsByName(sessions))
}

func (s *sessionService) QuerySessions(ctx context.Context, websafeConferenceKey string, raw []domain.RawFilter) ([]*domain.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filters, err := TranslateFilters(domain.FilterKindSession, raw)
	if err != nil {
		return nil, err
	}
	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, confKey)
	if err != nil {
		return nil, err
	}

	ids, matchAll, err := conjunctiveQuery(ctx, filters, func(ctx context.Context, f domain.Filter) ([]string, error) {
		return s.sessionRepo.QueryKeys(ctx, conf.ID, f)
	})
	if err != nil {
		return nil, err
	}

	var sessions []*domain.Session
	switch {
	case matchAll:
		sessions, err = s.sessionRepo.ListByConference(ctx, conf.ID)
	case len(ids) > 0:
		slices.Sort(ids)
		sessions, err = s.sessionRepo.GetMulti(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	return sessionViews(ctx, s.profileRepo, sortSessionsByName(sessions))
}

// getConferenceByKey loads the conference named by key, reporting ErrNotFound when the
// key's organizer does not own the stored conference.
func getConferenceByKey(ctx context.Context, repo domain.ConferenceRepository, key *domain.Key) (*domain.Conference, error) {
	conf, err := repo.GetByID(ctx, key.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no conference found with key %s: %w", key.Encode(), err)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	if conf.OrganizerUserID != key.Parent.ID {
		return nil, fmt.Errorf("no conference found with key %s: %w", key.Encode(), domain.ErrNotFound)
	}
	return conf, nil
}

func sortSessionsByName(sessions []*domain.Session) []*domain.Session {
	slices.SortStableFunc(sessions, func(a, b *domain.Session) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sessions
}

// sessionViews projects sessions, resolving speaker display names in one batch.
func sessionViews(ctx context.Context, profileRepo domain.ProfileRepository, sessions []*domain.Session) ([]*domain.SessionView, error) {
	speakerIDs := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		speakerIDs = append(speakerIDs, sess.SpeakerID)
	}
	names, err := displayNames(ctx, profileRepo, speakerIDs)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, domain.NewSessionView(sess, names[sess.SpeakerID]))
	}
	return views, nil
}
