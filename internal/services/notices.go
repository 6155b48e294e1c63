package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// NearlySoldOutSeats is the seat count at or below which a conference is announced.
const NearlySoldOutSeats = 5

const (
	announcementTemplate    = "Last chance to attend! The following conferences are nearly sold out: %s"
	featuredSpeakerTemplate = "Featured speakers: %s."
)

type noticeService struct {
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	profileRepo    domain.ProfileRepository
	cache          domain.NoticeCache
	contextTimeout time.Duration
}

// NewNoticeService creates the builders of the announcement and featured-speaker
// notices. Built notices are written to cache; an empty notice deletes its key.
func NewNoticeService(conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	profileRepo domain.ProfileRepository,
	cache domain.NoticeCache,
	timeout time.Duration,
) domain.NoticeService {
	return &noticeService{
		conferenceRepo: conferenceRepo,
		sessionRepo:    sessionRepo,
		profileRepo:    profileRepo,
		cache:          cache,
		contextTimeout: timeout,
	}
}

func (s *noticeService) BuildAnnouncement(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confs, err := s.conferenceRepo.ListNearlySoldOut(ctx, NearlySoldOutSeats)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	if len(names) == 0 {
		s.cache.Delete(ctx, domain.AnnouncementCacheKey)
		return "", nil
	}
	announcement := fmt.Sprintf(announcementTemplate, strings.Join(names, ", "))
	s.cache.Set(ctx, domain.AnnouncementCacheKey, announcement)
	return announcement, nil
}

func (s *noticeService) BuildFeaturedSpeaker(ctx context.Context, websafeConferenceKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	confKey, err := domain.DecodeKeyOfKind(websafeConferenceKey, domain.KindConference)
	if err != nil {
		return "", err
	}
	sessions, err := s.sessionRepo.ListByConferenceOrderedBySpeaker(ctx, confKey.ID)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	groups := groupBySpeaker(sessions)
	speakerIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		speakerIDs = append(speakerIDs, g.speakerID)
	}
	names, err := displayNames(ctx, s.profileRepo, speakerIDs)
	if err != nil {
		return "", err
	}

	clauses := make([]string, 0, len(groups))
	for _, g := range groups {
		name := names[g.speakerID]
		if name == "" {
			name = domain.SpeakerPlaceholder
		}
		quoted := make([]string, 0, len(g.sessions))
		for _, sessName := range g.sessions {
			quoted = append(quoted, `"`+sessName+`"`)
		}
		clauses = append(clauses, fmt.Sprintf("%s (%s)", name, strings.Join(quoted, ", ")))
	}
	if len(clauses) == 0 {
		s.cache.Delete(ctx, domain.FeaturedSpeakerCacheKey)
		return "", nil
	}
	featured := fmt.Sprintf(featuredSpeakerTemplate, strings.Join(clauses, "; "))
	s.cache.Set(ctx, domain.FeaturedSpeakerCacheKey, featured)
	return featured, nil
}

func (s *noticeService) Announcement(ctx context.Context) string {
	v, _ := s.cache.Get(ctx, domain.AnnouncementCacheKey)
	return v
}

func (s *noticeService) FeaturedSpeaker(ctx context.Context) string {
	v, _ := s.cache.Get(ctx, domain.FeaturedSpeakerCacheKey)
	return v
}

type speakerGroup struct {
	speakerID string
	sessions  []string
}

// groupBySpeaker groups runs of adjacent sessions sharing a speaker and keeps the runs
// with more than one session. Sessions without a speaker end the current run.
func groupBySpeaker(sessions []*domain.Session) []speakerGroup {
	var (
		groups []speakerGroup
		cur    speakerGroup
	)
	flush := func() {
		if cur.speakerID != "" && len(cur.sessions) > 1 {
			groups = append(groups, cur)
		}
		cur = speakerGroup{}
	}
	for _, sess := range sessions {
		if sess.SpeakerID == "" {
			flush()
			continue
		}
		if sess.SpeakerID != cur.speakerID {
			flush()
			cur.speakerID = sess.SpeakerID
		}
		cur.sessions = append(cur.sessions, sess.Name)
	}
	flush()
	return groups
}
