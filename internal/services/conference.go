package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Defaults applied to fields omitted on conference creation.
var (
	defaultCity   = "Default City"
	defaultTopics = []string{"Default", "Topic"}
)

// ConferenceCreatedTemplate is the email template of the creation confirmation.
const ConferenceCreatedTemplate = "conference_created"

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
}

// NewConferenceService creates a ConferenceService. A confirmation notification is
// dispatched to the organizer for every created conference.
func NewConferenceService(conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	dispatcher domain.NotificationDispatcher,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, identity domain.Identity, in domain.ConferenceInput) (*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}

	now := time.Now()
	conf := &domain.Conference{
		OrganizerUserID: profile.ID,
		City:            defaultCity,
		Topics:          slices.Clone(defaultTopics),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := mergeConference(conf, in); err != nil {
		return nil, err
	}
	conf.SeatsAvailable = conf.MaxAttendees

	if err := s.conferenceRepo.Create(ctx, conf); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	if recipient := profile.MainEmail; recipient != "" {
		s.dispatcher.Dispatch(ctx, domain.Notification{
			Recipient: recipient,
			Template:  ConferenceCreatedTemplate,
			Data: &domain.ConferenceCreatedEmailData{
				Email:          recipient,
				DisplayName:    profile.DisplayName,
				ConferenceName: conf.Name,
				ConferenceInfo: conferenceInfo(conf),
			},
		})
	}
	return domain.NewConferenceView(conf, profile.DisplayName), nil
}

func (s *conferenceService) UpdateConference(ctx context.Context, userID, websafeKey string, in domain.ConferenceInput) (*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	key, err := domain.DecodeKeyOfKind(websafeKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, key)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != userID {
		return nil, fmt.Errorf("%w: only the owner can update the conference", domain.ErrForbidden)
	}

	previousMax := conf.MaxAttendees
	if err := mergeConference(conf, in); err != nil {
		return nil, err
	}
	// Seats already taken stay taken when capacity changes.
	conf.SeatsAvailable += conf.MaxAttendees - previousMax
	if conf.SeatsAvailable < 0 {
		return nil, fmt.Errorf("%w: maxAttendees is below the number of registered attendees", domain.ErrInvalidInput)
	}
	conf.UpdatedAt = time.Now()

	if err := s.conferenceRepo.Update(ctx, conf); err != nil {
		return nil, fmt.Errorf("update conference: %w", err)
	}
	views, err := conferenceViews(ctx, s.profileRepo, []*domain.Conference{conf})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *conferenceService) GetConference(ctx context.Context, websafeKey string) (*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeKeyOfKind(websafeKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := getConferenceByKey(ctx, s.conferenceRepo, key)
	if err != nil {
		return nil, err
	}
	views, err := conferenceViews(ctx, s.profileRepo, []*domain.Conference{conf})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *conferenceService) ListCreated(ctx context.Context, userID string) ([]*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	confs, err := s.conferenceRepo.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	return conferenceViews(ctx, s.profileRepo, sortConferencesByName(confs))
}

// ListAttending returns the conferences the caller registered for, in registration order.
func (s *conferenceService) ListAttending(ctx context.Context, identity domain.Identity) ([]*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(profile.ConferenceKeysToAttend))
	for _, websafe := range profile.ConferenceKeysToAttend {
		key, err := domain.DecodeKeyOfKind(websafe, domain.KindConference)
		if err != nil {
			continue
		}
		ids = append(ids, key.ID)
	}
	if len(ids) == 0 {
		return []*domain.ConferenceView{}, nil
	}
	confs, err := s.conferenceRepo.GetMulti(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	byID := make(map[string]*domain.Conference, len(confs))
	for _, c := range confs {
		byID[c.ID] = c
	}
	ordered := make([]*domain.Conference, 0, len(confs))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return conferenceViews(ctx, s.profileRepo, ordered)
}

func (s *conferenceService) QueryConferences(ctx context.Context, raw []domain.RawFilter) ([]*domain.ConferenceView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filters, err := TranslateFilters(domain.FilterKindConference, raw)
	if err != nil {
		return nil, err
	}
	ids, matchAll, err := conjunctiveQuery(ctx, filters, s.conferenceRepo.QueryKeys)
	if err != nil {
		return nil, err
	}

	var confs []*domain.Conference
	switch {
	case matchAll:
		confs, err = s.conferenceRepo.ListAll(ctx)
	case len(ids) > 0:
		slices.Sort(ids)
		confs, err = s.conferenceRepo.GetMulti(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	return conferenceViews(ctx, s.profileRepo, sortConferencesByName(confs))
}

// mergeConference copies the supplied fields of in onto conf. A supplied start date
// recomputes the month.
func mergeConference(conf *domain.Conference, in domain.ConferenceInput) error {
	if name := strings.TrimSpace(in.Name); name != "" {
		conf.Name = name
	}
	if in.Description != "" {
		conf.Description = in.Description
	}
	if len(in.Topics) > 0 {
		conf.Topics = slices.Clone(in.Topics)
	}
	if in.City != "" {
		conf.City = in.City
	}
	if in.StartDate != "" {
		d, err := time.Parse(domain.DateLayout, in.StartDate)
		if err != nil {
			return fmt.Errorf("%w: startDate must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		conf.StartDate = &d
	}
	if in.EndDate != "" {
		d, err := time.Parse(domain.DateLayout, in.EndDate)
		if err != nil {
			return fmt.Errorf("%w: endDate must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		conf.EndDate = &d
	}
	if conf.StartDate != nil && conf.EndDate != nil && conf.EndDate.Before(*conf.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", domain.ErrInvalidInput)
	}
	if in.MaxAttendees != nil {
		if *in.MaxAttendees < 0 {
			return fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
		}
		conf.MaxAttendees = *in.MaxAttendees
	}
	conf.Month = 0
	if conf.StartDate != nil {
		conf.Month = int(conf.StartDate.Month())
	}
	return nil
}

// conferenceInfo renders the conference fields for the confirmation email body.
func conferenceInfo(c *domain.Conference) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&b, "City: %s\n", c.City)
	fmt.Fprintf(&b, "Topics: %s\n", strings.Join(c.Topics, ", "))
	if c.StartDate != nil {
		fmt.Fprintf(&b, "Start date: %s\n", c.StartDate.Format(domain.DateLayout))
	}
	if c.EndDate != nil {
		fmt.Fprintf(&b, "End date: %s\n", c.EndDate.Format(domain.DateLayout))
	}
	fmt.Fprintf(&b, "Max attendees: %d\n", c.MaxAttendees)
	return b.String()
}

func sortConferencesByName(confs []*domain.Conference) []*domain.Conference {
	slices.SortStableFunc(confs, func(a, b *domain.Conference) int {
		return strings.Compare(a.Name, b.Name)
	})
	return confs
}

// conferenceViews projects conferences, resolving organizer display names in one batch.
func conferenceViews(ctx context.Context, profileRepo domain.ProfileRepository, confs []*domain.Conference) ([]*domain.ConferenceView, error) {
	organizerIDs := make([]string, 0, len(confs))
	for _, c := range confs {
		organizerIDs = append(organizerIDs, c.OrganizerUserID)
	}
	names, err := displayNames(ctx, profileRepo, organizerIDs)
	if err != nil {
		return nil, err
	}
	views := make([]*domain.ConferenceView, 0, len(confs))
	for _, c := range confs {
		views = append(views, domain.NewConferenceView(c, names[c.OrganizerUserID]))
	}
	return views, nil
}
