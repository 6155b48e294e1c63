package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

// fakeStore is an in-memory Entity Store implementing the profile, conference and
// session repositories plus the registration transaction.
type fakeStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	profiles    map[string]*domain.Profile
	conferences map[string]*domain.Conference
	sessions    map[string]*domain.Session
	nextID      int

	queries int   // key-only and list queries executed
	writes  int   // profile and conference writes
	txErr   error // if set, WithinTx returns it without running fn
	err     error // if set, every repository call returns it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:    make(map[string]*domain.Profile),
		conferences: make(map[string]*domain.Conference),
		sessions:    make(map[string]*domain.Session),
		nextID:      1,
	}
}

func (f *fakeStore) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	c.ConferenceKeysToAttend = p.ConferenceKeysToAttend.Clone()
	c.SessionWishList = p.SessionWishList.Clone()
	return &c
}

func cloneConference(c *domain.Conference) *domain.Conference {
	cp := *c
	cp.Topics = slices.Clone(c.Topics)
	return &cp
}

func cloneSession(s *domain.Session) *domain.Session {
	cp := *s
	return &cp
}

// addProfile seeds a profile and returns it.
func (f *fakeStore) addProfile(id, name string) *domain.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.NewProfile(id, name, id+"@example.com", time.Now())
	f.profiles[id] = p
	return cloneProfile(p)
}

// addConference seeds a conference and returns it.
func (f *fakeStore) addConference(c *domain.Conference) *domain.Conference {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = f.id("conf")
	}
	f.conferences[c.ID] = cloneConference(c)
	return c
}

// addSession seeds a session and returns it.
func (f *fakeStore) addSession(s *domain.Session) *domain.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == "" {
		s.ID = f.id("sess")
	}
	if s.TypeOfSession == "" {
		s.TypeOfSession = domain.SessionTypeNotSpecified
	}
	f.sessions[s.ID] = cloneSession(s)
	return s
}

func (f *fakeStore) seats(confID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conferences[confID].SeatsAvailable
}

func (f *fakeStore) profile(id string) *domain.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneProfile(f.profiles[id])
}

// Profiles

type fakeProfileRepo struct{ *fakeStore }

func (r fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.profiles[p.ID]; ok {
		return false, nil
	}
	r.profiles[p.ID] = cloneProfile(p)
	r.writes++
	return true, nil
}

func (r fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProfile(p), nil
}

func (r fakeProfileRepo) GetMulti(ctx context.Context, ids []string) (map[string]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make(map[string]*domain.Profile)
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = cloneProfile(p)
		}
	}
	return out, nil
}

func (r fakeProfileRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	slices.SortFunc(out, func(a, b *domain.Profile) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	stored, ok := r.profiles[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.DisplayName = p.DisplayName
	stored.MainEmail = p.MainEmail
	stored.TeeShirtSize = p.TeeShirtSize
	stored.UpdatedAt = p.UpdatedAt
	r.writes++
	return nil
}

func (r fakeProfileRepo) UpdateWishList(ctx context.Context, id string, wishList domain.KeySet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.SessionWishList = wishList.Clone()
	r.writes++
	return nil
}

// Conferences

type fakeConferenceRepo struct{ *fakeStore }

func (r fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	c.ID = r.id("conf")
	r.conferences[c.ID] = cloneConference(c)
	r.writes++
	return nil
}

func (r fakeConferenceRepo) GetByID(ctx context.Context, id string) (*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.conferences[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneConference(c), nil
}

func (r fakeConferenceRepo) GetMulti(ctx context.Context, ids []string) ([]*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Conference
	for _, id := range ids {
		if c, ok := r.conferences[id]; ok {
			out = append(out, cloneConference(c))
		}
	}
	return out, nil
}

func (r fakeConferenceRepo) Update(ctx context.Context, c *domain.Conference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	stored, ok := r.conferences[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	seats := stored.SeatsAvailable + c.MaxAttendees - stored.MaxAttendees
	if seats < 0 {
		return domain.ErrInvalidInput
	}
	c.SeatsAvailable = seats
	r.conferences[c.ID] = cloneConference(c)
	r.writes++
	return nil
}

func (r fakeConferenceRepo) list(keep func(*domain.Conference) bool) ([]*domain.Conference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.queries++
	var out []*domain.Conference
	for _, c := range r.conferences {
		if keep(c) {
			out = append(out, cloneConference(c))
		}
	}
	slices.SortFunc(out, func(a, b *domain.Conference) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (r fakeConferenceRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Conference, error) {
	return r.list(func(c *domain.Conference) bool { return c.OrganizerUserID == organizerID })
}

func (r fakeConferenceRepo) ListAll(ctx context.Context) ([]*domain.Conference, error) {
	return r.list(func(*domain.Conference) bool { return true })
}

func (r fakeConferenceRepo) ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*domain.Conference, error) {
	return r.list(func(c *domain.Conference) bool { return c.SeatsAvailable > 0 && c.SeatsAvailable <= maxSeats })
}

func (r fakeConferenceRepo) QueryKeys(ctx context.Context, f domain.Filter) ([]string, error) {
	confs, err := r.list(func(c *domain.Conference) bool { return matchConference(c, f) })
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(confs))
	for _, c := range confs {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func matchConference(c *domain.Conference, f domain.Filter) bool {
	switch f.Field {
	case domain.FieldCity:
		return compareOp(cmp.Compare(c.City, f.Value.(string)), f.Op)
	case domain.FieldTopics:
		for _, t := range c.Topics {
			if compareOp(cmp.Compare(t, f.Value.(string)), f.Op) {
				return true
			}
		}
		return false
	case domain.FieldMonth:
		return compareOp(cmp.Compare(c.Month, f.Value.(int)), f.Op)
	case domain.FieldMaxAttendees:
		return compareOp(cmp.Compare(c.MaxAttendees, f.Value.(int)), f.Op)
	}
	return false
}

// Sessions

type fakeSessionRepo struct{ *fakeStore }

func (r fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	s.ID = r.id("sess")
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r fakeSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneSession(s), nil
}

func (r fakeSessionRepo) GetMulti(ctx context.Context, ids []string) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Session
	for _, id := range ids {
		if s, ok := r.sessions[id]; ok {
			out = append(out, cloneSession(s))
		}
	}
	return out, nil
}

func (r fakeSessionRepo) list(keep func(*domain.Session) bool, order func(a, b *domain.Session) int) ([]*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.queries++
	var out []*domain.Session
	for _, s := range r.sessions {
		if keep(s) {
			out = append(out, cloneSession(s))
		}
	}
	slices.SortFunc(out, order)
	return out, nil
}

func byCreation(a, b *domain.Session) int {
	return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
}

func (r fakeSessionRepo) ListByConference(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID }, byCreation)
}

func (r fakeSessionRepo) ListByConferenceOrderedBySpeaker(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID },
		func(a, b *domain.Session) int { return cmp.Or(cmp.Compare(a.SpeakerID, b.SpeakerID), byCreation(a, b)) })
}

func (r fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conferenceID string, t domain.SessionType) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID && s.TypeOfSession == t }, byCreation)
}

func (r fakeSessionRepo) ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.ConferenceID == conferenceID && s.SpeakerID == speakerID }, byCreation)
}

func (r fakeSessionRepo) ListBySpeaker(ctx context.Context, speakerID string) ([]*domain.Session, error) {
	return r.list(func(s *domain.Session) bool { return s.SpeakerID == speakerID }, byCreation)
}

func (r fakeSessionRepo) QueryKeys(ctx context.Context, conferenceID string, f domain.Filter) ([]string, error) {
	sessions, err := r.list(func(s *domain.Session) bool {
		return s.ConferenceID == conferenceID && matchSession(s, f)
	}, byCreation)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func clockMinutes(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

func matchSession(s *domain.Session, f domain.Filter) bool {
	switch f.Field {
	case domain.FieldDuration:
		return compareOp(cmp.Compare(s.Duration, f.Value.(int)), f.Op)
	case domain.FieldDate:
		return compareOp(s.Date.Compare(f.Value.(time.Time)), f.Op)
	case domain.FieldStartTime:
		return compareOp(cmp.Compare(clockMinutes(s.StartTime), clockMinutes(f.Value.(time.Time))), f.Op)
	case domain.FieldTypeOfSession:
		return compareOp(cmp.Compare(s.TypeOfSession, f.Value.(domain.SessionType)), f.Op)
	}
	return false
}

func compareOp(c int, op domain.Operator) bool {
	switch op {
	case domain.OpEQ:
		return c == 0
	case domain.OpNE:
		return c != 0
	case domain.OpGT:
		return c > 0
	case domain.OpGTEQ:
		return c >= 0
	case domain.OpLT:
		return c < 0
	case domain.OpLTEQ:
		return c <= 0
	}
	return false
}

// Registration transaction

type fakeRegistrationStore struct{ *fakeStore }

// WithinTx serializes transactions and applies staged writes only when fn succeeds.
func (r fakeRegistrationStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.RegistrationTx) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	if r.txErr != nil {
		return r.txErr
	}
	tx := &fakeTx{
		store:      r.fakeStore,
		attendance: make(map[string]domain.KeySet),
		seats:      make(map[string]int),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, keys := range tx.attendance {
		r.profiles[id].ConferenceKeysToAttend = keys
		r.writes++
	}
	for id, seats := range tx.seats {
		r.conferences[id].SeatsAvailable = seats
		r.writes++
	}
	return nil
}

type fakeTx struct {
	store      *fakeStore
	attendance map[string]domain.KeySet
	seats      map[string]int
}

func (t *fakeTx) LockProfile(ctx context.Context, profileID string) (*domain.Profile, error) {
	return fakeProfileRepo{t.store}.GetByID(ctx, profileID)
}

func (t *fakeTx) LockConference(ctx context.Context, conferenceID string) (*domain.Conference, error) {
	return fakeConferenceRepo{t.store}.GetByID(ctx, conferenceID)
}

func (t *fakeTx) SaveAttendance(ctx context.Context, profileID string, keys domain.KeySet) error {
	t.attendance[profileID] = keys.Clone()
	return nil
}

func (t *fakeTx) SaveSeatsAvailable(ctx context.Context, conferenceID string, seats int) error {
	t.seats[conferenceID] = seats
	return nil
}

// Cache and notifications

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Set(ctx context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *fakeCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []domain.Notification
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, n domain.Notification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

// runNow runs background tasks synchronously.
func runNow(f func()) { f() }
