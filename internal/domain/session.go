package domain

import (
	"context"
	"fmt"
	"time"
)

// DefaultSessionDuration is used when a session is created without a duration (minutes).
const DefaultSessionDuration = 30

// TimeLayout is the wire format of a session start time.
const TimeLayout = "15:04"

// SpeakerPlaceholder is rendered for sessions without a speaker.
const SpeakerPlaceholder = "TBA"

// SessionType is the kind of a session.
type SessionType string

const (
	SessionTypeNotSpecified SessionType = "NOT_SPECIFIED"
	SessionTypeBrownbag     SessionType = "Brownbag"
	SessionTypeKeynote      SessionType = "Keynote"
	SessionTypeLecture      SessionType = "Lecture"
	SessionTypeRoundtable   SessionType = "Roundtable"
	SessionTypeWorkshop     SessionType = "Workshop"
)

var sessionTypes = []SessionType{
	SessionTypeNotSpecified, SessionTypeBrownbag, SessionTypeKeynote,
	SessionTypeLecture, SessionTypeRoundtable, SessionTypeWorkshop,
}

// ParseSessionType looks up a session type by its exact name.
func ParseSessionType(name string) (SessionType, error) {
	for _, t := range sessionTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: session type %q", ErrUnknownEnumValue, name)
}

// Session is a talk or workshop that belongs to exactly one conference.
type Session struct {
	ID              string
	ConferenceID    string
	OrganizerUserID string
	Name            string
	Highlights      string
	SpeakerID       string
	TypeOfSession   SessionType
	Date            time.Time
	Duration        int
	StartTime       time.Time
	CreatedAt       time.Time
}

// Key returns the session key under its conference key.
func (s *Session) Key() *Key {
	return SessionKey(ConferenceKey(s.OrganizerUserID, s.ConferenceID), s.ID)
}

// SpeakerKey returns the websafe profile key of the speaker, or "" when unassigned.
func (s *Session) SpeakerKey() string {
	if s.SpeakerID == "" {
		return ""
	}
	return ProfileKey(s.SpeakerID).Encode()
}

// SessionInput carries the user-supplied fields for session creation.
type SessionInput struct {
	Name          string
	Highlights    string
	Speaker       string
	TypeOfSession string
	Date          string
	Duration      int
	StartTime     string
}

// SessionView is the outbound projection of a session.
// swagger:model SessionView
type SessionView struct {
	WebsafeKey           string      `json:"websafeKey"`
	WebsafeConferenceKey string      `json:"websafeConferenceKey"`
	Name                 string      `json:"name"`
	Highlights           string      `json:"highlights"`
	Speaker              string      `json:"speaker"`
	SpeakerKey           string      `json:"speakerKey,omitempty"`
	TypeOfSession        SessionType `json:"typeOfSession"`
	Date                 string      `json:"date"`
	Duration             int         `json:"duration"`
	StartTime            string      `json:"startTime"`
}

// NewSessionView projects s. An empty speakerName renders as SpeakerPlaceholder.
func NewSessionView(s *Session, speakerName string) *SessionView {
	if speakerName == "" {
		speakerName = SpeakerPlaceholder
	}
	key := s.Key()
	return &SessionView{
		WebsafeKey:           key.Encode(),
		WebsafeConferenceKey: key.Parent.Encode(),
		Name:                 s.Name,
		Highlights:           s.Highlights,
		Speaker:              speakerName,
		SpeakerKey:           s.SpeakerKey(),
		TypeOfSession:        s.TypeOfSession,
		Date:                 s.Date.Format(DateLayout),
		Duration:             s.Duration,
		StartTime:            s.StartTime.Format(TimeLayout),
	}
}

// SessionRepository defines storage for sessions.
type SessionRepository interface {
	// Create allocates an ID for s and inserts it.
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	GetMulti(ctx context.Context, ids []string) ([]*Session, error)
	ListByConference(ctx context.Context, conferenceID string) ([]*Session, error)
	// ListByConferenceOrderedBySpeaker returns sessions sorted by speaker ID; sessions
	// without a speaker are included.
	ListByConferenceOrderedBySpeaker(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID string, t SessionType) ([]*Session, error)
	ListByConferenceAndSpeaker(ctx context.Context, conferenceID, speakerID string) ([]*Session, error)
	ListBySpeaker(ctx context.Context, speakerID string) ([]*Session, error)
	// QueryKeys returns the IDs of sessions in the conference matching the single filter.
	QueryKeys(ctx context.Context, conferenceID string, f Filter) ([]string, error)
}

// SessionService defines session creation and listing operations.
type SessionService interface {
	CreateSession(ctx context.Context, userID, websafeConferenceKey string, in SessionInput) (*SessionView, error)
	ListByConference(ctx context.Context, websafeConferenceKey string) ([]*SessionView, error)
	ListByType(ctx context.Context, websafeConferenceKey, typeOfSession string) ([]*SessionView, error)
	ListBySpeaker(ctx context.Context, websafeSpeakerKey string) ([]*SessionView, error)
	ListSpeaking(ctx context.Context, userID, websafeConferenceKey string) ([]*SessionView, error)
	QuerySessions(ctx context.Context, websafeConferenceKey string, filters []RawFilter) ([]*SessionView, error)
}

// WishlistService manages the session wishlist of a profile.
type WishlistService interface {
	AddToWishlist(ctx context.Context, identity Identity, websafeSessionKey string) (bool, error)
	RemoveFromWishlist(ctx context.Context, identity Identity, websafeSessionKey string) (bool, error)
	ListWishlist(ctx context.Context, identity Identity) ([]*SessionView, error)
}
