package domain

import (
	"context"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Conference is an event owned by an organizer profile.
type Conference struct {
	ID              string
	OrganizerUserID string
	Name            string
	Description     string
	Topics          []string
	City            string
	StartDate       *time.Time
	EndDate         *time.Time
	Month           int
	MaxAttendees    int
	SeatsAvailable  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Key returns the conference key, parented by the organizer's profile key.
func (c *Conference) Key() *Key {
	return ConferenceKey(c.OrganizerUserID, c.ID)
}

// ConferenceInput carries the user-supplied conference fields for create and update.
// Empty strings, nil slices and nil pointers mean "not supplied".
type ConferenceInput struct {
	Name         string
	Description  string
	Topics       []string
	City         string
	StartDate    string
	EndDate      string
	MaxAttendees *int
}

// ConferenceView is the outbound projection of a conference.
// swagger:model ConferenceView
type ConferenceView struct {
	WebsafeKey           string   `json:"websafeKey"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerUserID      string   `json:"organizerUserId"`
	OrganizerDisplayName string   `json:"organizerDisplayName"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"startDate,omitempty"`
	EndDate              string   `json:"endDate,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"maxAttendees"`
	SeatsAvailable       int      `json:"seatsAvailable"`
}

// NewConferenceView projects c with the given organizer display name.
func NewConferenceView(c *Conference, organizerDisplayName string) *ConferenceView {
	v := &ConferenceView{
		WebsafeKey:           c.Key().Encode(),
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerUserID:      c.OrganizerUserID,
		OrganizerDisplayName: organizerDisplayName,
		Topics:               c.Topics,
		City:                 c.City,
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
	}
	if v.Topics == nil {
		v.Topics = []string{}
	}
	if c.StartDate != nil {
		v.StartDate = c.StartDate.Format(DateLayout)
	}
	if c.EndDate != nil {
		v.EndDate = c.EndDate.Format(DateLayout)
	}
	return v
}

// ConferenceRepository defines storage for conferences.
type ConferenceRepository interface {
	// Create allocates an ID for c and inserts it.
	Create(ctx context.Context, c *Conference) error
	GetByID(ctx context.Context, id string) (*Conference, error)
	GetMulti(ctx context.Context, ids []string) ([]*Conference, error)
	// Update writes the editable fields of c. SeatsAvailable moves by the change in
	// MaxAttendees and the stored count is read back into c.
	Update(ctx context.Context, c *Conference) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Conference, error)
	ListAll(ctx context.Context) ([]*Conference, error)
	// QueryKeys returns the IDs of conferences matching the single filter.
	QueryKeys(ctx context.Context, f Filter) ([]string, error)
	// ListNearlySoldOut returns conferences with 0 < seats_available <= maxSeats.
	ListNearlySoldOut(ctx context.Context, maxSeats int) ([]*Conference, error)
}

// RegistrationTx is the view of the store available inside a registration transaction.
// Lock* methods take row locks held until the transaction ends.
type RegistrationTx interface {
	LockProfile(ctx context.Context, profileID string) (*Profile, error)
	LockConference(ctx context.Context, conferenceID string) (*Conference, error)
	SaveAttendance(ctx context.Context, profileID string, keys KeySet) error
	SaveSeatsAvailable(ctx context.Context, conferenceID string, seats int) error
}

// RegistrationStore runs fn in a single transaction spanning profile and conference
// records. If fn returns an error the transaction is rolled back.
type RegistrationStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx RegistrationTx) error) error
}

// ConferenceService defines conference management operations.
type ConferenceService interface {
	CreateConference(ctx context.Context, identity Identity, in ConferenceInput) (*ConferenceView, error)
	UpdateConference(ctx context.Context, userID, websafeKey string, in ConferenceInput) (*ConferenceView, error)
	GetConference(ctx context.Context, websafeKey string) (*ConferenceView, error)
	ListCreated(ctx context.Context, userID string) ([]*ConferenceView, error)
	ListAttending(ctx context.Context, identity Identity) ([]*ConferenceView, error)
	QueryConferences(ctx context.Context, filters []RawFilter) ([]*ConferenceView, error)
}

// RegistrationService couples a profile's attendance list with a conference's seat count.
type RegistrationService interface {
	Register(ctx context.Context, identity Identity, websafeConferenceKey string) (bool, error)
	Unregister(ctx context.Context, identity Identity, websafeConferenceKey string) (bool, error)
}
