package domain

import (
	"context"
	"fmt"
	"time"
)

// TeeShirtSize is the shirt size stored on a profile.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = []TeeShirtSize{
	TeeShirtNotSpecified, TeeShirtXSM, TeeShirtXSW, TeeShirtSM, TeeShirtSW, TeeShirtMM, TeeShirtMW,
	TeeShirtLM, TeeShirtLW, TeeShirtXLM, TeeShirtXLW, TeeShirtXXLM, TeeShirtXXLW, TeeShirtXXXLM, TeeShirtXXXLW,
}

// ParseTeeShirtSize looks up a shirt size by name.
func ParseTeeShirtSize(name string) (TeeShirtSize, error) {
	for _, s := range teeShirtSizes {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: tee shirt size %q", ErrUnknownEnumValue, name)
}

// Profile is the per-user record holding display data and the user's
// conference attendance and session wishlist.
// swagger:model Profile
type Profile struct {
	ID                     string       `json:"-"`
	DisplayName            string       `json:"displayName"`
	MainEmail              string       `json:"mainEmail"`
	TeeShirtSize           TeeShirtSize `json:"teeShirtSize"`
	ConferenceKeysToAttend KeySet       `json:"conferenceKeysToAttend"`
	SessionWishList        KeySet       `json:"sessionWishList"`
	CreatedAt              time.Time    `json:"-"`
	UpdatedAt              time.Time    `json:"-"`
}

// NewProfile returns a profile with empty membership sets and no shirt size.
func NewProfile(userID, displayName, email string, now time.Time) *Profile {
	return &Profile{
		ID:                     userID,
		DisplayName:            displayName,
		MainEmail:              email,
		TeeShirtSize:           TeeShirtNotSpecified,
		ConferenceKeysToAttend: KeySet{},
		SessionWishList:        KeySet{},
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Key returns the profile's entity key.
func (p *Profile) Key() *Key {
	return ProfileKey(p.ID)
}

// Identity is the authenticated caller as resolved by the identity provider.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// TokenIssuer issues tokens (e.g. JWT) for an identity.
type TokenIssuer interface {
	Issue(identity Identity, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// ProfileRepository defines storage for profiles.
type ProfileRepository interface {
	// Create inserts the profile if no profile with the same ID exists.
	// It reports whether a row was inserted.
	Create(ctx context.Context, p *Profile) (bool, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetMulti(ctx context.Context, ids []string) (map[string]*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	// Update persists the display fields. Membership sets are written only by
	// UpdateWishList and the registration transaction.
	Update(ctx context.Context, p *Profile) error
	// UpdateWishList persists only the session wishlist of the profile.
	UpdateWishList(ctx context.Context, id string, wishList KeySet) error
}

// ProfileService defines profile read and update operations.
type ProfileService interface {
	GetOrCreate(ctx context.Context, identity Identity) (*Profile, error)
	Save(ctx context.Context, identity Identity, displayName string, teeShirtSize string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
}
