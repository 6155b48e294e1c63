package domain

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Entity kinds used in key paths.
const (
	KindProfile    = "Profile"
	KindConference = "Conference"
	KindSession    = "Session"
)

// ErrMalformedKey is returned when a websafe key cannot be decoded.
var ErrMalformedKey = fmt.Errorf("%w: malformed key", ErrInvalidInput)

// Key identifies an entity by kind and ID, optionally scoped under a parent key.
// Conferences live under their organizer's Profile and Sessions under their Conference.
type Key struct {
	Kind   string
	ID     string
	Parent *Key
}

// NewKey returns a key for the given kind and id under parent (which may be nil).
func NewKey(kind, id string, parent *Key) *Key {
	return &Key{Kind: kind, ID: id, Parent: parent}
}

// ProfileKey returns the root key of a user's profile.
func ProfileKey(userID string) *Key {
	return NewKey(KindProfile, userID, nil)
}

// ConferenceKey returns the key of a conference owned by organizerID.
func ConferenceKey(organizerID, conferenceID string) *Key {
	return NewKey(KindConference, conferenceID, ProfileKey(organizerID))
}

// SessionKey returns the key of a session under the given conference key.
func SessionKey(conference *Key, sessionID string) *Key {
	return NewKey(KindSession, sessionID, conference)
}

// Encode returns the opaque, URL-safe form of the key.
func (k *Key) Encode() string {
	var parts []string
	for cur := k; cur != nil; cur = cur.Parent {
		parts = append([]string{url.PathEscape(cur.Kind), url.PathEscape(cur.ID)}, parts...)
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strings.Join(parts, "/")))
}

// String implements fmt.Stringer with the readable path form.
func (k *Key) String() string {
	var parts []string
	for cur := k; cur != nil; cur = cur.Parent {
		parts = append([]string{cur.Kind, cur.ID}, parts...)
	}
	return strings.Join(parts, "/")
}

// Ancestor returns the first key of the given kind walking up from k (k included).
func (k *Key) Ancestor(kind string) *Key {
	for cur := k; cur != nil; cur = cur.Parent {
		if cur.Kind == kind {
			return cur
		}
	}
	return nil
}

// DecodeKey parses a websafe key produced by Encode.
func DecodeKey(websafe string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(websafe))
	if err != nil || len(raw) == 0 {
		return nil, ErrMalformedKey
	}
	parts := strings.Split(string(raw), "/")
	if len(parts)%2 != 0 {
		return nil, ErrMalformedKey
	}
	var key *Key
	for i := 0; i < len(parts); i += 2 {
		kind, err := url.PathUnescape(parts[i])
		if err != nil || kind == "" {
			return nil, ErrMalformedKey
		}
		id, err := url.PathUnescape(parts[i+1])
		if err != nil || id == "" {
			return nil, ErrMalformedKey
		}
		key = NewKey(kind, id, key)
	}
	return key, nil
}

// DecodeKeyOfKind decodes websafe and checks that the leaf key has the expected kind.
func DecodeKeyOfKind(websafe, kind string) (*Key, error) {
	key, err := DecodeKey(websafe)
	if err != nil {
		return nil, err
	}
	if key.Kind != kind {
		return nil, fmt.Errorf("%w: expected a %s key, got %s", ErrInvalidInput, kind, key.Kind)
	}
	switch kind {
	case KindConference:
		if key.Parent == nil || key.Parent.Kind != KindProfile {
			return nil, ErrMalformedKey
		}
	case KindSession:
		if key.Parent == nil || key.Parent.Kind != KindConference ||
			key.Parent.Parent == nil || key.Parent.Parent.Kind != KindProfile {
			return nil, ErrMalformedKey
		}
	}
	return key, nil
}
