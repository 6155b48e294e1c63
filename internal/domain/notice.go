package domain

import "context"

// Cache keys of the computed notices.
const (
	AnnouncementCacheKey    = "RECENT_ANNOUNCEMENTS"
	FeaturedSpeakerCacheKey = "FEATURED_SPEAKER"
)

// NoticeCache is the shared key-value cache the notice builders write to.
type NoticeCache interface {
	Set(ctx context.Context, key, value string)
	Get(ctx context.Context, key string) (string, bool)
	Delete(ctx context.Context, key string)
}

// NoticeService builds and reads the announcement and featured-speaker notices.
type NoticeService interface {
	BuildAnnouncement(ctx context.Context) (string, error)
	BuildFeaturedSpeaker(ctx context.Context, websafeConferenceKey string) (string, error)
	Announcement(ctx context.Context) string
	FeaturedSpeaker(ctx context.Context) string
}
