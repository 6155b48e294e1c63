package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Profile    *controllers.ProfileController
	Conference *controllers.ConferenceController
	Session    *controllers.SessionController
	Wishlist   *controllers.WishlistController
	Notice     *controllers.NoticeController
}

// RouterConfig holds the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	Verifier       domain.TokenVerifier
	Logger         *slog.Logger
	AllowedOrigins []string
	CronSecret     string
}

// NewRouter registers all application routes and wraps them in CORS and request logging.
func NewRouter(c Controllers, cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	cron := middleware.RequireCronSecret(cfg.CronSecret)

	// Profiles
	mux.HandleFunc("GET /profile", auth(c.Profile.GetProfile))
	mux.HandleFunc("POST /profile", auth(c.Profile.SaveProfile))
	mux.HandleFunc("GET /profiles", auth(c.Profile.ListProfiles))

	// Conferences
	mux.HandleFunc("POST /conferences", auth(c.Conference.CreateConference))
	mux.HandleFunc("POST /conferences/query", c.Conference.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(c.Conference.ListCreated))
	mux.HandleFunc("GET /conferences/attending", auth(c.Conference.ListAttending))
	mux.HandleFunc("GET /conferences/{key}", c.Conference.GetConference)
	mux.HandleFunc("PUT /conferences/{key}", auth(c.Conference.UpdateConference))
	mux.HandleFunc("POST /conferences/{key}/registration", auth(c.Conference.Register))
	mux.HandleFunc("DELETE /conferences/{key}/registration", auth(c.Conference.Unregister))

	// Sessions
	mux.HandleFunc("POST /conferences/{key}/sessions", auth(c.Session.CreateSession))
	mux.HandleFunc("GET /conferences/{key}/sessions", c.Session.ListSessions)
	mux.HandleFunc("GET /conferences/{key}/sessions/type/{type}", c.Session.ListSessionsByType)
	mux.HandleFunc("GET /conferences/{key}/sessions/speaking", auth(c.Session.ListSpeaking))
	mux.HandleFunc("POST /conferences/{key}/sessions/query", c.Session.QuerySessions)
	mux.HandleFunc("GET /sessions/speaker/{speakerKey}", c.Session.ListSessionsBySpeaker)

	// Wishlist
	mux.HandleFunc("GET /wishlist", auth(c.Wishlist.GetWishlist))
	mux.HandleFunc("POST /wishlist/{sessionKey}", auth(c.Wishlist.AddToWishlist))
	mux.HandleFunc("DELETE /wishlist/{sessionKey}", auth(c.Wishlist.RemoveFromWishlist))

	// Notices
	mux.HandleFunc("GET /announcement", c.Notice.GetAnnouncement)
	mux.HandleFunc("GET /featured-speaker", c.Notice.GetFeaturedSpeaker)
	mux.HandleFunc("GET /crons/set-announcement", cron(c.Notice.SetAnnouncement))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(cfg.Logger, middleware.CORS(cfg.AllowedOrigins, mux))
}
