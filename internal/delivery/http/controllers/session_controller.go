package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// CreateSessionRequest is the request body for POST /conferences/{key}/sessions.
type CreateSessionRequest struct {
	Name          string `json:"name"`
	Highlights    string `json:"highlights"`
	Speaker       string `json:"speaker"`
	TypeOfSession string `json:"typeOfSession"`
	Date          string `json:"date"`
	Duration      int    `json:"duration"`
	StartTime     string `json:"startTime"`
}

// Validate implements helpers.Validator.
func (c CreateSessionRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Date == "" {
		errs = append(errs, "date is required")
	}
	if c.StartTime == "" {
		errs = append(errs, "startTime is required")
	}
	if c.Duration < 0 {
		errs = append(errs, "duration must not be negative")
	}
	return errs
}

// SessionSuccessResponse is the success envelope for a single session.
type SessionSuccessResponse struct {
	Data  *domain.SessionView `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// SessionListSuccessResponse is the success envelope for session lists.
type SessionListSuccessResponse struct {
	Data  []*domain.SessionView `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Service: svc}
}

// CreateSession godoc
// @Summary Create a session
// @Description Only the conference organizer may add sessions. The speaker, when given, is a websafe profile key.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Param session body CreateSessionRequest true "Session fields"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	view, err := c.Service.CreateSession(r.Context(), identity.UserID, key, domain.SessionInput{
		Name:          req.Name,
		Highlights:    req.Highlights,
		Speaker:       req.Speaker,
		TypeOfSession: req.TypeOfSession,
		Date:          req.Date,
		Duration:      req.Duration,
		StartTime:     req.StartTime,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// ListSessions godoc
// @Summary List the sessions of a conference
// @Tags sessions
// @Produce json
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key}/sessions [get]
func (c *SessionController) ListSessions(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	views, err := c.Service.ListByConference(r.Context(), key)
	c.writeList(w, r, views, err)
}

// ListSessionsByType godoc
// @Summary List the sessions of a conference with the given type
// @Tags sessions
// @Produce json
// @Param key path string true "Websafe conference key"
// @Param type path string true "Session type" Enums(NOT_SPECIFIED, Brownbag, Keynote, Lecture, Roundtable, Workshop)
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key}/sessions/type/{type} [get]
func (c *SessionController) ListSessionsByType(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	typeOfSession, ok := pathKey(w, r, "type")
	if !ok {
		return
	}
	views, err := c.Service.ListByType(r.Context(), key, typeOfSession)
	c.writeList(w, r, views, err)
}

// ListSpeaking godoc
// @Summary List the caller's sessions in a conference
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key}/sessions/speaking [get]
func (c *SessionController) ListSpeaking(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	views, err := c.Service.ListSpeaking(r.Context(), identity.UserID, key)
	c.writeList(w, r, views, err)
}

// ListSessionsBySpeaker godoc
// @Summary List sessions given by a speaker across all conferences
// @Tags sessions
// @Produce json
// @Param speakerKey path string true "Websafe profile key of the speaker"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /sessions/speaker/{speakerKey} [get]
func (c *SessionController) ListSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	speakerKey, ok := pathKey(w, r, "speakerKey")
	if !ok {
		return
	}
	views, err := c.Service.ListBySpeaker(r.Context(), speakerKey)
	c.writeList(w, r, views, err)
}

// QuerySessions godoc
// @Summary Query the sessions of a conference
// @Description Returns sessions matching all filters, sorted by name. typeOfSession accepts only EQ and NE.
// @Tags sessions
// @Accept json
// @Produce json
// @Param key path string true "Websafe conference key"
// @Param query body QueryRequest true "Filters, e.g. {\"field\":\"DURATION\",\"operator\":\"GT\",\"value\":\"30\"}"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key}/sessions/query [post]
func (c *SessionController) QuerySessions(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	views, err := c.Service.QuerySessions(r.Context(), key, req.Filters)
	c.writeList(w, r, views, err)
}

func (c *SessionController) writeList(w http.ResponseWriter, r *http.Request, views []*domain.SessionView, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}
