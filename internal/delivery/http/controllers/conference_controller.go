package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

// ConferenceRequest is the request body for conference create and update.
// On update, omitted or empty fields keep their stored value.
type ConferenceRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Topics       []string `json:"topics"`
	City         string   `json:"city"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	MaxAttendees *int     `json:"maxAttendees"`
}

func (c ConferenceRequest) input() domain.ConferenceInput {
	return domain.ConferenceInput{
		Name:         c.Name,
		Description:  c.Description,
		Topics:       c.Topics,
		City:         c.City,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		MaxAttendees: c.MaxAttendees,
	}
}

// CreateConferenceRequest is the request body for POST /conferences.
type CreateConferenceRequest struct {
	ConferenceRequest
}

// Validate implements helpers.Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.MaxAttendees != nil && *c.MaxAttendees < 0 {
		errs = append(errs, "maxAttendees must not be negative")
	}
	return errs
}

// ConferenceSuccessResponse is the success envelope for a single conference.
type ConferenceSuccessResponse struct {
	Data  *domain.ConferenceView `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ConferenceListSuccessResponse is the success envelope for conference lists.
type ConferenceListSuccessResponse struct {
	Data  []*domain.ConferenceView `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type ConferenceController struct {
	Logger        *slog.Logger
	Service       domain.ConferenceService
	Registrations domain.RegistrationService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService, registrations domain.RegistrationService) *ConferenceController {
	return &ConferenceController{Logger: logger, Service: svc, Registrations: registrations}
}

// CreateConference godoc
// @Summary Create a conference
// @Description The caller becomes the organizer. A confirmation email is sent to the organizer.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conference body CreateConferenceRequest true "Conference fields"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	view, err := c.Service.CreateConference(r.Context(), identity, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, view)
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Only the organizer may update. Supplied fields overwrite stored ones; seats available shift with maxAttendees.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Param conference body ConferenceRequest true "Conference fields"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	view, err := c.Service.UpdateConference(r.Context(), identity.UserID, key, req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/{key} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	view, err := c.Service.GetConference(r.Context(), key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Returns conferences matching all filters, sorted by name. No filters returns every conference.
// @Tags conferences
// @Accept json
// @Produce json
// @Param query body QueryRequest true "Filters, e.g. {\"field\":\"CITY\",\"operator\":\"EQ\",\"value\":\"London\"}"
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/query [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	views, err := c.Service.QueryConferences(r.Context(), req.Filters)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// ListCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/created [get]
func (c *ConferenceController) ListCreated(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	views, err := c.Service.ListCreated(r.Context(), identity.UserID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// ListAttending godoc
// @Summary List conferences the caller is registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListAttending(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	views, err := c.Service.ListAttending(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// Register godoc
// @Summary Register for a conference
// @Description Adds the conference to the caller's attendance list and takes one seat.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or no seats)"
// @Failure 503 {object} helpers.APIResponse "error.code: transient_conflict"
// @Router /conferences/{key}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	registered, err := c.Registrations.Register(r.Context(), identity, key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registered)
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Returns false when the caller was not registered.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param key path string true "Websafe conference key"
// @Success 200 {object} controllers.BooleanResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: transient_conflict"
// @Router /conferences/{key}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	key, ok := pathKey(w, r, "key")
	if !ok {
		return
	}
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	removed, err := c.Registrations.Unregister(r.Context(), identity, key)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, removed)
}
