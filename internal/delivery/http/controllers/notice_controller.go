package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type NoticeController struct {
	Logger  *slog.Logger
	Service domain.NoticeService
}

func NewNoticeController(logger *slog.Logger, svc domain.NoticeService) *NoticeController {
	return &NoticeController{Logger: logger, Service: svc}
}

// GetAnnouncement godoc
// @Summary Get the nearly-sold-out announcement
// @Description Returns the cached announcement, or an empty string when there is none.
// @Tags notices
// @Produce json
// @Success 200 {object} controllers.StringResponse
// @Router /announcement [get]
func (c *NoticeController) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.Announcement(r.Context()))
}

// GetFeaturedSpeaker godoc
// @Summary Get the featured speaker notice
// @Description Returns the cached featured speaker notice, or an empty string when there is none.
// @Tags notices
// @Produce json
// @Success 200 {object} controllers.StringResponse
// @Router /featured-speaker [get]
func (c *NoticeController) GetFeaturedSpeaker(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, c.Service.FeaturedSpeaker(r.Context()))
}

// SetAnnouncement godoc
// @Summary Rebuild the announcement
// @Description Scheduled job endpoint. Recomputes the nearly-sold-out announcement and returns it.
// @Tags notices
// @Produce json
// @Param X-Cron-Secret header string false "Shared secret of the scheduler"
// @Success 200 {object} controllers.StringResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crons/set-announcement [get]
func (c *NoticeController) SetAnnouncement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Service.BuildAnnouncement(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, announcement)
}
