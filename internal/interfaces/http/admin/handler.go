package admin

import (
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	adminapp "github.com/sngm3741/panel-router/api/internal/admin/application"
)

const requestTimeout = 5 * time.Second

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger        *log.Logger
	reportService adminapp.ReportService
	linkService   adminapp.LinkService
	surveyService adminapp.SurveyService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *log.Logger
	ReportService adminapp.ReportService
	LinkService   adminapp.LinkService
	SurveyService adminapp.SurveyService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:        cfg.Logger,
		reportService: cfg.ReportService,
		linkService:   cfg.LinkService,
		surveyService: cfg.SurveyService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys/{surveyId}/stats", h.surveyStatsHandler())
	r.Get("/surveys/{surveyId}/responses", h.responseListHandler())
	r.Get("/surveys/{surveyId}/responses/counts", h.responseCountsHandler())
	r.Get("/surveys/{surveyId}/links", h.vendorLinksHandler())
	r.Delete("/surveys/{surveyId}", h.surveyDeleteHandler())
}
