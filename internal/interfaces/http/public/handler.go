package public

import (
	"log"
	"time"

	"github.com/go-chi/chi/v5"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
)

// requestTimeout bounds the store round-trips of one respondent request.
const requestTimeout = 5 * time.Second

// Handler wires the public respondent endpoints to application services.
type Handler struct {
	logger    *log.Logger
	starts    panelapp.StartService
	callbacks panelapp.CallbackService
	pages     *pageRenderer
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger    *log.Logger
	Starts    panelapp.StartService
	Callbacks panelapp.CallbackService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    cfg.Logger,
		starts:    cfg.Starts,
		callbacks: cfg.Callbacks,
		pages:     newPageRenderer(cfg.Logger),
	}
}

// Register mounts the unauthenticated survey routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/surveys/start", h.surveyStartHandler())
	r.Get("/surveys/callback/{survey_id}", h.surveyCallbackHandler())
}
