package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
)

func (h *Handler) surveyDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := h.surveyService.Delete(ctx, surveyID); err != nil {
			h.writeServiceError(w, "survey delete", surveyID, err, "failed to delete survey")
			return
		}

		if user, ok := common.UserFromContext(r.Context()); ok {
			h.logger.Printf("survey deleted surveyId=%s by=%s", surveyID, user.ID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
