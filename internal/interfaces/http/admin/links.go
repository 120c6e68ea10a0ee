package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
)

func (h *Handler) vendorLinksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		links, err := h.linkService.Links(ctx, surveyID)
		if err != nil {
			h.writeServiceError(w, "vendor links", surveyID, err, "failed to build vendor links")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"items": links})
	}
}
