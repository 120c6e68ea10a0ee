package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
)

func (h *Handler) surveyStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))
		if surveyID == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "survey id is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		report, err := h.reportService.Report(ctx, surveyID)
		if err != nil {
			h.writeServiceError(w, "survey stats", surveyID, err, "failed to load survey stats")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, surveyReportToResponse(report))
	}
}

func (h *Handler) responseCountsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		report, err := h.reportService.Report(ctx, surveyID)
		if err != nil {
			h.writeServiceError(w, "response counts", surveyID, err, "failed to count responses")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, responseCountsResponse{
			SurveyID: report.SurveyID,
			Counts:   report.Counts,
		})
	}
}
