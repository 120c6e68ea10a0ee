package admin

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

const maxResponsePageSize = 100

func (h *Handler) responseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))
		query := r.URL.Query()

		filter := panelapp.ResponseFilter{
			SurveyID: surveyID,
			VendorID: strings.TrimSpace(query.Get("vendorId")),
			Country:  strings.TrimSpace(query.Get("country")),
		}
		if raw := strings.TrimSpace(query.Get("status")); raw != "" {
			status := domain.ResponseStatus(strings.ToUpper(raw))
			if !status.Valid() {
				common.WriteError(h.logger, w, http.StatusBadRequest, "invalid status filter")
				return
			}
			filter.Status = status.Normalize()
		}

		page := common.ParsePositiveInt(query.Get("page"), 1, 0)
		limit := common.ParsePositiveInt(query.Get("limit"), 10, maxResponsePageSize)

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		result, err := h.reportService.Responses(ctx, filter, panelapp.Paging{Page: page, Limit: limit})
		if err != nil {
			h.writeServiceError(w, "response list", surveyID, err, "failed to list responses")
			return
		}

		items := make([]responseRecordResponse, 0, len(result.Items))
		for _, record := range result.Items {
			items = append(items, responseRecordToResponse(record))
		}

		common.WriteJSON(h.logger, w, http.StatusOK, responseListResponse{
			Items: items,
			Pagination: paginationResponse{
				Total:      result.Total,
				Page:       result.Page,
				Limit:      result.Limit,
				TotalPages: result.TotalPages,
			},
		})
	}
}
