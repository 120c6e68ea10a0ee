package admin

import (
	"errors"
	"net/http"

	"github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// writeServiceError は対象アンケートが存在しなければ 404、それ以外は 500 を返す。
func (h *Handler) writeServiceError(w http.ResponseWriter, operation, surveyID string, err error, message string) {
	if errors.Is(err, domain.ErrRecordNotFound) {
		common.WriteError(h.logger, w, http.StatusNotFound, "survey not found")
		return
	}
	h.logger.Printf("admin %s failed surveyId=%s err=%v", operation, surveyID, err)
	common.WriteError(h.logger, w, http.StatusInternalServerError, message)
}
