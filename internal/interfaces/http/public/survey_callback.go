package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
)

// surveyCallbackHandler はアンケート基盤からの戻りを記録し、確認ページを描画する。
// 戻り先 URL があれば 2 秒後にクライアント側でベンダーへ遷移させる。
func (h *Handler) surveyCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		query := r.URL.Query()
		cmd := panelapp.CallbackCommand{
			SurveyID: chi.URLParam(r, "survey_id"),
			UID:      query.Get("uid"),
			Status:   query.Get("status"),
		}

		result, err := h.callbacks.Callback(ctx, cmd)
		if err != nil {
			h.renderFailure(w, "survey callback", err)
			return
		}

		h.pages.renderCallback(w, result.Message, result.RedirectURL)
	}
}
