package public

import (
	"context"
	"net"
	"net/http"
	"strings"

	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// surveyStartHandler はベンダーからの流入を検証し、成功時はアンケート URL へ 302 で転送する。
// 失敗はすべてエラーページ (400) として描画し、生のエラーを回答者に見せない。
func (h *Handler) surveyStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		query := r.URL.Query()
		cmd := panelapp.StartCommand{
			Token:     query.Get("token"),
			UID:       query.Get("uid"),
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		}

		result, err := h.starts.Start(ctx, cmd)
		if err != nil {
			h.renderFailure(w, "survey start", err)
			return
		}

		http.Redirect(w, r, result.SurveyURL, http.StatusFound)
	}
}

// renderFailure は業務上の拒否はそのメッセージを、基盤エラーは汎用文言を表示する。
func (h *Handler) renderFailure(w http.ResponseWriter, operation string, err error) {
	message := "An error occurred"
	if domain.IsRejection(err) {
		message = err.Error()
	} else if h.logger != nil {
		h.logger.Printf("%s failed: %v", operation, err)
	}
	h.pages.renderError(w, http.StatusBadRequest, message)
}

// clientIP は RealIP ミドルウェア適用後の RemoteAddr からポートを除いたアドレスを返す。
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
