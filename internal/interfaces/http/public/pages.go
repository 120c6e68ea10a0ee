package public

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageRenderer struct {
	logger *log.Logger
}

func newPageRenderer(logger *log.Logger) *pageRenderer {
	return &pageRenderer{logger: logger}
}

type errorPage struct {
	ErrorMessage string
}

type callbackPage struct {
	Message         string
	RedirectMessage string
	RedirectURL     string
}

func (p *pageRenderer) renderError(w http.ResponseWriter, status int, message string) {
	p.render(w, status, "survey-error.html", errorPage{ErrorMessage: message})
}

func (p *pageRenderer) renderCallback(w http.ResponseWriter, message, redirectURL string) {
	page := callbackPage{
		Message:         message,
		RedirectMessage: "You can close this window now.",
		RedirectURL:     redirectURL,
	}
	if redirectURL != "" {
		page.RedirectMessage = "Redirecting you back to the vendor..."
	}
	p.render(w, http.StatusOK, "survey-callback.html", page)
}

// render は一旦バッファへ描画し、テンプレートエラー時に中途半端な HTML を返さない。
func (p *pageRenderer) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		if p.logger != nil {
			p.logger.Printf("テンプレート %s の描画に失敗: %v", name, err)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil && p.logger != nil {
		p.logger.Printf("HTML 書き込みに失敗: %v", err)
	}
}
