package application

import (
	"context"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// StartService describes the vendor entry use-case.
// StartService はベンダーからの流入を検証し、回答者をアンケートへ送り出すユースケース。
type StartService interface {
	Start(ctx context.Context, cmd StartCommand) (*StartResult, error)
}

// CallbackService describes the survey platform callback use-case.
// CallbackService はアンケート基盤からの完了通知を記録し、ベンダーへの戻り先を解決する。
type CallbackService interface {
	Callback(ctx context.Context, cmd CallbackCommand) (*CallbackResult, error)
}

// StartCommand captures the query of a start request.
type StartCommand struct {
	Token     string
	UID       string
	IPAddress string
	UserAgent string
}

// StartResult is the outcome of a successful start.
type StartResult struct {
	SurveyURL string
	SurveyID  string
	PsCode    int
	Country   string
	VendorID  string
	UID       string
}

// CallbackCommand captures the path and query of a callback request.
type CallbackCommand struct {
	SurveyID string
	UID      string
	Status   string
}

// CallbackResult is the outcome of a successful callback. RedirectURL may be empty.
type CallbackResult struct {
	Status      domain.ResponseStatus
	Message     string
	RedirectURL string
}
