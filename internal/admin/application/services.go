package application

import (
	"context"

	admindomain "github.com/sngm3741/panel-router/api/internal/admin/domain"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
)

// ReportService describes operator read use-cases over a survey's traffic.
type ReportService interface {
	Report(ctx context.Context, surveyID string) (*admindomain.SurveyReport, error)
	Responses(ctx context.Context, filter panelapp.ResponseFilter, paging panelapp.Paging) (*panelapp.ResponsePage, error)
}

// LinkService issues vendor entry links.
type LinkService interface {
	Links(ctx context.Context, surveyID string) ([]admindomain.VendorLink, error)
	StartURL(surveyID, vendorID, country string) (string, error)
}

// SurveyService describes operator write use-cases.
type SurveyService interface {
	Delete(ctx context.Context, surveyID string) error
}
