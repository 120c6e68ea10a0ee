package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/panel-router/api/internal/admin/domain"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
)

type reportService struct {
	surveys   panelapp.SurveyRepository
	responses panelapp.ResponseRepository
	stats     *panelapp.StatsAggregator
}

// NewReportService creates a ReportService.
func NewReportService(surveys panelapp.SurveyRepository, responses panelapp.ResponseRepository, stats *panelapp.StatsAggregator) ReportService {
	return &reportService{surveys: surveys, responses: responses, stats: stats}
}

func (s *reportService) Report(ctx context.Context, surveyID string) (*admindomain.SurveyReport, error) {
	survey, err := s.surveys.FindBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.stats.Breakdown(ctx, survey.SurveyID)
	if err != nil {
		return nil, err
	}
	counts, err := s.responses.CountByStatus(ctx, survey.SurveyID)
	if err != nil {
		return nil, err
	}
	return &admindomain.SurveyReport{
		SurveyID:       survey.SurveyID,
		PsCode:         survey.PsCode,
		Name:           survey.Name,
		Status:         survey.Status,
		TotalCompletes: survey.TotalCompletes,
		Stats:          breakdown,
		Counts:         counts,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

func (s *reportService) Responses(ctx context.Context, filter panelapp.ResponseFilter, paging panelapp.Paging) (*panelapp.ResponsePage, error) {
	if _, err := s.surveys.FindBySurveyID(ctx, filter.SurveyID); err != nil {
		return nil, err
	}
	return s.responses.List(ctx, filter, paging.Normalize())
}
