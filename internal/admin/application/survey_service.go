package application

import (
	"context"
	"fmt"

	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
)

type surveyService struct {
	surveys   panelapp.SurveyRepository
	responses panelapp.ResponseRepository
	stats     *panelapp.StatsAggregator
}

// NewSurveyService creates a SurveyService.
func NewSurveyService(surveys panelapp.SurveyRepository, responses panelapp.ResponseRepository, stats *panelapp.StatsAggregator) SurveyService {
	return &surveyService{surveys: surveys, responses: responses, stats: stats}
}

// Delete cascades a survey removal: stats rows, ledger rows, then the survey itself.
func (s *surveyService) Delete(ctx context.Context, surveyID string) error {
	survey, err := s.surveys.FindBySurveyID(ctx, surveyID)
	if err != nil {
		return err
	}
	if err := s.stats.DeleteAll(ctx, survey.SurveyID); err != nil {
		return fmt.Errorf("delete stats: %w", err)
	}
	if err := s.responses.DeleteBySurvey(ctx, survey.SurveyID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return s.surveys.Delete(ctx, survey.SurveyID)
}
