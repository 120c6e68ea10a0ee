package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

type surveyCallbackService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	stats     *StatsAggregator
	logger    *log.Logger
}

// NewCallbackService wires the callback flow to its collaborators.
func NewCallbackService(surveys SurveyRepository, responses ResponseRepository, stats *StatsAggregator, logger *log.Logger) CallbackService {
	return &surveyCallbackService{
		surveys:   surveys,
		responses: responses,
		stats:     stats,
		logger:    logger,
	}
}

// Callback records the terminal status of a started response and resolves the vendor redirect.
func (s *surveyCallbackService) Callback(ctx context.Context, cmd CallbackCommand) (*CallbackResult, error) {
	uid := strings.TrimSpace(cmd.UID)
	rawStatus := strings.TrimSpace(cmd.Status)
	if rawStatus == "" || uid == "" {
		return nil, domain.Reject(domain.ErrBadInput, "Missing required parameters: status and uid")
	}
	status, ok := domain.ParseCallbackStatus(rawStatus)
	if !ok {
		return nil, domain.Reject(domain.ErrBadInput, "Invalid status")
	}
	surveyID := strings.TrimSpace(cmd.SurveyID)
	if surveyID == "" {
		return nil, domain.Reject(domain.ErrBadInput, "Missing survey id")
	}

	survey, err := s.surveys.FindBySurveyID(ctx, surveyID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.Reject(domain.ErrNotFound, "Survey not found")
		}
		return nil, fmt.Errorf("find survey %s: %w", surveyID, err)
	}

	response, err := s.responses.FindByUIDAndSurvey(ctx, uid, survey.SurveyID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, notStarted()
		}
		return nil, fmt.Errorf("find response %s/%s: %w", survey.SurveyID, uid, err)
	}

	stored := status.Normalize()
	completedAt := time.Now().UTC()
	if _, err := s.responses.UpdateStatus(ctx, uid, survey.SurveyID, stored, &completedAt); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, notStarted()
		}
		return nil, fmt.Errorf("update response %s/%s: %w", survey.SurveyID, uid, err)
	}

	if result := s.stats.UpdateAllLevels(ctx, survey.SurveyID, response.Country, response.VendorID, stored.StatsField()); !result.Success() {
		s.logf("some stats updates failed, continuing with callback survey=%s uid=%s errors=%v", survey.SurveyID, uid, result.Errors)
	}

	if stored == domain.StatusCompleted {
		if err := s.surveys.IncrementCompletes(ctx, survey.SurveyID); err != nil {
			s.logf("totalCompletes increment failed survey=%s uid=%s err=%v", survey.SurveyID, uid, err)
		}
	}

	redirectURL := ""
	if country, ok := survey.FindCountry(response.Country); ok {
		if vendor, ok := country.FindVendor(response.VendorID); ok {
			redirectURL = vendor.Redirects.RedirectFor(stored)
		}
	}

	return &CallbackResult{
		Status:      stored,
		Message:     StatusMessage(stored),
		RedirectURL: redirectURL,
	}, nil
}

func notStarted() error {
	return domain.Reject(domain.ErrNotStarted, "Survey response not found. Please start the survey first.")
}

// StatusMessage is the respondent-facing text for a stored status.
func StatusMessage(status domain.ResponseStatus) string {
	switch status.Normalize() {
	case domain.StatusCompleted:
		return "Survey completed successfully!"
	case domain.StatusTerminated:
		return "Survey terminated."
	case domain.StatusQuotaFull:
		return "Survey quota is full."
	case domain.StatusSecurity:
		return "Security check failed."
	default:
		return "Survey status updated."
	}
}

func (s *surveyCallbackService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
