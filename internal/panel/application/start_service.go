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

type surveyStartService struct {
	surveys   SurveyRepository
	responses ResponseRepository
	stats     *StatsAggregator
	codec     TokenCodec
	logger    *log.Logger
}

// NewStartService wires the start flow to its collaborators.
func NewStartService(surveys SurveyRepository, responses ResponseRepository, stats *StatsAggregator, codec TokenCodec, logger *log.Logger) StartService {
	return &surveyStartService{
		surveys:   surveys,
		responses: responses,
		stats:     stats,
		codec:     codec,
		logger:    logger,
	}
}

// Start runs the guard chain and, only when every check passed, records the response
// and bumps the initiated counters. Stats failures never block the redirect.
func (s *surveyStartService) Start(ctx context.Context, cmd StartCommand) (*StartResult, error) {
	token := strings.TrimSpace(cmd.Token)
	uid := strings.TrimSpace(cmd.UID)
	if token == "" || uid == "" {
		return nil, domain.Reject(domain.ErrBadInput, "Missing required parameters: token and uid")
	}

	payload, err := s.codec.Decode(token)
	if err != nil {
		return nil, domain.Reject(domain.ErrInvalidLink, "Invalid or expired survey link")
	}
	if !payload.Complete() {
		return nil, domain.Reject(domain.ErrInvalidLink, "Invalid survey token payload")
	}

	survey, err := s.surveys.FindBySurveyID(ctx, payload.SurveyID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.Reject(domain.ErrNotFound, "Survey not found")
		}
		return nil, fmt.Errorf("find survey %s: %w", payload.SurveyID, err)
	}

	switch survey.Status {
	case domain.SurveyStatusClosed:
		return nil, domain.Reject(domain.ErrSurveyClosed, "This survey is closed")
	case domain.SurveyStatusPause:
		return nil, domain.Reject(domain.ErrSurveyPaused, "This survey is paused")
	}

	country, ok := survey.FindCountry(payload.Country)
	if !ok {
		return nil, domain.Reject(domain.ErrNotFound, "Country not found in survey")
	}
	vendor, ok := country.FindVendor(payload.VendorID)
	if !ok {
		return nil, domain.Reject(domain.ErrNotFound, "Vendor not found in survey")
	}
	if !vendor.IsActive {
		return nil, domain.Reject(domain.ErrVendorInactive, "This vendor is not active")
	}

	existing, err := s.responses.FindByUIDAndSurvey(ctx, uid, survey.SurveyID)
	if err != nil && !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, fmt.Errorf("find response %s/%s: %w", survey.SurveyID, uid, err)
	}
	if existing != nil {
		return nil, duplicateStart()
	}

	surveyURL := country.EntryURL()
	if surveyURL == "" {
		return nil, domain.Reject(domain.ErrMisconfiguredURL, "Survey URL is not configured for this country")
	}

	record := &domain.ResponseRecord{
		SurveyID:   survey.SurveyID,
		UID:        uid,
		PsCode:     survey.PsCode,
		VendorID:   vendor.VendorID,
		VendorName: vendor.VendorName,
		Country:    country.Country,
		Status:     domain.StatusInitiated,
		IPAddress:  strings.TrimSpace(cmd.IPAddress),
		UserAgent:  strings.TrimSpace(cmd.UserAgent),
		StartedAt:  time.Now().UTC(),
	}
	if err := s.responses.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateResponse) {
			return nil, duplicateStart()
		}
		return nil, fmt.Errorf("create response %s/%s: %w", survey.SurveyID, uid, err)
	}

	s.logf("survey started survey=%s uid=%s vendor=%s country=%s", survey.SurveyID, uid, vendor.VendorID, country.Country)

	if result := s.stats.UpdateAllLevels(ctx, survey.SurveyID, country.Country, vendor.VendorID, domain.FieldInitiated); !result.Success() {
		s.logf("some stats updates failed, continuing with redirect survey=%s uid=%s errors=%v", survey.SurveyID, uid, result.Errors)
	}

	return &StartResult{
		SurveyURL: surveyURL,
		SurveyID:  survey.SurveyID,
		PsCode:    survey.PsCode,
		Country:   country.Country,
		VendorID:  vendor.VendorID,
		UID:       uid,
	}, nil
}

func duplicateStart() error {
	return domain.Reject(domain.ErrDuplicateStart, "This uid has already started the survey")
}

func (s *surveyStartService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
