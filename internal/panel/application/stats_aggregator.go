package application

import (
	"context"
	"fmt"
	"log"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// StatsUpdateResult reports the tiers that failed during UpdateAllLevels.
type StatsUpdateResult struct {
	Errors []error
}

// Success is true when every attempted tier was incremented.
func (r StatsUpdateResult) Success() bool {
	return len(r.Errors) == 0
}

// StatsAggregator maintains the overall/country/vendor counters of a survey.
type StatsAggregator struct {
	repo   StatsRepository
	logger *log.Logger
}

// NewStatsAggregator binds the aggregator to its store.
func NewStatsAggregator(repo StatsRepository, logger *log.Logger) *StatsAggregator {
	return &StatsAggregator{repo: repo, logger: logger}
}

// Increment adds one to a single counter of a single row, creating the row if absent.
func (a *StatsAggregator) Increment(ctx context.Context, key domain.StatsKey, field domain.StatsField) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !field.Valid() {
		return fmt.Errorf("unknown stats field %q", field)
	}
	return a.repo.Increment(ctx, key, field)
}

// UpdateAllLevels increments the overall tier, then the country tier when country is set,
// then the vendor tier when both are set. Tiers are independent: a failure is logged and
// collected, and the remaining tiers are still attempted.
func (a *StatsAggregator) UpdateAllLevels(ctx context.Context, surveyID, country, vendorID string, field domain.StatsField) StatsUpdateResult {
	keys := []domain.StatsKey{{SurveyID: surveyID}}
	if country != "" {
		keys = append(keys, domain.StatsKey{SurveyID: surveyID, Country: country})
		if vendorID != "" {
			keys = append(keys, domain.StatsKey{SurveyID: surveyID, Country: country, VendorID: vendorID})
		}
	}

	var result StatsUpdateResult
	for _, key := range keys {
		if err := a.Increment(ctx, key, field); err != nil {
			wrapped := fmt.Errorf("failed to update %s stats: %w", key.Level(), err)
			a.logf("stats increment failed survey=%s country=%q vendor=%q field=%s err=%v", key.SurveyID, key.Country, key.VendorID, field, err)
			result.Errors = append(result.Errors, wrapped)
		}
	}
	return result
}

// Breakdown returns every row of the survey partitioned by tier.
func (a *StatsAggregator) Breakdown(ctx context.Context, surveyID string) (domain.StatsBreakdown, error) {
	rows, err := a.repo.FindBySurvey(ctx, surveyID)
	if err != nil {
		return domain.StatsBreakdown{}, err
	}
	return domain.PartitionStats(rows), nil
}

// DeleteAll removes every stats row of a survey.
func (a *StatsAggregator) DeleteAll(ctx context.Context, surveyID string) error {
	return a.repo.DeleteBySurvey(ctx, surveyID)
}

func (a *StatsAggregator) logf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Printf(format, args...)
	}
}
