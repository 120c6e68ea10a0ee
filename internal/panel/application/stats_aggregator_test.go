package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sngm3741/panel-router/api/internal/infrastructure/memory"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsAggregator_NIncrementsCountExactly(t *testing.T) {
	repo := memory.NewStatsRepository()
	agg := panelapp.NewStatsAggregator(repo, nil)
	key := domain.StatsKey{SurveyID: "S", Country: "US", VendorID: "V1"}

	const n = 25
	for i := 0; i < n; i++ {
		require.NoError(t, agg.Increment(context.Background(), key, domain.FieldCompleted))
	}

	require.Equal(t, domain.StatsCounters{Completed: n}, repo.Row(key).Counters)
}

func TestStatsAggregator_ConcurrentIncrements(t *testing.T) {
	repo := memory.NewStatsRepository()
	agg := panelapp.NewStatsAggregator(repo, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := agg.UpdateAllLevels(context.Background(), "S", "US", "V1", domain.FieldTerminated)
			assert.True(t, result.Success())
		}()
	}
	wg.Wait()

	require.Equal(t, 50, repo.Row(domain.StatsKey{SurveyID: "S"}).Counters.Terminated)
	require.Equal(t, 50, repo.Row(domain.StatsKey{SurveyID: "S", Country: "US", VendorID: "V1"}).Counters.Terminated)
}

func TestStatsAggregator_UpdateAllLevelsSkipsMissingTiers(t *testing.T) {
	repo := memory.NewStatsRepository()
	agg := panelapp.NewStatsAggregator(repo, nil)

	require.True(t, agg.UpdateAllLevels(context.Background(), "S", "", "V1", domain.FieldInitiated).Success())
	require.NotNil(t, repo.Row(domain.StatsKey{SurveyID: "S"}))
	require.Nil(t, repo.Row(domain.StatsKey{SurveyID: "S", VendorID: "V1"}))

	require.True(t, agg.UpdateAllLevels(context.Background(), "S", "US", "", domain.FieldInitiated).Success())
	require.NotNil(t, repo.Row(domain.StatsKey{SurveyID: "S", Country: "US"}))
}

func TestStatsAggregator_PartialFailureAttemptsEveryTier(t *testing.T) {
	repo := memory.NewStatsRepository()
	repo.FailOn("overall", errors.New("overall down"))
	repo.FailOn("vendor", errors.New("vendor down"))
	agg := panelapp.NewStatsAggregator(repo, nil)

	result := agg.UpdateAllLevels(context.Background(), "S", "US", "V1", domain.FieldCompleted)
	require.False(t, result.Success())
	require.Len(t, result.Errors, 2)
	require.ErrorContains(t, result.Errors[0], "failed to update overall stats")
	require.ErrorContains(t, result.Errors[1], "failed to update vendor stats")
	require.Equal(t, 1, repo.Row(domain.StatsKey{SurveyID: "S", Country: "US"}).Counters.Completed)
}

func TestStatsAggregator_RejectsInvalidInput(t *testing.T) {
	agg := panelapp.NewStatsAggregator(memory.NewStatsRepository(), nil)

	require.Error(t, agg.Increment(context.Background(), domain.StatsKey{SurveyID: "S", VendorID: "V1"}, domain.FieldCompleted))
	require.Error(t, agg.Increment(context.Background(), domain.StatsKey{SurveyID: "S"}, domain.StatsField("quota")))
}

func TestStatsAggregator_BreakdownAndDelete(t *testing.T) {
	repo := memory.NewStatsRepository()
	agg := panelapp.NewStatsAggregator(repo, nil)
	ctx := context.Background()

	agg.UpdateAllLevels(ctx, "S", "US", "V1", domain.FieldInitiated)
	agg.UpdateAllLevels(ctx, "S", "JP", "V1", domain.FieldInitiated)
	agg.UpdateAllLevels(ctx, "OTHER", "US", "V1", domain.FieldInitiated)

	breakdown, err := agg.Breakdown(ctx, "S")
	require.NoError(t, err)
	require.Equal(t, 2, breakdown.Overall.Counters.Initiated)
	require.Len(t, breakdown.Countries, 2)
	require.Len(t, breakdown.Vendors, 2)

	require.NoError(t, agg.DeleteAll(ctx, "S"))
	breakdown, err = agg.Breakdown(ctx, "S")
	require.NoError(t, err)
	require.Nil(t, breakdown.Overall)

	other, err := agg.Breakdown(ctx, "OTHER")
	require.NoError(t, err)
	require.NotNil(t, other.Overall)
}

func TestPaging(t *testing.T) {
	require.Equal(t, panelapp.Paging{Page: 1, Limit: 10}, panelapp.Paging{}.Normalize())
	require.Equal(t, 20, panelapp.Paging{Page: 3, Limit: 10}.Skip())

	page := panelapp.NewResponsePage(nil, 21, panelapp.Paging{Page: 2, Limit: 10})
	require.Equal(t, 3, page.TotalPages)
	require.Equal(t, 0, panelapp.NewResponsePage(nil, 0, panelapp.Paging{}).TotalPages)
}
