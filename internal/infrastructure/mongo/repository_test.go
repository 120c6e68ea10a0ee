package mongo

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testCollections = Collections{Surveys: "surveys", Responses: "surveyresponses", Stats: "surveystats"}

// openTestDatabase は MONGO_TEST_URI が設定されている場合のみ使い捨て DB を用意する。
func openTestDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("panel_router_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	require.NoError(t, EnsureIndexes(ctx, db, testCollections))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestSurveyRepository_CreateFindIncrementDelete(t *testing.T) {
	db := openTestDatabase(t)
	repo := NewSurveyRepository(db, testCollections.Surveys)
	ctx := context.Background()

	psCode, err := repo.NextPsCode(ctx)
	require.NoError(t, err)
	require.Equal(t, MinPsCode, psCode)

	survey := &domain.Survey{
		SurveyID: uuid.NewString(),
		Name:     "Integration",
		PsCode:   psCode,
		Status:   domain.SurveyStatusLive,
		Countries: []domain.CountryBlock{{
			Country: "US",
			LiveURL: "https://panel.example/us",
			Vendors: []domain.VendorBlock{{
				VendorID:  "V1",
				IsActive:  true,
				Redirects: domain.VendorRedirects{CompleteRedirect: "https://vendor.example/done"},
			}},
		}},
	}
	require.NoError(t, repo.Create(ctx, survey))

	next, err := repo.NextPsCode(ctx)
	require.NoError(t, err)
	require.Equal(t, psCode+1, next)

	found, err := repo.FindBySurveyID(ctx, survey.SurveyID)
	require.NoError(t, err)
	require.Equal(t, "Integration", found.Name)
	require.Equal(t, psCode, found.PsCode)
	require.Len(t, found.Countries, 1)
	require.True(t, found.Countries[0].Vendors[0].IsActive)
	require.Equal(t, "https://vendor.example/done", found.Countries[0].Vendors[0].Redirects.CompleteRedirect)

	require.NoError(t, repo.IncrementCompletes(ctx, survey.SurveyID))
	require.NoError(t, repo.IncrementCompletes(ctx, survey.SurveyID))
	found, err = repo.FindBySurveyID(ctx, survey.SurveyID)
	require.NoError(t, err)
	require.Equal(t, 2, found.TotalCompletes)

	require.ErrorIs(t, repo.IncrementCompletes(ctx, "missing"), domain.ErrRecordNotFound)
	_, err = repo.FindBySurveyID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, repo.Delete(ctx, survey.SurveyID))
	_, err = repo.FindBySurveyID(ctx, survey.SurveyID)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestResponseRepository_ConcurrentCreateOnlyOneWins(t *testing.T) {
	db := openTestDatabase(t)
	repo := NewResponseRepository(db, testCollections.Responses)

	const callers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(context.Background(), &domain.ResponseRecord{SurveyID: "S", UID: "U1", VendorID: "V1", Country: "US"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrDuplicateResponse):
				duplicates++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, created)
	require.Equal(t, callers-1, duplicates)

	page, err := repo.List(context.Background(), panelapp.ResponseFilter{SurveyID: "S"}, panelapp.Paging{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
}

func TestResponseRepository_UpdateListCount(t *testing.T) {
	db := openTestDatabase(t)
	repo := NewResponseRepository(db, testCollections.Responses)
	ctx := context.Background()

	for _, uid := range []string{"a", "b", "c"} {
		record := &domain.ResponseRecord{SurveyID: "S", UID: uid, VendorID: "V1", Country: "US", Status: domain.StatusCompleted}
		require.NoError(t, repo.Create(ctx, record))
		require.Equal(t, domain.StatusInitiated, record.Status)
		require.NotEmpty(t, record.ID)
	}

	completedAt := time.Now().UTC()
	updated, err := repo.UpdateStatus(ctx, "b", "S", domain.StatusQuotaFull, &completedAt)
	require.NoError(t, err)
	require.Equal(t, domain.StatusQuotaFull, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	_, err = repo.UpdateStatus(ctx, "zzz", "S", domain.StatusCompleted, &completedAt)
	require.ErrorIs(t, err, domain.ErrRecordNotFound)

	counts, err := repo.CountByStatus(ctx, "S")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCounts{Initiated: 2, QuotaFull: 1}, counts)

	page, err := repo.List(ctx, panelapp.ResponseFilter{SurveyID: "S"}, panelapp.Paging{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	require.Equal(t, "c", page.Items[0].UID)

	page, err = repo.List(ctx, panelapp.ResponseFilter{SurveyID: "S", Status: domain.StatusQuotaFull}, panelapp.Paging{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "b", page.Items[0].UID)

	require.NoError(t, repo.DeleteBySurvey(ctx, "S"))
	_, err = repo.FindByUIDAndSurvey(ctx, "a", "S")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestStatsRepository_UpsertAndConcurrentIncrements(t *testing.T) {
	db := openTestDatabase(t)
	repo := NewStatsRepository(db, testCollections.Stats)
	ctx := context.Background()
	vendorKey := domain.StatsKey{SurveyID: "S", Country: "US", VendorID: "V1"}

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, vendorKey, domain.FieldCompleted)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, repo.Increment(ctx, domain.StatsKey{SurveyID: "S"}, domain.FieldInitiated))
	require.NoError(t, repo.Increment(ctx, domain.StatsKey{SurveyID: "S", Country: "US"}, domain.FieldInitiated))
	require.Error(t, repo.Increment(ctx, domain.StatsKey{SurveyID: "S", VendorID: "V1"}, domain.FieldInitiated))

	rows, err := repo.FindBySurvey(ctx, "S")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	breakdown := domain.PartitionStats(rows)
	require.Equal(t, domain.StatsCounters{Initiated: 1}, breakdown.Overall.Counters)
	require.Equal(t, domain.StatsCounters{Initiated: 1}, breakdown.Countries[0].Counters)
	require.Equal(t, domain.StatsCounters{Completed: n}, breakdown.Vendors[0].Counters)
	require.False(t, breakdown.Vendors[0].CreatedAt.IsZero())

	require.NoError(t, repo.DeleteBySurvey(ctx, "S"))
	rows, err = repo.FindBySurvey(ctx, "S")
	require.NoError(t, err)
	require.Empty(t, rows)
}
