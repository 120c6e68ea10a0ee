package application_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/sngm3741/panel-router/api/internal/config"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/memory"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/surveytoken"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"github.com/stretchr/testify/require"
)

const (
	testSurveyID = "S"
	testVendorID = "V001"
	testCountry  = "IN"
)

type fixture struct {
	surveys   *memory.SurveyRepository
	responses *memory.ResponseRepository
	statsRepo *memory.StatsRepository
	codec     *surveytoken.Codec
	logs      *bytes.Buffer
	starts    panelapp.StartService
	callbacks panelapp.CallbackService
}

func testSurvey() *domain.Survey {
	return &domain.Survey{
		SurveyID: testSurveyID,
		Name:     "Brand tracker",
		PsCode:   10001,
		Status:   domain.SurveyStatusLive,
		Countries: []domain.CountryBlock{
			{
				Country: testCountry,
				LiveURL: "https://panel.example/s1",
				TestURL: "https://panel.example/test/s1",
				Vendors: []domain.VendorBlock{
					{
						VendorID:   testVendorID,
						VendorName: "Vendor One",
						IsActive:   true,
						Redirects: domain.VendorRedirects{
							CompleteRedirect:  "https://vendor.example/done",
							TerminateRedirect: "https://vendor.example/term",
							QuotaFullRedirect: "https://vendor.example/quota",
						},
					},
					{VendorID: "V002", VendorName: "Dormant", IsActive: false},
				},
			},
			{Country: "XX", Vendors: []domain.VendorBlock{{VendorID: testVendorID, IsActive: true}}},
		},
	}
}

func newFixture(t *testing.T, surveys ...*domain.Survey) *fixture {
	t.Helper()
	if len(surveys) == 0 {
		surveys = []*domain.Survey{testSurvey()}
	}
	codec, err := surveytoken.NewCodec(config.SurveyTokenConfig{Secret: "fixture-secret"})
	require.NoError(t, err)

	f := &fixture{
		surveys:   memory.NewSurveyRepository(surveys...),
		responses: memory.NewResponseRepository(),
		statsRepo: memory.NewStatsRepository(),
		codec:     codec,
		logs:      &bytes.Buffer{},
	}
	logger := log.New(f.logs, "", 0)
	stats := panelapp.NewStatsAggregator(f.statsRepo, logger)
	f.starts = panelapp.NewStartService(f.surveys, f.responses, stats, codec, logger)
	f.callbacks = panelapp.NewCallbackService(f.surveys, f.responses, stats, logger)
	return f
}

func (f *fixture) token(t *testing.T, surveyID, vendorID, country string) string {
	t.Helper()
	raw, err := f.codec.Encode(domain.SurveyToken{SurveyID: surveyID, VendorID: vendorID, Country: country})
	require.NoError(t, err)
	return raw
}

func (f *fixture) counters(surveyID, country, vendorID string) domain.StatsCounters {
	row := f.statsRepo.Row(domain.StatsKey{SurveyID: surveyID, Country: country, VendorID: vendorID})
	if row == nil {
		return domain.StatsCounters{}
	}
	return row.Counters
}
