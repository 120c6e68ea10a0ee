package application_test

import (
	"context"
	"testing"

	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"github.com/stretchr/testify/require"
)

func startRespondent(t *testing.T, f *fixture, uid string) {
	t.Helper()
	_, err := f.starts.Start(context.Background(), panelapp.StartCommand{
		Token: f.token(t, testSurveyID, testVendorID, testCountry),
		UID:   uid,
	})
	require.NoError(t, err)
}

func TestEndToEnd_StartThenComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cmd := panelapp.StartCommand{Token: f.token(t, testSurveyID, testVendorID, testCountry), UID: "U1"}

	started, err := f.starts.Start(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, "https://panel.example/s1", started.SurveyURL)

	_, err = f.starts.Start(ctx, cmd)
	require.ErrorIs(t, err, domain.ErrDuplicateStart)

	result, err := f.callbacks.Callback(ctx, panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U1", Status: "COMPLETED"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, result.Status)
	require.Equal(t, "Survey completed successfully!", result.Message)
	require.Equal(t, "https://vendor.example/done", result.RedirectURL)

	record, err := f.responses.FindByUIDAndSurvey(ctx, "U1", testSurveyID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, record.Status)
	require.NotNil(t, record.CompletedAt)

	for _, key := range [][2]string{{"", ""}, {testCountry, ""}, {testCountry, testVendorID}} {
		require.Equal(t, domain.StatsCounters{Initiated: 1, Completed: 1}, f.counters(testSurveyID, key[0], key[1]))
	}

	survey, err := f.surveys.FindBySurveyID(ctx, testSurveyID)
	require.NoError(t, err)
	require.Equal(t, 1, survey.TotalCompletes)
}

func TestCallback_QuotaIsStoredAsQuotaFull(t *testing.T) {
	f := newFixture(t)
	startRespondent(t, f, "U2")

	result, err := f.callbacks.Callback(context.Background(), panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U2", Status: "QUOTA"})
	require.NoError(t, err)
	require.Equal(t, domain.StatusQuotaFull, result.Status)
	require.Equal(t, "Survey quota is full.", result.Message)
	require.Equal(t, "https://vendor.example/quota", result.RedirectURL)

	record, err := f.responses.FindByUIDAndSurvey(context.Background(), "U2", testSurveyID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusQuotaFull, record.Status)
	require.Equal(t, domain.StatsCounters{Initiated: 1, QuotaFull: 1}, f.counters(testSurveyID, testCountry, testVendorID))

	survey, err := f.surveys.FindBySurveyID(context.Background(), testSurveyID)
	require.NoError(t, err)
	require.Zero(t, survey.TotalCompletes)
}

func TestCallback_SecurityWithoutRedirect(t *testing.T) {
	f := newFixture(t)
	startRespondent(t, f, "U3")

	result, err := f.callbacks.Callback(context.Background(), panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U3", Status: "SECURITY"})
	require.NoError(t, err)
	require.Equal(t, "Security check failed.", result.Message)
	require.Empty(t, result.RedirectURL)
	require.Equal(t, 1, f.counters(testSurveyID, "", "").Security)
}

func TestCallback_Rejections(t *testing.T) {
	f := newFixture(t)
	startRespondent(t, f, "U1")

	cases := []struct {
		name    string
		cmd     panelapp.CallbackCommand
		kind    error
		message string
	}{
		{"missing status", panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U1"}, domain.ErrBadInput, "Missing required parameters: status and uid"},
		{"missing uid", panelapp.CallbackCommand{SurveyID: testSurveyID, Status: "COMPLETED"}, domain.ErrBadInput, "Missing required parameters: status and uid"},
		{"invalid status", panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U1", Status: "INITIATED"}, domain.ErrBadInput, "Invalid status"},
		{"lowercase status", panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "U1", Status: "completed"}, domain.ErrBadInput, "Invalid status"},
		{"unknown survey", panelapp.CallbackCommand{SurveyID: "nope", UID: "U1", Status: "COMPLETED"}, domain.ErrNotFound, "Survey not found"},
		{"not started", panelapp.CallbackCommand{SurveyID: testSurveyID, UID: "ghost", Status: "COMPLETED"}, domain.ErrNotStarted, "Survey response not found. Please start the survey first."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.callbacks.Callback(context.Background(), tc.cmd)
			require.ErrorIs(t, err, tc.kind)
			require.Equal(t, tc.message, err.Error())
		})
	}

	require.Equal(t, domain.StatsCounters{Initiated: 1}, f.counters(testSurveyID, "", ""))
}

func TestStatusMessage(t *testing.T) {
	require.Equal(t, "Survey terminated.", panelapp.StatusMessage(domain.StatusTerminated))
	require.Equal(t, "Survey quota is full.", panelapp.StatusMessage(domain.StatusQuota))
	require.Equal(t, "Survey status updated.", panelapp.StatusMessage(domain.StatusInitiated))
}
