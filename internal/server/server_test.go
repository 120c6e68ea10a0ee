package server

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	adminapp "github.com/sngm3741/panel-router/api/internal/admin/application"
	"github.com/sngm3741/panel-router/api/internal/config"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/memory"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/surveytoken"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"github.com/stretchr/testify/require"
)

const adminSecret = "operator-secret"

func newTestServer(t *testing.T, jwtConfigs []config.JWTConfig) *Server {
	t.Helper()
	codec, err := surveytoken.NewCodec(config.SurveyTokenConfig{Secret: "server-secret"})
	require.NoError(t, err)

	surveys := memory.NewSurveyRepository(&domain.Survey{SurveyID: "S1", Status: domain.SurveyStatusLive})
	responses := memory.NewResponseRepository()
	stats := panelapp.NewStatsAggregator(memory.NewStatsRepository(), nil)
	logger := log.New(io.Discard, "", 0)

	return &Server{
		logger:         logger,
		location:       time.UTC,
		startService:   panelapp.NewStartService(surveys, responses, stats, codec, logger),
		callbacks:      panelapp.NewCallbackService(surveys, responses, stats, logger),
		reportService:  adminapp.NewReportService(surveys, responses, stats),
		linkService:    adminapp.NewLinkService(surveys, codec, "https://router.example"),
		surveyService:  adminapp.NewSurveyService(surveys, responses, stats),
		jwtConfigs:     jwtConfigs,
		jwtAudience:    "panel-admin",
		allowedOrigins: []string{"https://admin.example"},
	}
}

func signOperatorToken(t *testing.T, secret string, claims authClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() authClaims {
	return authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "op-1",
			Issuer:    "panel-auth",
			Audience:  jwt.ClaimStrings{"panel-admin"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name: "Operator",
		Role: "admin",
	}
}

func TestParseAuthToken(t *testing.T) {
	srv := newTestServer(t, []config.JWTConfig{{Issuer: "panel-auth", Secret: []byte(adminSecret)}})

	claims, err := srv.parseAuthToken(signOperatorToken(t, adminSecret, validClaims()))
	require.NoError(t, err)
	require.Equal(t, "op-1", claims.Subject)
	require.Equal(t, "admin", claims.Role)

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "elsewhere"
	_, err = srv.parseAuthToken(signOperatorToken(t, adminSecret, wrongIssuer))
	require.Error(t, err)

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"public"}
	_, err = srv.parseAuthToken(signOperatorToken(t, adminSecret, wrongAudience))
	require.Error(t, err)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = srv.parseAuthToken(signOperatorToken(t, adminSecret, expired))
	require.Error(t, err)

	noSubject := validClaims()
	noSubject.Subject = ""
	_, err = srv.parseAuthToken(signOperatorToken(t, adminSecret, noSubject))
	require.Error(t, err)

	_, err = srv.parseAuthToken(signOperatorToken(t, "wrong", validClaims()))
	require.Error(t, err)
}

func TestRoutes_AdminRequiresBearerToken(t *testing.T) {
	srv := newTestServer(t, []config.JWTConfig{{Issuer: "panel-auth", Secret: []byte(adminSecret)}})
	router := srv.routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/surveys/S1/stats", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/surveys/S1/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signOperatorToken(t, adminSecret, validClaims()))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_AdminDisabledWithoutJWTConfig(t *testing.T) {
	srv := newTestServer(t, nil)
	router := srv.routes()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/surveys/S1/stats", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/surveys/start", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithCORS(t *testing.T) {
	handler := withCORS([]string{"https://admin.example"})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://admin.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "https://admin.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://admin.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}
