package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	adminapp "github.com/sngm3741/panel-router/api/internal/admin/application"
	"github.com/sngm3741/panel-router/api/internal/config"
	mongodoc "github.com/sngm3741/panel-router/api/internal/infrastructure/mongo"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/surveytoken"
	adminhttp "github.com/sngm3741/panel-router/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/panel-router/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/panel-router/api/internal/interfaces/http/public"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server は HTTP サーバーのライフサイクルを管理し、回答者向け/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	database       *mongo.Database
	collections    mongodoc.Collections
	location       *time.Location
	startService   panelapp.StartService
	callbacks      panelapp.CallbackService
	reportService  adminapp.ReportService
	linkService    adminapp.LinkService
	surveyService  adminapp.SurveyService
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run はインデックスを用意したうえで HTTP サーバーを起動し、シグナルを受けるまでブロックする。
func (s *Server) Run() error {
	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err := mongodoc.EnsureIndexes(indexCtx, s.database, s.collections)
	cancel()
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// routes はミドルウェアとルーティングを組み立てる。Admin は認証設定がある場合のみ公開する。
func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:    s.logger,
		Starts:    s.startService,
		Callbacks: s.callbacks,
	})
	adminEnabled := len(s.jwtConfigs) > 0
	if !adminEnabled {
		s.logger.Printf("ADMIN_JWT_SECRET が未設定のため Admin API は無効です")
	}

	router.Route("/api/v1", func(r chi.Router) {
		publicHandler.Register(r)
		if !adminEnabled {
			return
		}
		adminHandler := adminhttp.NewHandler(adminhttp.Config{
			Logger:        s.logger,
			ReportService: s.reportService,
			LinkService:   s.linkService,
			SurveyService: s.surveyService,
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)
			adminHandler.Register(r)
		})
	})

	return router
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originAllowed は指定された Origin が許可リストに含まれるか判定する。
func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通確認のみを返す。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().In(s.location).Format(time.RFC3339),
		})
	}
}

// authMiddleware は Authorization ヘッダーから JWT を検証し、認証済みオペレーターをコンテキストへ詰める。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "bearer token required")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "empty access token")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := authenticatedUser{
			ID:       claims.Subject,
			Name:     claims.Name,
			Username: claims.PreferredUsername,
			Role:     claims.Role,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken は複数の JWT 設定を順番に試し、署名検証と Issuer/Audience の整合性を確認する。
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, errors.New("admin auth is not configured")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, errors.New("invalid access token")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Role              string `json:"role,omitempty"`
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("サーバーが異常終了: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New は Config と Mongo クライアントからリポジトリ・トークンコーデック・アプリケーションサービスを組み立てる。
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
		cfg.ServerLog.Printf("タイムゾーン %s の読み込みに失敗: %v, UTC を使用します", cfg.Timezone, err)
	}

	codec, err := surveytoken.NewCodec(cfg.SurveyToken)
	if err != nil {
		return nil, fmt.Errorf("survey token codec: %w", err)
	}

	srv := &Server{
		logger:   cfg.ServerLog,
		client:   client,
		database: client.Database(cfg.MongoDatabase),
		collections: mongodoc.Collections{
			Surveys:   cfg.SurveyCollection,
			Responses: cfg.SurveyResponseCollection,
			Stats:     cfg.SurveyStatsCollection,
		},
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	surveyRepo := mongodoc.NewSurveyRepository(srv.database, cfg.SurveyCollection)
	responseRepo := mongodoc.NewResponseRepository(srv.database, cfg.SurveyResponseCollection)
	statsRepo := mongodoc.NewStatsRepository(srv.database, cfg.SurveyStatsCollection)
	stats := panelapp.NewStatsAggregator(statsRepo, srv.logger)

	srv.startService = panelapp.NewStartService(surveyRepo, responseRepo, stats, codec, srv.logger)
	srv.callbacks = panelapp.NewCallbackService(surveyRepo, responseRepo, stats, srv.logger)
	srv.reportService = adminapp.NewReportService(surveyRepo, responseRepo, stats)
	srv.linkService = adminapp.NewLinkService(surveyRepo, codec, cfg.BaseURL)
	srv.surveyService = adminapp.NewSurveyService(surveyRepo, responseRepo, stats)

	return srv, nil
}
