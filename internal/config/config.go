package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// JWTConfig defines issuer/secret pair for operator auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// SurveyTokenConfig holds the secrets of the entry-link token codec.
type SurveyTokenConfig struct {
	// Secret is hashed into the psv1 encryption/MAC key.
	Secret string
	// LegacySecret verifies links signed before psv1 existed. Empty means Secret.
	LegacySecret string
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                     string
	BaseURL                  string
	MongoURI                 string
	MongoDatabase            string
	SurveyCollection         string
	SurveyResponseCollection string
	SurveyStatsCollection    string
	Timeout                  time.Duration
	Timezone                 string
	ServerLog                *log.Logger
	SurveyToken              SurveyTokenConfig
	JWTConfigs               []JWTConfig
	JWTAudience              string
	AllowedOrigins           []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	legacySecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	tokenSecret := strings.TrimSpace(os.Getenv("SURVEY_TOKEN_SECRET"))
	if tokenSecret == "" {
		tokenSecret = legacySecret
	}
	if tokenSecret == "" {
		log.Fatal("survey token secret not configured. Set SURVEY_TOKEN_SECRET or JWT_SECRET.")
	}

	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: strings.TrimSpace(os.Getenv("ADMIN_JWT_ISSUER")),
			Secret: []byte(secret),
		})
	}

	baseURL := strings.TrimRight(strings.TrimSpace(envOrDefault("BASE_URL", "http://localhost:8000")), "/")

	cfg := Config{
		Addr:                     envOrDefault("HTTP_ADDR", ":8000"),
		BaseURL:                  baseURL,
		MongoURI:                 envOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:            envOrDefault("MONGO_DB", "pollsphere"),
		SurveyCollection:         envOrDefault("SURVEY_COLLECTION", "surveys"),
		SurveyResponseCollection: envOrDefault("SURVEY_RESPONSE_COLLECTION", "surveyresponses"),
		SurveyStatsCollection:    envOrDefault("SURVEY_STATS_COLLECTION", "surveystats"),
		Timeout:                  timeout,
		Timezone:                 envOrDefault("TIMEZONE", "UTC"),
		ServerLog:                log.New(os.Stdout, "[panel-router] ", log.LstdFlags|log.Lshortfile),
		SurveyToken: SurveyTokenConfig{
			Secret:       tokenSecret,
			LegacySecret: legacySecret,
		},
		JWTConfigs:     jwtConfigs,
		JWTAudience:    strings.TrimSpace(os.Getenv("ADMIN_JWT_AUDIENCE")),
		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	cfg.ServerLog.Printf("loaded config: baseURL=%q mongoDB=%q adminAuth=%t", cfg.BaseURL, cfg.MongoDatabase, len(jwtConfigs) > 0)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
