package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	adminapp "github.com/sngm3741/panel-router/api/internal/admin/application"
	"github.com/sngm3741/panel-router/api/internal/config"
	mongodoc "github.com/sngm3741/panel-router/api/internal/infrastructure/mongo"
	"github.com/sngm3741/panel-router/api/internal/infrastructure/surveytoken"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedOptions struct {
	envName         string
	surveyCount     int
	dropCollections bool
	randomSeed      int64
}

var (
	countryPool = []string{"US", "GB", "DE", "JP", "IN", "BR"}
	vendorPool  = []struct{ id, name string }{
		{"v-cint", "Cint"},
		{"v-dynata", "Dynata"},
		{"v-toluna", "Toluna"},
		{"v-pure", "PureSpectrum"},
	}
	clientPool = []string{"Acme Research", "Northwind Insights", "Globex Panels"}
)

func main() {
	opts := parseFlags()

	if err := loadEnvFiles(opts.envName); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}

	cfg := config.Load()
	codec, err := surveytoken.NewCodec(cfg.SurveyToken)
	if err != nil {
		log.Fatalf("トークンコーデックの初期化に失敗しました: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	names := mongodoc.Collections{
		Surveys:   cfg.SurveyCollection,
		Responses: cfg.SurveyResponseCollection,
		Stats:     cfg.SurveyStatsCollection,
	}

	if opts.dropCollections {
		for _, name := range []string{names.Surveys, names.Responses, names.Stats} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				log.Fatalf("コレクション %s の削除に失敗しました: %v", name, err)
			}
		}
		log.Printf("既存コレクションを削除しました")
	}

	if err := mongodoc.EnsureIndexes(ctx, db, names); err != nil {
		log.Fatalf("インデックス作成に失敗しました: %v", err)
	}

	repo := mongodoc.NewSurveyRepository(db, names.Surveys)
	links := adminapp.NewLinkService(repo, codec, cfg.BaseURL)
	rng := rand.New(rand.NewSource(opts.randomSeed))

	for i := 0; i < opts.surveyCount; i++ {
		psCode, err := repo.NextPsCode(ctx)
		if err != nil {
			log.Fatalf("psCode の採番に失敗しました: %v", err)
		}
		survey := generateSurvey(rng, cfg.BaseURL, psCode)
		vendorLinks, err := adminapp.BuildVendorLinks(survey, links.StartURL)
		if err != nil {
			log.Fatalf("ベンダーリンクの生成に失敗しました: %v", err)
		}
		if err := repo.Create(ctx, survey); err != nil {
			log.Fatalf("アンケートの挿入に失敗しました: %v", err)
		}

		log.Printf("survey %s psCode=%d name=%q", survey.SurveyID, survey.PsCode, survey.Name)
		for _, link := range vendorLinks {
			log.Printf("  %s/%s active=%t %s", link.Country, link.VendorID, link.IsActive, link.StartURL)
		}
	}

	log.Printf("Seed 完了: surveys=%d", opts.surveyCount)
	log.Printf("Mongo: %s / %s (env=%s)", cfg.MongoURI, cfg.MongoDatabase, opts.envName)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envName, "env", "local", "backend/env 内の env ファイル名 (例: local, staging)")
	flag.IntVar(&opts.surveyCount, "surveys", 3, "生成するアンケート数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	defaultSeed := time.Now().UnixNano()
	flag.Int64Var(&opts.randomSeed, "seed", defaultSeed, "乱数シード（再現用）")
	flag.Parse()

	if opts.surveyCount <= 0 {
		log.Fatal("surveys は 1 以上を指定してください")
	}
	return opts
}

// generateSurvey は LIVE 状態のデモ用アンケートを生成する。callback の戻り先はローカルのダミーベンダーを指す。
func generateSurvey(rng *rand.Rand, baseURL string, psCode int) *domain.Survey {
	surveyID := uuid.NewString()
	now := time.Now().UTC()

	countries := pickUnique(rng, countryPool, 1+rng.Intn(3))
	blocks := make([]domain.CountryBlock, 0, len(countries))
	for _, country := range countries {
		block := domain.CountryBlock{
			Country:         country,
			TargetCompletes: 50 * (1 + rng.Intn(10)),
			LiveURL:         fmt.Sprintf("https://surveys.example.com/s/%s?lang=%s", surveyID, strings.ToLower(country)),
			TestURL:         fmt.Sprintf("https://surveys.example.com/test/%s?lang=%s", surveyID, strings.ToLower(country)),
		}
		for _, idx := range rng.Perm(len(vendorPool))[:1+rng.Intn(len(vendorPool))] {
			vendor := vendorPool[idx]
			back := fmt.Sprintf("%s/demo-vendor/%s", baseURL, vendor.id)
			block.Vendors = append(block.Vendors, domain.VendorBlock{
				VendorID:   vendor.id,
				VendorName: vendor.name,
				Allocation: 10 * (1 + rng.Intn(10)),
				Quota:      rng.Intn(2) == 0,
				IsActive:   rng.Intn(5) != 0,
				Redirects: domain.VendorRedirects{
					CompleteRedirect:  back + "?status=complete",
					TerminateRedirect: back + "?status=terminate",
					QuotaFullRedirect: back + "?status=quotafull",
					SecurityRedirect:  back + "?status=security",
				},
			})
		}
		blocks = append(blocks, block)
	}

	return &domain.Survey{
		SurveyID: surveyID,
		Name:     fmt.Sprintf("Demo Survey %d", psCode),
		PsCode:   psCode,
		Status:   domain.SurveyStatusLive,
		Client: domain.SurveyClient{
			ClientID:   uuid.NewString(),
			ClientName: clientPool[rng.Intn(len(clientPool))],
		},
		Countries: blocks,
		CreatedBy: "seed",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func pickUnique(rng *rand.Rand, source []string, count int) []string {
	if count > len(source) {
		count = len(source)
	}
	out := make([]string, 0, count)
	for _, idx := range rng.Perm(len(source))[:count] {
		out = append(out, source[idx])
	}
	return out
}

// loadEnvFiles は存在する env ファイルのみを読み込む。未作成のファイルは無視する。
func loadEnvFiles(envName string) error {
	base := filepath.Clean(filepath.Join("..", "env"))
	files := []string{
		filepath.Join(base, "shared.env"),
		filepath.Join(base, fmt.Sprintf("%s.env", envName)),
	}
	for _, file := range files {
		if err := loadEnvFile(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s の読み込みに失敗しました: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
