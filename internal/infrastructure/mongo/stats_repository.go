package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// upsertAttempts は同一行への初回 upsert が競合した際の再試行回数。
const upsertAttempts = 3

// StatsRepository は 3 階層の統計カウンタ (surveystats) を扱うリポジトリ。
type StatsRepository struct {
	stats *mongo.Collection
}

// NewStatsRepository は統計コレクションを束縛したリポジトリを生成する。
func NewStatsRepository(db *mongo.Database, collectionName string) *StatsRepository {
	return &StatsRepository{stats: db.Collection(collectionName)}
}

// Increment は (survey_id, country, vendor_id) の行に対して $inc を upsert で 1 回だけ発行する。
// 行が無ければ対象フィールド 1・他 0 で作成される。アプリ側で読み書きしないため更新は失われない。
// 初回作成が並行するとユニークインデックスで片方が重複キーになるので、その場合だけ再試行する。
func (r *StatsRepository) Increment(ctx context.Context, key domain.StatsKey, field domain.StatsField) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if !field.Valid() {
		return fmt.Errorf("unknown stats field %q", field)
	}

	filter := statsKeyFilter(key)
	now := time.Now().UTC()
	setOnInsert := bson.M{"created_at": now}
	for _, f := range domain.StatsFields {
		if f != field {
			setOnInsert["stats."+string(f)] = 0
		}
	}
	update := bson.M{
		"$inc":         bson.M{"stats." + string(field): 1},
		"$set":         bson.M{"last_updated": now},
		"$setOnInsert": setOnInsert,
	}
	opts := options.Update().SetUpsert(true)

	var err error
	for attempt := 0; attempt < upsertAttempts; attempt++ {
		_, err = r.stats.UpdateOne(ctx, filter, update, opts)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return err
}

// FindBySurvey はアンケートの全統計行を country, vendor_id 順で返す。
func (r *StatsRepository) FindBySurvey(ctx context.Context, surveyID string) ([]domain.StatsRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "country", Value: 1}, {Key: "vendor_id", Value: 1}})
	cursor, err := r.stats.Find(ctx, bson.M{"survey_id": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rows := make([]domain.StatsRow, 0)
	for cursor.Next(ctx) {
		var doc SurveyStatsDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		rows = append(rows, mapStatsDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteBySurvey はアンケートの統計行をすべて削除する。
func (r *StatsRepository) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.stats.DeleteMany(ctx, bson.M{"survey_id": surveyID})
	return err
}

// statsKeyFilter は空文字を null として扱い、階層ごとの一意キーを組み立てる。
func statsKeyFilter(key domain.StatsKey) bson.M {
	return bson.M{
		"survey_id": key.SurveyID,
		"country":   nullable(key.Country),
		"vendor_id": nullable(key.VendorID),
	}
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func mapStatsDocument(doc SurveyStatsDocument) domain.StatsRow {
	key := domain.StatsKey{SurveyID: doc.SurveyID}
	if doc.Country != nil {
		key.Country = *doc.Country
	}
	if doc.VendorID != nil {
		key.VendorID = *doc.VendorID
	}
	return domain.StatsRow{
		StatsKey: key,
		Counters: domain.StatsCounters{
			Initiated:  doc.Stats.Initiated,
			Completed:  doc.Stats.Completed,
			Terminated: doc.Stats.Terminated,
			QuotaFull:  doc.Stats.QuotaFull,
			Security:   doc.Stats.Security,
		},
		CreatedAt:   doc.CreatedAt,
		LastUpdated: doc.LastUpdated,
	}
}
