package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections は台帳・統計・アンケートのコレクション名を束ねる。
type Collections struct {
	Surveys   string
	Responses string
	Stats     string
}

// EnsureIndexes は起動時に一意制約と検索用インデックスを作成する。
// 二重開始防止と統計行の一意性はここで作るユニークインデックスに依存する。
func EnsureIndexes(ctx context.Context, db *mongo.Database, names Collections) error {
	specs := map[string][]mongo.IndexModel{
		names.Surveys: {
			{Keys: bson.D{{Key: "surveyId", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "basic.psCode", Value: -1}}},
		},
		names.Responses: {
			{Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "uid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "vendorId", Value: 1}, {Key: "country", Value: 1}}},
			{Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "surveyId", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		names.Stats: {
			{Keys: bson.D{{Key: "survey_id", Value: 1}, {Key: "country", Value: 1}, {Key: "vendor_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for collection, models := range specs {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, err)
		}
	}
	return nil
}
