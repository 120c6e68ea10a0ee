package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResponseRepository は回答者台帳 (surveyresponses) を扱うリポジトリ。
// (surveyId, uid) のユニークインデックスが二重開始を防ぐ唯一の排他制御になる。
type ResponseRepository struct {
	responses *mongo.Collection
}

// NewResponseRepository は台帳コレクションを束縛したリポジトリを生成する。
func NewResponseRepository(db *mongo.Database, collectionName string) *ResponseRepository {
	return &ResponseRepository{responses: db.Collection(collectionName)}
}

// Create は INITIATED 状態で台帳レコードを挿入する。重複キーは ErrDuplicateResponse に変換する。
func (r *ResponseRepository) Create(ctx context.Context, record *domain.ResponseRecord) error {
	if record == nil {
		return errors.New("response payload is nil")
	}
	now := time.Now().UTC()
	startedAt := record.StartedAt
	if startedAt.IsZero() {
		startedAt = now
	}

	doc := SurveyResponseDocument{
		ID:         primitive.NewObjectID(),
		SurveyID:   record.SurveyID,
		PsCode:     record.PsCode,
		UID:        record.UID,
		VendorID:   record.VendorID,
		VendorName: record.VendorName,
		Country:    record.Country,
		Status:     string(domain.StatusInitiated),
		IPAddress:  record.IPAddress,
		UserAgent:  record.UserAgent,
		StartedAt:  startedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := r.responses.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateResponse
		}
		return err
	}

	*record = mapResponseDocument(doc)
	return nil
}

// FindByUIDAndSurvey は (uid, surveyId) で台帳レコードを 1 件取得する。
func (r *ResponseRepository) FindByUIDAndSurvey(ctx context.Context, uid, surveyID string) (*domain.ResponseRecord, error) {
	var doc SurveyResponseDocument
	if err := r.responses.FindOne(ctx, bson.M{"uid": uid, "surveyId": surveyID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	record := mapResponseDocument(doc)
	return &record, nil
}

// UpdateStatus はステータスと completedAt を更新し、更新後のレコードを返す。
func (r *ResponseRepository) UpdateStatus(ctx context.Context, uid, surveyID string, status domain.ResponseStatus, completedAt *time.Time) (*domain.ResponseRecord, error) {
	set := bson.M{
		"status":    string(status.Normalize()),
		"updatedAt": time.Now().UTC(),
	}
	if completedAt != nil {
		set["completedAt"] = completedAt.UTC()
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc SurveyResponseDocument
	err := r.responses.FindOneAndUpdate(ctx, bson.M{"uid": uid, "surveyId": surveyID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	record := mapResponseDocument(doc)
	return &record, nil
}

// List はフィルタ条件に一致する台帳を新しい順でページングして返す。
func (r *ResponseRepository) List(ctx context.Context, filter panelapp.ResponseFilter, paging panelapp.Paging) (*panelapp.ResponsePage, error) {
	paging = paging.Normalize()

	mongoFilter := bson.M{}
	if v := strings.TrimSpace(filter.SurveyID); v != "" {
		mongoFilter["surveyId"] = v
	}
	if v := strings.TrimSpace(filter.VendorID); v != "" {
		mongoFilter["vendorId"] = v
	}
	if v := strings.TrimSpace(filter.Country); v != "" {
		mongoFilter["country"] = v
	}
	if filter.Status != "" {
		mongoFilter["status"] = string(filter.Status)
	}

	total, err := r.responses.CountDocuments(ctx, mongoFilter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(paging.Skip())).
		SetLimit(int64(paging.Limit))

	cursor, err := r.responses.Find(ctx, mongoFilter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]domain.ResponseRecord, 0, paging.Limit)
	for cursor.Next(ctx) {
		var doc SurveyResponseDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		items = append(items, mapResponseDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return panelapp.NewResponsePage(items, int(total), paging), nil
}

// CountByStatus は $group 集計でステータス別件数を返す。
func (r *ResponseRepository) CountByStatus(ctx context.Context, surveyID string) (domain.StatusCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"surveyId": surveyID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}

	var counts domain.StatusCounts
	cursor, err := r.responses.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return counts, err
		}
		counts.Add(domain.ResponseStatus(row.Status), row.Count)
	}
	return counts, cursor.Err()
}

// DeleteBySurvey はアンケート削除時のカスケードとして台帳を一括削除する。
func (r *ResponseRepository) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.responses.DeleteMany(ctx, bson.M{"surveyId": surveyID})
	return err
}

func mapResponseDocument(doc SurveyResponseDocument) domain.ResponseRecord {
	return domain.ResponseRecord{
		ID:          doc.ID.Hex(),
		SurveyID:    doc.SurveyID,
		UID:         doc.UID,
		PsCode:      doc.PsCode,
		VendorID:    doc.VendorID,
		VendorName:  doc.VendorName,
		Country:     doc.Country,
		Status:      domain.ResponseStatus(doc.Status),
		IPAddress:   doc.IPAddress,
		UserAgent:   doc.UserAgent,
		StartedAt:   doc.StartedAt,
		CompletedAt: doc.CompletedAt,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
