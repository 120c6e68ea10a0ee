package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MinPsCode は psCode 採番の下限値。
const MinPsCode = 10000

// SurveyRepository はアンケート本体を MongoDB で扱う実装リポジトリ。
type SurveyRepository struct {
	surveys *mongo.Collection
}

// NewSurveyRepository はアンケートコレクションを束縛したリポジトリを構築する。
func NewSurveyRepository(db *mongo.Database, collectionName string) *SurveyRepository {
	return &SurveyRepository{surveys: db.Collection(collectionName)}
}

// FindBySurveyID は公開 ID (surveyId) から単一アンケートを取得する。
func (r *SurveyRepository) FindBySurveyID(ctx context.Context, surveyID string) (*domain.Survey, error) {
	surveyID = strings.TrimSpace(surveyID)
	if surveyID == "" {
		return nil, domain.ErrRecordNotFound
	}
	var doc SurveyDocument
	if err := r.surveys.FindOne(ctx, bson.M{"surveyId": surveyID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// IncrementCompletes は totalCompletes を $inc で原子的に 1 加算する。
func (r *SurveyRepository) IncrementCompletes(ctx context.Context, surveyID string) error {
	result, err := r.surveys.UpdateOne(ctx,
		bson.M{"surveyId": surveyID},
		bson.M{
			"$inc": bson.M{"totalCompletes": 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// Create はアンケートを新規登録する。seed ツールから利用する。
func (r *SurveyRepository) Create(ctx context.Context, survey *domain.Survey) error {
	if survey == nil {
		return errors.New("survey payload is nil")
	}
	now := time.Now().UTC()
	if survey.CreatedAt.IsZero() {
		survey.CreatedAt = now
	}
	survey.UpdatedAt = now
	if survey.Status == "" {
		survey.Status = domain.SurveyStatusLP
	}

	doc := mapDomainSurveyToDocument(survey)
	doc.ID = primitive.NewObjectID()
	if _, err := r.surveys.InsertOne(ctx, doc); err != nil {
		return err
	}
	survey.ID = doc.ID.Hex()
	return nil
}

// NextPsCode は最大 psCode + 1 を返す。下限は MinPsCode。
func (r *SurveyRepository) NextPsCode(ctx context.Context) (int, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "basic.psCode", Value: -1}}).
		SetProjection(bson.M{"basic.psCode": 1})
	var doc SurveyDocument
	err := r.surveys.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return MinPsCode, nil
	}
	if err != nil {
		return 0, err
	}
	next := doc.Basic.PsCode + 1
	if next < MinPsCode {
		return MinPsCode, nil
	}
	return next, nil
}

// Delete はアンケート本体を削除する。統計・台帳の削除は呼び出し側の責務。
func (r *SurveyRepository) Delete(ctx context.Context, surveyID string) error {
	result, err := r.surveys.DeleteOne(ctx, bson.M{"surveyId": surveyID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// mapSurveyDocument は Mongo ドキュメントをドメイン Survey へ変換する。
func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	countries := make([]domain.CountryBlock, 0, len(doc.Countries))
	for _, c := range doc.Countries {
		vendors := make([]domain.VendorBlock, 0, len(c.Vendors))
		for _, v := range c.Vendors {
			isActive := true
			if v.IsActive != nil {
				isActive = *v.IsActive
			}
			vendors = append(vendors, domain.VendorBlock{
				VendorID:   v.VendorID,
				VendorName: v.VendorName,
				Allocation: v.Allocation,
				Quota:      v.Quota,
				IsActive:   isActive,
				StartURL:   v.StartURL,
				Redirects: domain.VendorRedirects{
					CompleteRedirect:  v.Redirects.CompleteRedirect,
					TerminateRedirect: v.Redirects.TerminateRedirect,
					QuotaFullRedirect: v.Redirects.QuotaFullRedirect,
					SecurityRedirect:  v.Redirects.SecurityRedirect,
				},
			})
		}
		countries = append(countries, domain.CountryBlock{
			Country:         c.Country,
			TargetCompletes: c.TargetCompletes,
			LiveURL:         strings.TrimSpace(c.LiveURL),
			TestURL:         strings.TrimSpace(c.TestURL),
			Vendors:         vendors,
		})
	}

	createdAt := time.Time{}
	if doc.CreatedAt != nil {
		createdAt = *doc.CreatedAt
	}
	updatedAt := time.Time{}
	if doc.UpdatedAt != nil {
		updatedAt = *doc.UpdatedAt
	}

	return domain.Survey{
		ID:       doc.ID.Hex(),
		SurveyID: doc.SurveyID,
		Name:     doc.Basic.Name,
		PsCode:   doc.Basic.PsCode,
		Status:   domain.SurveyStatus(doc.Status),
		Client: domain.SurveyClient{
			ClientID:   doc.Client.ClientID,
			ClientName: doc.Client.ClientName,
		},
		Countries:      countries,
		TotalCompletes: doc.TotalCompletes,
		CreatedBy:      doc.CreatedBy,
		Notes:          doc.Notes,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}
}

// mapDomainSurveyToDocument はドメイン Survey を保存用ドキュメントへ変換する。
func mapDomainSurveyToDocument(survey *domain.Survey) SurveyDocument {
	countries := make([]CountryDocument, 0, len(survey.Countries))
	for _, c := range survey.Countries {
		vendors := make([]VendorDocument, 0, len(c.Vendors))
		for _, v := range c.Vendors {
			isActive := v.IsActive
			vendors = append(vendors, VendorDocument{
				VendorID:   v.VendorID,
				VendorName: v.VendorName,
				Allocation: v.Allocation,
				Quota:      v.Quota,
				StartURL:   v.StartURL,
				IsActive:   &isActive,
				Redirects: RedirectsDocument{
					CompleteRedirect:  v.Redirects.CompleteRedirect,
					QuotaFullRedirect: v.Redirects.QuotaFullRedirect,
					TerminateRedirect: v.Redirects.TerminateRedirect,
					SecurityRedirect:  v.Redirects.SecurityRedirect,
				},
			})
		}
		countries = append(countries, CountryDocument{
			Country:         c.Country,
			TargetCompletes: c.TargetCompletes,
			LiveURL:         c.LiveURL,
			TestURL:         c.TestURL,
			Vendors:         vendors,
		})
	}

	createdAt := survey.CreatedAt
	updatedAt := survey.UpdatedAt
	return SurveyDocument{
		SurveyID: survey.SurveyID,
		Basic: SurveyBasicDocument{
			Name:   survey.Name,
			PsCode: survey.PsCode,
		},
		Client: SurveyClientDocument{
			ClientID:   survey.Client.ClientID,
			ClientName: survey.Client.ClientName,
		},
		Countries:      countries,
		Status:         string(survey.Status),
		TotalCompletes: survey.TotalCompletes,
		CreatedBy:      survey.CreatedBy,
		Notes:          survey.Notes,
		CreatedAt:      &createdAt,
		UpdatedAt:      &updatedAt,
	}
}
