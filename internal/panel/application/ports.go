package application

import (
	"context"
	"time"

	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// SurveyRepository reads surveys owned by the CRUD layer.
type SurveyRepository interface {
	FindBySurveyID(ctx context.Context, surveyID string) (*domain.Survey, error)
	IncrementCompletes(ctx context.Context, surveyID string) error
	Create(ctx context.Context, survey *domain.Survey) error
	NextPsCode(ctx context.Context) (int, error)
	Delete(ctx context.Context, surveyID string) error
}

// ResponseRepository is the durable response ledger.
// Create must fail with domain.ErrDuplicateResponse when (surveyID, uid) already exists,
// enforced by the store rather than by a prior read.
type ResponseRepository interface {
	Create(ctx context.Context, record *domain.ResponseRecord) error
	FindByUIDAndSurvey(ctx context.Context, uid, surveyID string) (*domain.ResponseRecord, error)
	UpdateStatus(ctx context.Context, uid, surveyID string, status domain.ResponseStatus, completedAt *time.Time) (*domain.ResponseRecord, error)
	List(ctx context.Context, filter ResponseFilter, paging Paging) (*ResponsePage, error)
	CountByStatus(ctx context.Context, surveyID string) (domain.StatusCounts, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

// StatsRepository stores the three-tier running counters.
// Increment must be a single atomic find-or-create-and-increment.
type StatsRepository interface {
	Increment(ctx context.Context, key domain.StatsKey, field domain.StatsField) error
	FindBySurvey(ctx context.Context, surveyID string) ([]domain.StatsRow, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

// TokenCodec encodes and decodes entry-link tokens.
type TokenCodec interface {
	Encode(token domain.SurveyToken) (string, error)
	Decode(raw string) (domain.SurveyToken, error)
}

// ResponseFilter narrows a ledger listing.
type ResponseFilter struct {
	SurveyID string
	VendorID string
	Country  string
	Status   domain.ResponseStatus
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// Normalize applies the default page (1) and limit (10).
func (p Paging) Normalize() Paging {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	return p
}

// Skip is the number of rows before the requested page.
func (p Paging) Skip() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// ResponsePage is one page of ledger rows, newest first.
type ResponsePage struct {
	Items      []domain.ResponseRecord
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewResponsePage fills the derived page count.
func NewResponsePage(items []domain.ResponseRecord, total int, paging Paging) *ResponsePage {
	paging = paging.Normalize()
	totalPages := 0
	if total > 0 {
		totalPages = (total + paging.Limit - 1) / paging.Limit
	}
	return &ResponsePage{
		Items:      items,
		Total:      total,
		Page:       paging.Page,
		Limit:      paging.Limit,
		TotalPages: totalPages,
	}
}
