// Package memory provides mutex-guarded implementations of the panel ports.
// They honor the same uniqueness and atomicity contracts as the Mongo repositories
// and back the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// SurveyRepository keeps surveys keyed by surveyId.
type SurveyRepository struct {
	mu      sync.Mutex
	surveys map[string]*domain.Survey
}

func NewSurveyRepository(surveys ...*domain.Survey) *SurveyRepository {
	r := &SurveyRepository{surveys: make(map[string]*domain.Survey)}
	for _, s := range surveys {
		r.surveys[s.SurveyID] = cloneSurvey(s)
	}
	return r
}

func (r *SurveyRepository) FindBySurveyID(_ context.Context, surveyID string) (*domain.Survey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[surveyID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneSurvey(s), nil
}

func (r *SurveyRepository) IncrementCompletes(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[surveyID]
	if !ok {
		return domain.ErrRecordNotFound
	}
	s.TotalCompletes++
	return nil
}

func (r *SurveyRepository) Create(_ context.Context, survey *domain.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.surveys[survey.SurveyID]; exists {
		return domain.ErrDuplicateResponse
	}
	r.surveys[survey.SurveyID] = cloneSurvey(survey)
	return nil
}

func (r *SurveyRepository) NextPsCode(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := 10000
	for _, s := range r.surveys {
		if s.PsCode >= next {
			next = s.PsCode + 1
		}
	}
	return next, nil
}

func (r *SurveyRepository) Delete(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.surveys[surveyID]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.surveys, surveyID)
	return nil
}

func cloneSurvey(s *domain.Survey) *domain.Survey {
	out := *s
	out.Countries = make([]domain.CountryBlock, len(s.Countries))
	for i, c := range s.Countries {
		c.Vendors = append([]domain.VendorBlock(nil), c.Vendors...)
		out.Countries[i] = c
	}
	return &out
}

type responseKey struct {
	surveyID string
	uid      string
}

// ResponseRepository is a ledger unique per (surveyId, uid).
type ResponseRepository struct {
	mu      sync.Mutex
	seq     int
	records map[responseKey]*domain.ResponseRecord
}

func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{records: make(map[responseKey]*domain.ResponseRecord)}
}

func (r *ResponseRepository) Create(_ context.Context, record *domain.ResponseRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := responseKey{surveyID: record.SurveyID, uid: record.UID}
	if _, exists := r.records[key]; exists {
		return domain.ErrDuplicateResponse
	}
	r.seq++
	now := time.Now().UTC()
	stored := *record
	stored.ID = strconv.Itoa(r.seq)
	stored.Status = domain.StatusInitiated
	if stored.StartedAt.IsZero() {
		stored.StartedAt = now
	}
	stored.CreatedAt = now.Add(time.Duration(r.seq) * time.Nanosecond)
	stored.UpdatedAt = stored.CreatedAt
	r.records[key] = &stored
	record.ID = stored.ID
	return nil
}

func (r *ResponseRepository) FindByUIDAndSurvey(_ context.Context, uid, surveyID string) (*domain.ResponseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[responseKey{surveyID: surveyID, uid: uid}]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	out := *rec
	return &out, nil
}

func (r *ResponseRepository) UpdateStatus(_ context.Context, uid, surveyID string, status domain.ResponseStatus, completedAt *time.Time) (*domain.ResponseRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[responseKey{surveyID: surveyID, uid: uid}]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	rec.Status = status
	if completedAt != nil {
		at := *completedAt
		rec.CompletedAt = &at
	}
	rec.UpdatedAt = time.Now().UTC()
	out := *rec
	return &out, nil
}

func (r *ResponseRepository) List(_ context.Context, filter panelapp.ResponseFilter, paging panelapp.Paging) (*panelapp.ResponsePage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.ResponseRecord, 0)
	for _, rec := range r.records {
		if rec.SurveyID != filter.SurveyID {
			continue
		}
		if filter.VendorID != "" && rec.VendorID != filter.VendorID {
			continue
		}
		if filter.Country != "" && rec.Country != filter.Country {
			continue
		}
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		matched = append(matched, *rec)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	paging = paging.Normalize()
	total := len(matched)
	start := paging.Skip()
	if start > total {
		start = total
	}
	end := start + paging.Limit
	if end > total {
		end = total
	}
	return panelapp.NewResponsePage(matched[start:end], total, paging), nil
}

func (r *ResponseRepository) CountByStatus(_ context.Context, surveyID string) (domain.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts domain.StatusCounts
	for _, rec := range r.records {
		if rec.SurveyID == surveyID {
			counts.Add(rec.Status, 1)
		}
	}
	return counts, nil
}

func (r *ResponseRepository) DeleteBySurvey(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.records {
		if key.surveyID == surveyID {
			delete(r.records, key)
		}
	}
	return nil
}

// Len returns the number of stored records.
func (r *ResponseRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// StatsRepository keeps counters per key. FailOn makes Increment fail for the listed tiers.
type StatsRepository struct {
	mu     sync.Mutex
	rows   map[domain.StatsKey]*domain.StatsRow
	failOn map[string]error
}

func NewStatsRepository() *StatsRepository {
	return &StatsRepository{
		rows:   make(map[domain.StatsKey]*domain.StatsRow),
		failOn: make(map[string]error),
	}
}

// FailOn makes every increment of the given tier ("overall", "country", "vendor") return err.
func (r *StatsRepository) FailOn(level string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[level] = err
}

func (r *StatsRepository) Increment(_ context.Context, key domain.StatsKey, field domain.StatsField) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn[key.Level()]; err != nil {
		return err
	}
	now := time.Now().UTC()
	row, ok := r.rows[key]
	if !ok {
		row = &domain.StatsRow{StatsKey: key, CreatedAt: now}
		r.rows[key] = row
	}
	switch field {
	case domain.FieldInitiated:
		row.Counters.Initiated++
	case domain.FieldCompleted:
		row.Counters.Completed++
	case domain.FieldTerminated:
		row.Counters.Terminated++
	case domain.FieldQuotaFull:
		row.Counters.QuotaFull++
	case domain.FieldSecurity:
		row.Counters.Security++
	}
	row.LastUpdated = now
	return nil
}

func (r *StatsRepository) FindBySurvey(_ context.Context, surveyID string) ([]domain.StatsRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]domain.StatsRow, 0)
	for key, row := range r.rows {
		if key.SurveyID == surveyID {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Country != rows[j].Country {
			return rows[i].Country < rows[j].Country
		}
		return rows[i].VendorID < rows[j].VendorID
	})
	return rows, nil
}

func (r *StatsRepository) DeleteBySurvey(_ context.Context, surveyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.rows {
		if key.SurveyID == surveyID {
			delete(r.rows, key)
		}
	}
	return nil
}

// Row returns a copy of one stats row, or nil when it was never created.
func (r *StatsRepository) Row(key domain.StatsKey) *domain.StatsRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[key]
	if !ok {
		return nil
	}
	out := *row
	return &out
}
