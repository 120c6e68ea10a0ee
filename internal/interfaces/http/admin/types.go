package admin

import (
	"time"

	admindomain "github.com/sngm3741/panel-router/api/internal/admin/domain"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

type statsRowResponse struct {
	Country     string               `json:"country,omitempty"`
	VendorID    string               `json:"vendorId,omitempty"`
	Stats       domain.StatsCounters `json:"stats"`
	LastUpdated time.Time            `json:"lastUpdated"`
}

type surveyReportResponse struct {
	SurveyID       string              `json:"surveyId"`
	PsCode         int                 `json:"psCode"`
	Name           string              `json:"name"`
	Status         string              `json:"status"`
	TotalCompletes int                 `json:"totalCompletes"`
	Overall        statsRowResponse    `json:"overall"`
	Countries      []statsRowResponse  `json:"countries"`
	Vendors        []statsRowResponse  `json:"vendors"`
	Counts         domain.StatusCounts `json:"responseCounts"`
	GeneratedAt    time.Time           `json:"generatedAt"`
}

type responseCountsResponse struct {
	SurveyID string              `json:"surveyId"`
	Counts   domain.StatusCounts `json:"counts"`
}

type responseRecordResponse struct {
	ID          string     `json:"id"`
	UID         string     `json:"uid"`
	PsCode      int        `json:"psCode"`
	VendorID    string     `json:"vendorId"`
	VendorName  string     `json:"vendorName,omitempty"`
	Country     string     `json:"country"`
	Status      string     `json:"status"`
	IPAddress   string     `json:"ipAddress,omitempty"`
	UserAgent   string     `json:"userAgent,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type paginationResponse struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type responseListResponse struct {
	Items      []responseRecordResponse `json:"items"`
	Pagination paginationResponse       `json:"pagination"`
}

// surveyReportToResponse は集計行が未作成の段階でも overall をゼロ値で返す。
func surveyReportToResponse(report *admindomain.SurveyReport) surveyReportResponse {
	resp := surveyReportResponse{
		SurveyID:       report.SurveyID,
		PsCode:         report.PsCode,
		Name:           report.Name,
		Status:         string(report.Status),
		TotalCompletes: report.TotalCompletes,
		Countries:      statsRowsToResponse(report.Stats.Countries),
		Vendors:        statsRowsToResponse(report.Stats.Vendors),
		Counts:         report.Counts,
		GeneratedAt:    report.GeneratedAt,
	}
	if report.Stats.Overall != nil {
		resp.Overall = statsRowToResponse(*report.Stats.Overall)
	}
	return resp
}

func statsRowsToResponse(rows []domain.StatsRow) []statsRowResponse {
	out := make([]statsRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, statsRowToResponse(row))
	}
	return out
}

func statsRowToResponse(row domain.StatsRow) statsRowResponse {
	return statsRowResponse{
		Country:     row.Country,
		VendorID:    row.VendorID,
		Stats:       row.Counters,
		LastUpdated: row.LastUpdated,
	}
}

func responseRecordToResponse(record domain.ResponseRecord) responseRecordResponse {
	return responseRecordResponse{
		ID:          record.ID,
		UID:         record.UID,
		PsCode:      record.PsCode,
		VendorID:    record.VendorID,
		VendorName:  record.VendorName,
		Country:     record.Country,
		Status:      string(record.Status),
		IPAddress:   record.IPAddress,
		UserAgent:   record.UserAgent,
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
	}
}
