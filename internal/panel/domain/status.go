package domain

import "strings"

// SurveyStatus is the lifecycle status of a survey owned by the CRUD layer.
type SurveyStatus string

const (
	SurveyStatusLP       SurveyStatus = "LP"
	SurveyStatusLive     SurveyStatus = "LIVE"
	SurveyStatusClosed   SurveyStatus = "CLOSED"
	SurveyStatusPause    SurveyStatus = "PAUSE"
	SurveyStatusInvoiced SurveyStatus = "INVOICED"
	SurveyStatusPaid     SurveyStatus = "PAID"
)

// ResponseStatus is the lifecycle status of one respondent's attempt.
type ResponseStatus string

const (
	StatusInitiated  ResponseStatus = "INITIATED"
	StatusSecurity   ResponseStatus = "SECURITY"
	StatusQuota      ResponseStatus = "QUOTA"
	StatusQuotaFull  ResponseStatus = "QUOTA_FULL"
	StatusCompleted  ResponseStatus = "COMPLETED"
	StatusTerminated ResponseStatus = "TERMINATED"
)

var callbackStatuses = map[ResponseStatus]struct{}{
	StatusCompleted:  {},
	StatusTerminated: {},
	StatusQuota:      {},
	StatusQuotaFull:  {},
	StatusSecurity:   {},
}

// ParseCallbackStatus accepts only the statuses a survey platform may report back.
// Matching is exact; "completed" is not COMPLETED.
func ParseCallbackStatus(raw string) (ResponseStatus, bool) {
	status := ResponseStatus(strings.TrimSpace(raw))
	if _, ok := callbackStatuses[status]; !ok {
		return "", false
	}
	return status, true
}

// Normalize folds QUOTA into QUOTA_FULL. Every other status is returned as is.
func (s ResponseStatus) Normalize() ResponseStatus {
	if s == StatusQuota {
		return StatusQuotaFull
	}
	return s
}

// StatsField maps a status to the counter it feeds.
func (s ResponseStatus) StatsField() StatsField {
	switch s {
	case StatusCompleted:
		return FieldCompleted
	case StatusTerminated:
		return FieldTerminated
	case StatusQuota, StatusQuotaFull:
		return FieldQuotaFull
	case StatusSecurity:
		return FieldSecurity
	default:
		return FieldInitiated
	}
}

// Valid reports whether s is one of the stored response statuses.
func (s ResponseStatus) Valid() bool {
	if s == StatusInitiated {
		return true
	}
	_, ok := callbackStatuses[s]
	return ok
}
