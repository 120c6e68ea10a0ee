package domain

import "errors"

// Rejection kinds surfaced by the start and callback flows.
var (
	ErrBadInput         = errors.New("bad input")
	ErrInvalidLink      = errors.New("invalid link")
	ErrNotFound         = errors.New("not found")
	ErrSurveyClosed     = errors.New("survey closed")
	ErrSurveyPaused     = errors.New("survey paused")
	ErrVendorInactive   = errors.New("vendor inactive")
	ErrDuplicateStart   = errors.New("duplicate start")
	ErrNotStarted       = errors.New("not started")
	ErrMisconfiguredURL = errors.New("misconfigured url")
)

// Storage outcomes translated by repositories.
var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrDuplicateResponse = errors.New("response already exists for survey and uid")
)

// RejectionError carries a respondent-facing message for a rejection kind.
type RejectionError struct {
	Kind    error
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Unwrap() error {
	return e.Kind
}

// Reject builds a RejectionError.
func Reject(kind error, message string) error {
	return &RejectionError{Kind: kind, Message: message}
}

// IsRejection reports whether err is a business rejection rather than an infrastructure failure.
func IsRejection(err error) bool {
	var rejection *RejectionError
	return errors.As(err, &rejection)
}
