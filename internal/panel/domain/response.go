package domain

import "time"

// ResponseRecord is one respondent's ledger entry, unique per (SurveyID, UID).
type ResponseRecord struct {
	ID          string
	SurveyID    string
	UID         string
	PsCode      int
	VendorID    string
	VendorName  string
	Country     string
	Status      ResponseStatus
	IPAddress   string
	UserAgent   string
	StartedAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusCounts aggregates ledger rows of a survey by status.
type StatusCounts struct {
	Initiated  int `json:"initiated"`
	Completed  int `json:"completed"`
	Terminated int `json:"terminated"`
	QuotaFull  int `json:"quotaFull"`
	Security   int `json:"security"`
}

// Add counts n records of the given status. QUOTA counts as quota full.
func (c *StatusCounts) Add(status ResponseStatus, n int) {
	switch status.Normalize() {
	case StatusInitiated:
		c.Initiated += n
	case StatusCompleted:
		c.Completed += n
	case StatusTerminated:
		c.Terminated += n
	case StatusQuotaFull:
		c.QuotaFull += n
	case StatusSecurity:
		c.Security += n
	}
}
