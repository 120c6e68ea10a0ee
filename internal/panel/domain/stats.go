package domain

import (
	"errors"
	"time"
)

// StatsField names one running counter of a stats row.
type StatsField string

const (
	FieldInitiated  StatsField = "initiated"
	FieldCompleted  StatsField = "completed"
	FieldTerminated StatsField = "terminated"
	FieldQuotaFull  StatsField = "quota_full"
	FieldSecurity   StatsField = "security"
)

// StatsFields lists every counter in storage order.
var StatsFields = []StatsField{FieldInitiated, FieldCompleted, FieldTerminated, FieldQuotaFull, FieldSecurity}

// Valid reports whether f is a known counter.
func (f StatsField) Valid() bool {
	for _, field := range StatsFields {
		if f == field {
			return true
		}
	}
	return false
}

// StatsKey identifies a stats row. Empty Country/VendorID mean the null tier.
type StatsKey struct {
	SurveyID string
	Country  string
	VendorID string
}

var errVendorWithoutCountry = errors.New("stats key: vendor tier requires a country")

// Validate enforces that a vendor-level row always sits under a country.
func (k StatsKey) Validate() error {
	if k.SurveyID == "" {
		return errors.New("stats key: survey id is required")
	}
	if k.VendorID != "" && k.Country == "" {
		return errVendorWithoutCountry
	}
	return nil
}

// Level reports which tier the key addresses.
func (k StatsKey) Level() string {
	switch {
	case k.Country == "":
		return "overall"
	case k.VendorID == "":
		return "country"
	default:
		return "vendor"
	}
}

// StatsCounters are the running totals of one stats row.
type StatsCounters struct {
	Initiated  int `json:"initiated"`
	Completed  int `json:"completed"`
	Terminated int `json:"terminated"`
	QuotaFull  int `json:"quota_full"`
	Security   int `json:"security"`
}

// Get returns the value of one counter.
func (c StatsCounters) Get(field StatsField) int {
	switch field {
	case FieldInitiated:
		return c.Initiated
	case FieldCompleted:
		return c.Completed
	case FieldTerminated:
		return c.Terminated
	case FieldQuotaFull:
		return c.QuotaFull
	case FieldSecurity:
		return c.Security
	}
	return 0
}

// StatsRow is one tier of counters for a survey.
type StatsRow struct {
	StatsKey
	Counters    StatsCounters
	CreatedAt   time.Time
	LastUpdated time.Time
}

// StatsBreakdown partitions the rows of a survey by tier.
type StatsBreakdown struct {
	Overall   *StatsRow
	Countries []StatsRow
	Vendors   []StatsRow
}

// PartitionStats splits rows into the overall, country and vendor tiers.
func PartitionStats(rows []StatsRow) StatsBreakdown {
	breakdown := StatsBreakdown{
		Countries: make([]StatsRow, 0),
		Vendors:   make([]StatsRow, 0),
	}
	for i := range rows {
		row := rows[i]
		switch row.Level() {
		case "overall":
			if breakdown.Overall == nil {
				breakdown.Overall = &row
			}
		case "country":
			breakdown.Countries = append(breakdown.Countries, row)
		default:
			breakdown.Vendors = append(breakdown.Vendors, row)
		}
	}
	return breakdown
}
