package domain

import (
	"time"

	panel "github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// SurveyReport combines the stats tiers with ledger counts of one survey.
type SurveyReport struct {
	SurveyID       string
	PsCode         int
	Name           string
	Status         panel.SurveyStatus
	TotalCompletes int
	Stats          panel.StatsBreakdown
	Counts         panel.StatusCounts
	GeneratedAt    time.Time
}
