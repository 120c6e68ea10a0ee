package domain

import "strings"

// SurveyToken is the (survey, vendor, country) triple carried by an entry link.
type SurveyToken struct {
	SurveyID string
	VendorID string
	Country  string
}

// Complete reports whether every part of the triple is present.
func (t SurveyToken) Complete() bool {
	return strings.TrimSpace(t.SurveyID) != "" &&
		strings.TrimSpace(t.VendorID) != "" &&
		strings.TrimSpace(t.Country) != ""
}
