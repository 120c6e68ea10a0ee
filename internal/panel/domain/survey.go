package domain

import "time"

// Survey is the read model of a survey as routed by the entry/callback protocol.
type Survey struct {
	ID             string
	SurveyID       string
	Name           string
	PsCode         int
	Status         SurveyStatus
	Client         SurveyClient
	Countries      []CountryBlock
	TotalCompletes int
	CreatedBy      string
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SurveyClient identifies the buyer of the survey.
type SurveyClient struct {
	ClientID   string
	ClientName string
}

// CountryBlock describes one market of a survey.
type CountryBlock struct {
	Country         string
	TargetCompletes int
	LiveURL         string
	TestURL         string
	Vendors         []VendorBlock
}

// VendorBlock describes one traffic source inside a country.
type VendorBlock struct {
	VendorID   string
	VendorName string
	Allocation int
	Quota      bool
	IsActive   bool
	Redirects  VendorRedirects
	StartURL   string
}

// VendorRedirects holds the per-outcome return URLs of a vendor.
type VendorRedirects struct {
	CompleteRedirect  string
	TerminateRedirect string
	QuotaFullRedirect string
	SecurityRedirect  string
}

// FindCountry returns the country block with the exact country code.
func (s *Survey) FindCountry(code string) (*CountryBlock, bool) {
	for i := range s.Countries {
		if s.Countries[i].Country == code {
			return &s.Countries[i], true
		}
	}
	return nil, false
}

// FindVendor returns the vendor block with the exact vendor id.
func (c *CountryBlock) FindVendor(vendorID string) (*VendorBlock, bool) {
	for i := range c.Vendors {
		if c.Vendors[i].VendorID == vendorID {
			return &c.Vendors[i], true
		}
	}
	return nil, false
}

// EntryURL prefers the live URL and falls back to the test URL.
func (c *CountryBlock) EntryURL() string {
	if c.LiveURL != "" {
		return c.LiveURL
	}
	return c.TestURL
}

// RedirectFor returns the vendor URL configured for a terminal status, or "".
func (r VendorRedirects) RedirectFor(status ResponseStatus) string {
	switch status.Normalize() {
	case StatusCompleted:
		return r.CompleteRedirect
	case StatusTerminated:
		return r.TerminateRedirect
	case StatusQuotaFull:
		return r.QuotaFullRedirect
	case StatusSecurity:
		return r.SecurityRedirect
	default:
		return ""
	}
}
