package application

import (
	"context"
	"net/url"
	"strings"

	admindomain "github.com/sngm3741/panel-router/api/internal/admin/domain"
	panelapp "github.com/sngm3741/panel-router/api/internal/panel/application"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// UIDPlaceholder is substituted by the vendor with the respondent id.
const UIDPlaceholder = "[XXXX]"

type linkService struct {
	surveys panelapp.SurveyRepository
	codec   panelapp.TokenCodec
	baseURL string
}

// NewLinkService creates a LinkService that builds links under baseURL.
func NewLinkService(surveys panelapp.SurveyRepository, codec panelapp.TokenCodec, baseURL string) LinkService {
	return &linkService{
		surveys: surveys,
		codec:   codec,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

func (s *linkService) Links(ctx context.Context, surveyID string) ([]admindomain.VendorLink, error) {
	survey, err := s.surveys.FindBySurveyID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return BuildVendorLinks(survey, s.StartURL)
}

// StartURL returns <baseURL>/api/v1/surveys/start?token=<token>&uid=[XXXX].
func (s *linkService) StartURL(surveyID, vendorID, country string) (string, error) {
	token, err := s.codec.Encode(domain.SurveyToken{SurveyID: surveyID, VendorID: vendorID, Country: country})
	if err != nil {
		return "", err
	}
	return s.baseURL + "/api/v1/surveys/start?token=" + url.QueryEscape(token) + "&uid=" + UIDPlaceholder, nil
}

// BuildVendorLinks issues one link per vendor block and stores it on the block as StartURL.
func BuildVendorLinks(survey *domain.Survey, startURL func(surveyID, vendorID, country string) (string, error)) ([]admindomain.VendorLink, error) {
	links := make([]admindomain.VendorLink, 0)
	for ci := range survey.Countries {
		country := &survey.Countries[ci]
		for vi := range country.Vendors {
			vendor := &country.Vendors[vi]
			link, err := startURL(survey.SurveyID, vendor.VendorID, country.Country)
			if err != nil {
				return nil, err
			}
			vendor.StartURL = link
			links = append(links, admindomain.VendorLink{
				Country:    country.Country,
				VendorID:   vendor.VendorID,
				VendorName: vendor.VendorName,
				IsActive:   vendor.IsActive,
				StartURL:   link,
			})
		}
	}
	return links, nil
}
