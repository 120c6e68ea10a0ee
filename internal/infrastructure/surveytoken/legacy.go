package surveytoken

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// LegacyClaims is the payload of links issued before the psv1 format.
type LegacyClaims struct {
	SurveyID string `json:"survey_id"`
	VendorID string `json:"vendor_id"`
	Country  string `json:"country"`
	jwt.RegisteredClaims
}

var legacyMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// decodeLegacy verifies an HMAC-signed JWT against the raw (unhashed) secret.
// Registered time claims are only checked when present.
func (c *Codec) decodeLegacy(raw string) (domain.SurveyToken, error) {
	claims := &LegacyClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.legacySecret, nil
	}, jwt.WithValidMethods(legacyMethods))
	if err != nil || !token.Valid {
		return domain.SurveyToken{}, ErrInvalidToken
	}

	payload := domain.SurveyToken{SurveyID: claims.SurveyID, VendorID: claims.VendorID, Country: claims.Country}
	if !payload.Complete() {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	return payload, nil
}

// SignLegacy issues a token in the legacy format. Only tooling and tests use it;
// new links are always psv1.
func SignLegacy(secret string, token domain.SurveyToken) (string, error) {
	claims := LegacyClaims{
		SurveyID: token.SurveyID,
		VendorID: token.VendorID,
		Country:  token.Country,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
