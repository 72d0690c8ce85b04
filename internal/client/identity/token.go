package identity

import (
	"fmt"
	"strings"

	"github.com/avachat/avachat/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// emailClaimNamespace is the custom-namespaced claim some provider rules
// attach the account email under.
const emailClaimNamespace = "https://avachat.app/email"

// subjectProviders maps subject-claim prefixes to provider names. The
// subject has the form "<connection>|<account id>".
var subjectProviders = map[string]string{
	"google-oauth2": "google",
	"facebook":      "facebook",
	"apple":         "apple",
	"twitter":       "twitter",
	"github":        "github",
	"windowslive":   "microsoft",
}

// issuerProviders are matched by substring containment against the issuer
// claim when the subject prefix is unknown.
var issuerProviders = []string{"google", "facebook", "apple"}

// ResultFromToken derives an AuthenticationResult from a signed identity
// token. The token is parsed without signature verification: the provider
// issued it over HTTPS and this client has no key material to check it
// against.
//
// Returns common.ErrMissingIdentity when the token carries no usable
// subject.
func ResultFromToken(idToken string) (*AuthenticationResult, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(idToken, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidToken, err)
	}

	sub := stringClaim(claims, "sub")
	if sub == "" {
		return nil, common.ErrMissingIdentity
	}

	result := &AuthenticationResult{
		AuthID:   sub,
		Provider: providerFromClaims(claims, sub),
		IDToken:  idToken,
	}
	if email := emailFromClaims(claims); email != "" {
		result.Email = &email
	}
	if v, ok := claims["email_verified"].(bool); ok {
		result.EmailVerified = v
	}
	return result, nil
}

// providerFromClaims resolves the provider name: subject prefix first, then
// issuer substring, then the idp claim verbatim, then "auth0".
func providerFromClaims(claims jwt.MapClaims, sub string) string {
	if prefix, _, ok := strings.Cut(sub, "|"); ok {
		if p, found := subjectProviders[prefix]; found {
			return p
		}
	}

	iss := stringClaim(claims, "iss")
	for _, p := range issuerProviders {
		if strings.Contains(iss, p) {
			return p
		}
	}

	if idp := stringClaim(claims, "idp"); idp != "" {
		return strings.ToLower(idp)
	}
	return "auth0"
}

// emailFromClaims returns the first non-empty email found, checking the
// top-level claim, provider metadata blobs, an email-shaped name claim and
// finally the custom-namespaced claim.
func emailFromClaims(claims jwt.MapClaims) string {
	if v := stringClaim(claims, "email"); v != "" {
		return v
	}
	for _, meta := range []string{"user_metadata", "app_metadata"} {
		if m, ok := claims[meta].(map[string]any); ok {
			if v, ok := m["email"].(string); ok && v != "" {
				return v
			}
		}
	}
	if v := stringClaim(claims, "name"); strings.Contains(v, "@") {
		return v
	}
	return stringClaim(claims, emailClaimNamespace)
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
