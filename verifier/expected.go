package verifier

import (
	"time"

	"github.com/tokenauth/jwtverify/status"
	"github.com/tokenauth/jwtverify/token"
)

// Expected holds the claim requirements checked after signature
// verification. A zero field disables its check.
type Expected struct {
	// Time is the instant the token must still be valid at, typically
	// time.Now(). Tokens without an exp claim are not checked.
	Time time.Time

	// Issuers is the set of acceptable iss values.
	Issuers []string

	// Audiences is the set of acceptable audiences; the token must carry
	// at least one of them.
	Audiences []string
}

// Check validates the token's standard claims against the expectation and
// returns the first failure.
func (e Expected) Check(jwt *token.JWT) status.Code {
	if jwt.Status != status.OK {
		return jwt.Status
	}
	if !e.Time.IsZero() && jwt.Exp != 0 && uint64(e.Time.Unix()) >= jwt.Exp {
		return status.JWTExpired
	}
	if len(e.Issuers) > 0 && !contains(e.Issuers, jwt.Iss) {
		return status.JWTUnknownIssuer
	}
	if len(e.Audiences) > 0 && !overlaps(e.Audiences, jwt.Aud) {
		return status.AudienceNotAllowed
	}
	return status.OK
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func overlaps(want, have []string) bool {
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}
