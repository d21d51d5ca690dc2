// Package verifier matches a parsed token against a key set and checks the
// token signature.
package verifier

import (
	log "github.com/sirupsen/logrus"

	"github.com/tokenauth/jwtverify/keyset"
	"github.com/tokenauth/jwtverify/metrics"
	"github.com/tokenauth/jwtverify/status"
	"github.com/tokenauth/jwtverify/token"
)

// Verify checks the token signature against keys and returns whether any key
// verified it, along with the status explaining the outcome. It reads but
// never mutates its inputs, so concurrent calls may share both.
func Verify(jwt *token.JWT, keys *keyset.Set) (bool, status.Code) {
	ok, st := verify(jwt, keys)
	metrics.VerificationsTotal.WithLabelValues(jwt.Alg, st.String()).Inc()
	return ok, st
}

func verify(jwt *token.JWT, keys *keyset.Set) (bool, status.Code) {
	// A token or key set that failed to build carries its own explanation.
	if jwt.Status != status.OK {
		return false, jwt.Status
	}
	if keys.Status != status.OK {
		return false, keys.Status
	}

	signingInput := jwt.SigningInput()

	// kid and alg act as filters, not hard requirements: a key that
	// declares neither is a candidate for every token. Keys are tried in
	// insertion order and the first success wins.
	candidate := false
	for i, key := range keys.Keys {
		if jwt.Kid != "" && key.KidSpecified && key.Kid != jwt.Kid {
			continue
		}
		if key.AlgSpecified && key.Alg != jwt.Alg {
			continue
		}
		candidate = true

		if key.Verify(jwt.Alg, signingInput, jwt.Signature) {
			log.WithFields(log.Fields{
				"kid":       key.Kid,
				"key_index": i,
				"alg":       jwt.Alg,
			}).Debug("Token signature verified")
			return true, status.OK
		}
	}

	if candidate {
		return false, status.JWTInvalidSignature
	}
	return false, status.KidAlgUnmatch
}
