// Package keyset builds verification key sets from a bare PEM body or a
// JWKS document.
//
// A Set is immutable once built and safe to share across concurrent
// verification calls. Key rotation means building a new Set, never mutating
// an existing one.
package keyset

import (
	"encoding/base64"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/tokenauth/jwtverify/metrics"
	"github.com/tokenauth/jwtverify/static"
	"github.com/tokenauth/jwtverify/status"
)

// Set is an ordered collection of usable public keys. Status records the
// outcome of the build; a Set with a non-OK status holds no keys.
type Set struct {
	Status status.Code
	Keys   []*Key
}

// FromPEM builds a single-key Set from a base64 string holding a
// DER-encoded RSA public key. PEM armor lines must already be stripped by
// the caller.
func FromPEM(blob string) *Set {
	set := fromPEM(blob)
	metrics.KeysetLoadsTotal.WithLabelValues("pem", set.Status.String()).Inc()
	return set
}

func fromPEM(blob string) *Set {
	set := &Set{}
	der, err := base64.StdEncoding.DecodeString(blob)
	if err != nil || len(der) == 0 {
		set.Status = status.PEMPubkeyBadBase64
		return set
	}

	pub, err := parseRSAPublicKeyDER(der)
	if err != nil {
		set.Status = status.PEMPubkeyParseError
		return set
	}

	// A PEM key carries no kid or alg constraint, so it is a candidate for
	// every token.
	set.Keys = append(set.Keys, &Key{Kty: static.KeyTypeRSA, rsa: pub})
	return set
}

// FromJWKS builds a Set from a JWKS JSON document (RFC 7517). Entries that
// cannot produce a usable key are skipped; the build fails only when the
// document itself is malformed or no entry survives.
func FromJWKS(doc string) *Set {
	set := fromJWKS(doc)
	metrics.KeysetLoadsTotal.WithLabelValues("jwks", set.Status.String()).Inc()
	return set
}

func fromJWKS(doc string) *Set {
	set := &Set{}

	var root map[string]json.RawMessage
	if err := json.Unmarshal([]byte(doc), &root); err != nil {
		set.Status = status.JWKParseError
		return set
	}

	rawKeys, ok := root["keys"]
	if !ok {
		set.Status = status.JWKNoKeys
		return set
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(rawKeys, &entries); err != nil {
		set.Status = status.JWKBadKeys
		return set
	}

	for i, entry := range entries {
		key := keyFromJWK(entry)
		if key == nil {
			log.WithFields(log.Fields{
				"index": i,
			}).Debug("Skipping unusable JWKS entry")
			continue
		}
		set.Keys = append(set.Keys, key)
	}

	if len(set.Keys) == 0 {
		set.Status = status.JWKNoValidPubkey
	}
	return set
}
