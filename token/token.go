// Package token parses compact JWTs into their header, payload, and
// signature parts and extracts the standard claims.
package token

import (
	"encoding/json"
	"strings"

	"github.com/tokenauth/jwtverify/b64url"
	"github.com/tokenauth/jwtverify/static"
	"github.com/tokenauth/jwtverify/status"
)

// JWT is a parsed compact token. It is fully resolved by Parse: either
// Status is status.OK and every field is populated, or Status records the
// first failure and the remaining fields must not be trusted. A JWT is
// read-only after Parse and safe to share.
type JWT struct {
	Status status.Code

	// HeaderB64 and PayloadB64 are the raw base64url segments exactly as
	// they appeared in the token. Joined with '.', they are the bytes the
	// signature was computed over; re-serializing the parsed JSON is not
	// guaranteed to reproduce them.
	HeaderB64  string
	PayloadB64 string

	// Header and Payload are the decoded JSON documents.
	Header  map[string]interface{}
	Payload map[string]interface{}

	// Alg is the header signing algorithm; always a member of
	// static.TokenAlgorithms when Status is OK. Kid is empty when the
	// header carries none.
	Alg string
	Kid string

	// Standard claims. Absent or mistyped iss/sub/exp default to their
	// zero values; a malformed aud fails the whole token.
	Iss string
	Sub string
	Exp uint64
	Aud []string

	Signature []byte
}

// SigningInput returns the exact bytes the token signature covers.
func (j *JWT) SigningInput() string {
	return j.HeaderB64 + "." + j.PayloadB64
}

// Parse decodes and structurally validates a compact token. It always
// returns a non-nil JWT; the Status field reports the first failure, if any.
func Parse(raw string) *JWT {
	j := &JWT{}
	if raw == "" {
		j.Status = status.JWTMissed
		return j
	}

	// The token must have exactly two dots and three non-empty segments.
	if strings.Count(raw, ".") != 2 {
		j.Status = status.JWTBadFormat
		return j
	}
	parts := strings.Split(raw, ".")
	for _, p := range parts {
		if p == "" {
			j.Status = status.JWTBadFormat
			return j
		}
	}

	j.HeaderB64 = parts[0]
	j.PayloadB64 = parts[1]

	if st := j.parseHeader(); st != status.OK {
		j.Status = st
		return j
	}
	if st := j.parsePayload(); st != status.OK {
		j.Status = st
		return j
	}

	j.Signature = b64url.Decode(parts[2])
	if len(j.Signature) == 0 {
		j.Status = status.JWTSignatureParseError
		return j
	}

	return j
}

func (j *JWT) parseHeader() status.Code {
	decoded := b64url.Decode(j.HeaderB64)
	// A JSON "null" unmarshals into a nil map without error; the header
	// must be an object.
	if err := json.Unmarshal(decoded, &j.Header); err != nil || j.Header == nil {
		return status.JWTHeaderParseError
	}

	alg, ok := j.Header["alg"]
	if !ok {
		return status.JWTHeaderNoAlg
	}
	algStr, ok := alg.(string)
	if !ok {
		return status.JWTHeaderBadAlg
	}
	if !static.TokenAlgorithms[algStr] {
		return status.AlgNotImplemented
	}
	j.Alg = algStr

	// kid is optional, but must be a string when present.
	if kid, ok := j.Header["kid"]; ok {
		kidStr, ok := kid.(string)
		if !ok {
			return status.JWTHeaderBadKid
		}
		j.Kid = kidStr
	}

	return status.OK
}

func (j *JWT) parsePayload() status.Code {
	decoded := b64url.Decode(j.PayloadB64)
	if err := json.Unmarshal(decoded, &j.Payload); err != nil || j.Payload == nil {
		return status.JWTPayloadParseError
	}

	j.Iss, _ = j.Payload["iss"].(string)
	j.Sub, _ = j.Payload["sub"].(string)
	if exp, ok := j.Payload["exp"].(float64); ok && exp > 0 {
		j.Exp = uint64(exp)
	}

	// aud is either a single string or an array of strings, collected in
	// order. Any other shape fails the token.
	if aud, ok := j.Payload["aud"]; ok {
		switch v := aud.(type) {
		case string:
			j.Aud = []string{v}
		case []interface{}:
			for _, elem := range v {
				s, ok := elem.(string)
				if !ok {
					return status.JWTPayloadParseError
				}
				j.Aud = append(j.Aud, s)
			}
		default:
			return status.JWTPayloadParseError
		}
	}

	return status.OK
}
