// Package status defines the result codes shared by the token parser, the
// key-set builder, and the verifier. A code is a plain value returned from
// each call; the first failure wins and there is no multi-error aggregation.
package status

// Code identifies the outcome of a parse, key-set build, or verification.
type Code int

// All recognized outcomes. FailedFetchPubkey, FailedCreateECKey, and
// FailedCreateECDSASignature are not produced by this module but remain part
// of the vocabulary so callers share one enumeration with the surrounding
// authentication pipeline.
const (
	OK Code = iota
	JWTMissed
	JWTExpired
	JWTBadFormat
	JWTHeaderParseError
	JWTHeaderNoAlg
	JWTHeaderBadAlg
	JWTHeaderBadKid
	JWTSignatureParseError
	JWTInvalidSignature
	JWTPayloadParseError
	JWTUnknownIssuer
	JWKParseError
	JWKNoKeys
	JWKBadKeys
	JWKNoValidPubkey
	KidAlgUnmatch
	AlgNotImplemented
	PEMPubkeyBadBase64
	PEMPubkeyParseError
	JWKRSAPubkeyParseError
	JWKECPubkeyParseError
	FailedCreateECKey
	FailedCreateECDSASignature
	AudienceNotAllowed
	FailedFetchPubkey
)

var text = map[Code]string{
	OK:                         "OK",
	JWTMissed:                  "Required JWT token is missing",
	JWTExpired:                 "JWT is expired",
	JWTBadFormat:               "JWT_BAD_FORMAT",
	JWTHeaderParseError:        "JWT_HEADER_PARSE_ERROR",
	JWTHeaderNoAlg:             "JWT_HEADER_NO_ALG",
	JWTHeaderBadAlg:            "JWT_HEADER_BAD_ALG",
	JWTHeaderBadKid:            "JWT_HEADER_BAD_KID",
	JWTSignatureParseError:     "JWT_SIGNATURE_PARSE_ERROR",
	JWTInvalidSignature:        "JWT_INVALID_SIGNATURE",
	JWTPayloadParseError:       "JWT_PAYLOAD_PARSE_ERROR",
	JWTUnknownIssuer:           "Unknown issuer",
	JWKParseError:              "JWK_PARSE_ERROR",
	JWKNoKeys:                  "JWK_NO_KEYS",
	JWKBadKeys:                 "JWK_BAD_KEYS",
	JWKNoValidPubkey:           "JWK_NO_VALID_PUBKEY",
	KidAlgUnmatch:              "KID_ALG_UNMATCH",
	AlgNotImplemented:          "ALG_NOT_IMPLEMENTED",
	PEMPubkeyBadBase64:         "PEM_PUBKEY_BAD_BASE64",
	PEMPubkeyParseError:        "PEM_PUBKEY_PARSE_ERROR",
	JWKRSAPubkeyParseError:     "JWK_RSA_PUBKEY_PARSE_ERROR",
	JWKECPubkeyParseError:      "JWK_EC_PUBKEY_PARSE_ERROR",
	FailedCreateECKey:          "FAILED_CREATE_EC_KEY",
	FailedCreateECDSASignature: "FAILED_CREATE_ECDSA_SIGNATURE",
	AudienceNotAllowed:         "Audience doesn't match",
	FailedFetchPubkey:          "Failed to fetch public key",
}

// String returns the wire message for the code.
func (c Code) String() string {
	if s, ok := text[c]; ok {
		return s
	}
	return "UNKNOWN_STATUS"
}

// Error carries a non-OK code across error-returning call boundaries.
type Error struct {
	Code Code
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Code.String()
}

// Err returns nil for OK and an *Error wrapping the code otherwise.
func (c Code) Err() error {
	if c == OK {
		return nil
	}
	return &Error{Code: c}
}
