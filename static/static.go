// Package static contains constant tables shared by the token parser, the
// key-set builder, and the verifier.
package static

// Key types and signing algorithm names as they appear on the wire.
const (
	KeyTypeRSA = "RSA"
	KeyTypeEC  = "EC"

	AlgRS256 = "RS256"
	AlgRS384 = "RS384"
	AlgRS512 = "RS512"
	AlgES256 = "ES256"

	// ES256SignatureLength is the exact length of a JOSE ES256 signature:
	// two 32-byte big-endian integers, r then s.
	ES256SignatureLength = 64
	// ES256IntegerLength is the length of each of r and s.
	ES256IntegerLength = 32
)

// TokenAlgorithms is the set of token header algorithms the verifier
// implements. Anything else is rejected at parse time.
var TokenAlgorithms = map[string]bool{
	AlgRS256: true,
	AlgRS384: true,
	AlgRS512: true,
	AlgES256: true,
}

// RSAKeyAlgorithms is the set of algorithms an RSA JWKS entry may declare.
// https://tools.ietf.org/html/rfc7518#section-3.1
var RSAKeyAlgorithms = map[string]bool{
	AlgRS256: true,
	AlgRS384: true,
	AlgRS512: true,
}
