// Package b64url implements the URL-safe, unpadded base64 alphabet used by
// JWT segments and JWK big-integer fields.
package b64url

import (
	"encoding/base64"
	"math/big"
)

// isAlphabet reports whether c belongs to the base64url alphabet. Padding is
// not part of the alphabet; a '=' that survives padding removal makes the
// whole input invalid.
func isAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}

// Decode decodes a base64url string, tolerating at most two trailing padding
// characters and only when the input length is a multiple of four. It returns
// nil when the input is not valid base64url. Callers that require non-empty
// content, such as a token signature, must additionally check for an empty
// result.
func Decode(input string) []byte {
	// Strip at most two trailing '=' before validating the alphabet, so a
	// padding character anywhere else in the string is rejected below.
	if n := len(input); n > 0 && n%4 == 0 {
		if input[n-1] == '=' {
			input = input[:n-1]
			if input[n-2] == '=' {
				input = input[:n-2]
			}
		}
	}

	for i := 0; i < len(input); i++ {
		if !isAlphabet(input[i]) {
			return nil
		}
	}

	switch len(input) % 4 {
	case 0:
	case 2:
		input += "=="
	case 3:
		input += "="
	default:
		// A remainder of one can never be valid base64.
		return nil
	}

	decoded, err := base64.URLEncoding.DecodeString(input)
	if err != nil {
		return nil
	}
	return decoded
}

// Encode encodes b as unpadded base64url.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBigInt decodes a base64url string into a big-endian unsigned
// integer. It is shared by RSA (n, e) and EC (x, y) key-field extraction and
// returns nil when the input is empty or not valid base64url.
func DecodeBigInt(s string) *big.Int {
	b := Decode(s)
	if len(b) == 0 {
		return nil
	}
	return new(big.Int).SetBytes(b)
}
