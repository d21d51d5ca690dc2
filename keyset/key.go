package keyset

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/x509"
	"errors"
	"math/big"

	"github.com/tokenauth/jwtverify/b64url"
	"github.com/tokenauth/jwtverify/static"
)

// Key is one usable public key. KidSpecified and AlgSpecified distinguish a
// field the source material declared, possibly as the empty string, from one
// it omitted; an omitted field never excludes the key from candidacy.
type Key struct {
	Kty string

	Kid          string
	KidSpecified bool

	Alg          string
	AlgSpecified bool

	rsa *rsa.PublicKey
	ec  *ecdsa.PublicKey
}

// Verify reports whether sig is a valid signature over signingInput by this
// key, with the digest selected by the token algorithm alg.
func (k *Key) Verify(alg, signingInput string, sig []byte) bool {
	if k.Kty == static.KeyTypeEC {
		return verifyEC(k.ec, signingInput, sig)
	}
	return verifyRSA(k.rsa, alg, signingInput, sig)
}

func verifyRSA(pub *rsa.PublicKey, alg, signingInput string, sig []byte) bool {
	var hash crypto.Hash
	var digest []byte
	switch alg {
	case static.AlgRS384:
		d := sha512.Sum384([]byte(signingInput))
		hash, digest = crypto.SHA384, d[:]
	case static.AlgRS512:
		d := sha512.Sum512([]byte(signingInput))
		hash, digest = crypto.SHA512, d[:]
	default:
		d := sha256.Sum256([]byte(signingInput))
		hash, digest = crypto.SHA256, d[:]
	}
	return rsa.VerifyPKCS1v15(pub, hash, digest, sig) == nil
}

func verifyEC(pub *ecdsa.PublicKey, signingInput string, sig []byte) bool {
	// An ES256 signature is exactly r||s, 32 bytes each.
	if len(sig) != static.ES256SignatureLength {
		return false
	}
	digest := sha256.Sum256([]byte(signingInput))
	r := new(big.Int).SetBytes(sig[:static.ES256IntegerLength])
	s := new(big.Int).SetBytes(sig[static.ES256IntegerLength:])
	return ecdsa.Verify(pub, digest[:], r, s)
}

// keyFromJWK dispatches on the required "kty" field of a JWKS entry.
// https://tools.ietf.org/html/rfc7517#section-4.1
// Entries that cannot produce a usable key return nil.
func keyFromJWK(entry map[string]interface{}) *Key {
	kty, ok := entry["kty"].(string)
	if !ok {
		return nil
	}
	switch kty {
	case static.KeyTypeRSA:
		return rsaKeyFromJWK(entry)
	case static.KeyTypeEC:
		return ecKeyFromJWK(entry)
	}
	return nil
}

func rsaKeyFromJWK(entry map[string]interface{}) *Key {
	key := &Key{Kty: static.KeyTypeRSA}
	if !readKid(entry, key) {
		return nil
	}
	if !readAlg(entry, key, static.RSAKeyAlgorithms) {
		return nil
	}

	n, okN := entry["n"].(string)
	e, okE := entry["e"].(string)
	if !okN || !okE {
		return nil
	}
	bigN := b64url.DecodeBigInt(n)
	bigE := b64url.DecodeBigInt(e)
	if bigN == nil || bigE == nil || !bigE.IsInt64() {
		return nil
	}

	key.rsa = &rsa.PublicKey{N: bigN, E: int(bigE.Int64())}
	return key
}

func ecKeyFromJWK(entry map[string]interface{}) *Key {
	key := &Key{Kty: static.KeyTypeEC}
	if !readKid(entry, key) {
		return nil
	}
	if !readAlg(entry, key, map[string]bool{static.AlgES256: true}) {
		return nil
	}

	x, okX := entry["x"].(string)
	y, okY := entry["y"].(string)
	if !okX || !okY {
		return nil
	}
	bigX := b64url.DecodeBigInt(x)
	bigY := b64url.DecodeBigInt(y)
	if bigX == nil || bigY == nil {
		return nil
	}

	// The coordinates must name a point on P-256.
	curve := elliptic.P256()
	if !curve.IsOnCurve(bigX, bigY) {
		return nil
	}

	key.ec = &ecdsa.PublicKey{Curve: curve, X: bigX, Y: bigY}
	return key
}

// readKid records an optional "kid". A present but non-string kid makes the
// entry unusable.
func readKid(entry map[string]interface{}, key *Key) bool {
	v, ok := entry["kid"]
	if !ok {
		return true
	}
	kid, ok := v.(string)
	if !ok {
		return false
	}
	key.Kid = kid
	key.KidSpecified = true
	return true
}

// readAlg records an optional "alg" restricted to the allowed set for the
// entry's key family.
func readAlg(entry map[string]interface{}, key *Key, allowed map[string]bool) bool {
	v, ok := entry["alg"]
	if !ok {
		return true
	}
	alg, ok := v.(string)
	if !ok || !allowed[alg] {
		return false
	}
	key.Alg = alg
	key.AlgSpecified = true
	return true
}

// parseRSAPublicKeyDER accepts both the bare PKCS#1 RSAPublicKey structure
// and a SubjectPublicKeyInfo wrapping one.
func parseRSAPublicKeyDER(der []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKCS1PublicKey(der)
	if err == nil {
		return pub, nil
	}
	generic, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := generic.(*rsa.PublicKey)
	if !ok {
		return nil, errNotRSA
	}
	return rsaPub, nil
}

var errNotRSA = errors.New("public key is not an RSA key")
