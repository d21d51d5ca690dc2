package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/m-lab/go/rtx"
	"github.com/m-lab/go/testingx"
	jose "gopkg.in/square/go-jose.v2"

	"github.com/tokenauth/jwtverify/b64url"
	"github.com/tokenauth/jwtverify/keyset"
	"github.com/tokenauth/jwtverify/status"
	"github.com/tokenauth/jwtverify/token"
)

var (
	testRSAKey  *rsa.PrivateKey
	decoyRSAKey *rsa.PrivateKey
	testECKey   *ecdsa.PrivateKey
)

func init() {
	var err error
	testRSAKey, err = rsa.GenerateKey(rand.Reader, 2048)
	rtx.Must(err, "Failed to generate RSA key")
	decoyRSAKey, err = rsa.GenerateKey(rand.Reader, 2048)
	rtx.Must(err, "Failed to generate decoy RSA key")
	testECKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	rtx.Must(err, "Failed to generate EC key")
}

// signToken mints a compact token. A non-empty kid is carried in the token
// header.
func signToken(t *testing.T, alg jose.SignatureAlgorithm, key interface{}, kid string, claims map[string]interface{}) string {
	sk := jose.SigningKey{Algorithm: alg, Key: key}
	if kid != "" {
		sk.Key = &jose.JSONWebKey{Key: key, KeyID: kid}
	}
	signer, err := jose.NewSigner(sk, nil)
	testingx.Must(t, err, "failed to create signer")
	if claims == nil {
		claims = map[string]interface{}{}
	}
	payload, err := json.Marshal(claims)
	testingx.Must(t, err, "failed to marshal claims")
	obj, err := signer.Sign(payload)
	testingx.Must(t, err, "failed to sign payload")
	raw, err := obj.CompactSerialize()
	testingx.Must(t, err, "failed to serialize token")
	return raw
}

// jwksFor builds a key set from the given public keys.
func jwksFor(t *testing.T, keys ...jose.JSONWebKey) *keyset.Set {
	b, err := json.Marshal(jose.JSONWebKeySet{Keys: keys})
	testingx.Must(t, err, "failed to marshal JWKS")
	set := keyset.FromJWKS(string(b))
	if set.Status != status.OK {
		t.Fatalf("test JWKS did not build: %v", set.Status)
	}
	return set
}

// corruptSignature flips the first character of the signature segment while
// keeping the token a structurally valid base64url string.
func corruptSignature(raw string) string {
	i := strings.LastIndex(raw, ".") + 1
	b := []byte(raw)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestVerify_RS256(t *testing.T) {
	raw := signToken(t, jose.RS256, testRSAKey, "k1", map[string]interface{}{"iss": "me"})
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey, KeyID: "k1", Algorithm: "RS256", Use: "sig"})

	jwt := token.Parse(raw)
	ok, st := Verify(jwt, keys)
	if !ok || st != status.OK {
		t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
	}
	if jwt.Iss != "me" {
		t.Errorf("Iss = %q, want me", jwt.Iss)
	}
}

func TestVerify_ES256(t *testing.T) {
	raw := signToken(t, jose.ES256, testECKey, "ec-1", map[string]interface{}{"sub": "svc"})
	keys := jwksFor(t, jose.JSONWebKey{Key: &testECKey.PublicKey, KeyID: "ec-1", Algorithm: "ES256", Use: "sig"})

	ok, st := Verify(token.Parse(raw), keys)
	if !ok || st != status.OK {
		t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
	}
}

func TestVerify_PEMKey(t *testing.T) {
	raw := signToken(t, jose.RS256, testRSAKey, "", map[string]interface{}{"iss": "me"})
	blob := base64.StdEncoding.EncodeToString(x509.MarshalPKCS1PublicKey(&testRSAKey.PublicKey))

	ok, st := Verify(token.Parse(raw), keyset.FromPEM(blob))
	if !ok || st != status.OK {
		t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
	}
}

func TestVerify_DigestSelection(t *testing.T) {
	// Keys without a declared alg must verify any RSA token algorithm.
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey})

	for _, alg := range []jose.SignatureAlgorithm{jose.RS256, jose.RS384, jose.RS512} {
		t.Run(string(alg), func(t *testing.T) {
			raw := signToken(t, alg, testRSAKey, "", nil)
			ok, st := Verify(token.Parse(raw), keys)
			if !ok || st != status.OK {
				t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
			}
		})
	}
}

func TestVerify_KidMismatch(t *testing.T) {
	raw := signToken(t, jose.RS256, testRSAKey, "token-kid", nil)
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey, KeyID: "other-kid"})

	ok, st := Verify(token.Parse(raw), keys)
	if ok || st != status.KidAlgUnmatch {
		t.Errorf("Verify() = %v, %v, want false, KID_ALG_UNMATCH", ok, st)
	}
}

func TestVerify_AlgMismatch(t *testing.T) {
	raw := signToken(t, jose.RS384, testRSAKey, "", nil)
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey, Algorithm: "RS256"})

	ok, st := Verify(token.Parse(raw), keys)
	if ok || st != status.KidAlgUnmatch {
		t.Errorf("Verify() = %v, %v, want false, KID_ALG_UNMATCH", ok, st)
	}
}

func TestVerify_KeyWithoutKidMatchesAnyToken(t *testing.T) {
	raw := signToken(t, jose.RS256, testRSAKey, "some-kid", nil)
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey})

	ok, st := Verify(token.Parse(raw), keys)
	if !ok || st != status.OK {
		t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
	}
}

func TestVerify_FirstMatchWins(t *testing.T) {
	// Both keys are candidates; the decoy fails and the loop continues to
	// the signer's key.
	raw := signToken(t, jose.RS256, testRSAKey, "", nil)
	keys := jwksFor(t,
		jose.JSONWebKey{Key: &decoyRSAKey.PublicKey},
		jose.JSONWebKey{Key: &testRSAKey.PublicKey},
	)

	ok, st := Verify(token.Parse(raw), keys)
	if !ok || st != status.OK {
		t.Errorf("Verify() = %v, %v, want true, OK", ok, st)
	}
}

func TestVerify_CorruptSignature(t *testing.T) {
	raw := corruptSignature(signToken(t, jose.RS256, testRSAKey, "k1", nil))
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey, KeyID: "k1"})

	ok, st := Verify(token.Parse(raw), keys)
	if ok || st != status.JWTInvalidSignature {
		t.Errorf("Verify() = %v, %v, want false, JWT_INVALID_SIGNATURE", ok, st)
	}
}

func TestVerify_ECSignatureLength(t *testing.T) {
	keys := jwksFor(t, jose.JSONWebKey{Key: &testECKey.PublicKey})

	// An EC signature that is not exactly 64 bytes never verifies,
	// whatever its content.
	for _, n := range []int{1, 63, 65, 128} {
		sig := make([]byte, n)
		for i := range sig {
			sig[i] = 0x01
		}
		raw := b64url.Encode([]byte(`{"alg":"ES256"}`)) + "." +
			b64url.Encode([]byte(`{}`)) + "." +
			b64url.Encode(sig)

		ok, st := Verify(token.Parse(raw), keys)
		if ok || st != status.JWTInvalidSignature {
			t.Errorf("Verify() with %d-byte signature = %v, %v, want false, JWT_INVALID_SIGNATURE", n, ok, st)
		}
	}
}

func TestVerify_PropagatesTokenStatus(t *testing.T) {
	keys := jwksFor(t, jose.JSONWebKey{Key: &testRSAKey.PublicKey})

	ok, st := Verify(token.Parse("only.two"), keys)
	if ok || st != status.JWTBadFormat {
		t.Errorf("Verify() = %v, %v, want false, JWT_BAD_FORMAT", ok, st)
	}
}

func TestVerify_PropagatesKeysetStatus(t *testing.T) {
	raw := signToken(t, jose.RS256, testRSAKey, "", nil)

	ok, st := Verify(token.Parse(raw), keyset.FromJWKS(`{}`))
	if ok || st != status.JWKNoKeys {
		t.Errorf("Verify() = %v, %v, want false, JWK_NO_KEYS", ok, st)
	}
}
