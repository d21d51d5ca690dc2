// The verify-token command verifies a compact JWT against a local key
// source, either a JWKS document or a bare base64 DER RSA public key, and
// prints the decoded claims on success.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/logx"
	"github.com/m-lab/go/pretty"
	"github.com/m-lab/go/rtx"
	log "github.com/sirupsen/logrus"

	"github.com/tokenauth/jwtverify/keyset"
	"github.com/tokenauth/jwtverify/status"
	"github.com/tokenauth/jwtverify/token"
	"github.com/tokenauth/jwtverify/verifier"
)

var (
	rawToken string
	jwksFile flagx.FileBytes
	pemFile  flagx.FileBytes
	issuer   string
	audience string
	noExpiry bool
	osExit   = os.Exit
)

func init() {
	flag.StringVar(&rawToken, "token", "", "Compact JWT to verify")
	flag.Var(&jwksFile, "jwks", "Path to a JWKS document with verification keys")
	flag.Var(&pemFile, "pem", "Path to a base64 DER-encoded RSA public key")
	flag.StringVar(&issuer, "issuer", "", "Require this token issuer")
	flag.StringVar(&audience, "audience", "", "Require this audience in the token")
	flag.BoolVar(&noExpiry, "no-expiry", false, "Skip the token expiry check")
}

// claims is the printable verification result.
type claims struct {
	Issuer   string
	Subject  string
	Audience []string
	Expiry   uint64
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "Could not parse env args")
	log.SetFormatter(&log.JSONFormatter{})
	osExit(run(rawToken, jwksFile, pemFile))
}

func run(raw string, jwks, pem []byte) int {
	var keys *keyset.Set
	switch {
	case len(jwks) > 0:
		keys = keyset.FromJWKS(string(jwks))
	case len(pem) > 0:
		keys = keyset.FromPEM(string(pem))
	default:
		fmt.Fprintln(os.Stderr, "one of -jwks or -pem is required")
		return 2
	}

	jwt := token.Parse(raw)
	ok, st := verifier.Verify(jwt, keys)
	logx.Debug.Println("verification status:", st)
	if !ok {
		fmt.Fprintln(os.Stderr, "verification failed:", st)
		return 1
	}

	expected := verifier.Expected{}
	if !noExpiry {
		expected.Time = time.Now()
	}
	if issuer != "" {
		expected.Issuers = []string{issuer}
	}
	if audience != "" {
		expected.Audiences = []string{audience}
	}
	if st := expected.Check(jwt); st != status.OK {
		fmt.Fprintln(os.Stderr, "claim check failed:", st)
		return 1
	}

	fmt.Print(pretty.Sprint(claims{
		Issuer:   jwt.Iss,
		Subject:  jwt.Sub,
		Audience: jwt.Aud,
		Expiry:   jwt.Exp,
	}))
	return 0
}
