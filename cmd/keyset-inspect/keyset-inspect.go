// The keyset-inspect command parses a local key source, either a JWKS
// document or a bare base64 DER RSA public key, and prints the keys it would
// make available for verification.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/m-lab/go/flagx"
	"github.com/m-lab/go/rtx"

	"github.com/tokenauth/jwtverify/keyset"
	"github.com/tokenauth/jwtverify/status"
)

var (
	jwksFile flagx.FileBytes
	pemFile  flagx.FileBytes
	osExit   = os.Exit
)

func init() {
	flag.Var(&jwksFile, "jwks", "Path to a JWKS document")
	flag.Var(&pemFile, "pem", "Path to a base64 DER-encoded RSA public key")
}

func main() {
	flag.Parse()
	rtx.Must(flagx.ArgsFromEnv(flag.CommandLine), "Could not parse env args")
	osExit(run(jwksFile, pemFile, os.Stdout))
}

func run(jwks, pem []byte, out io.Writer) int {
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

	if keys.Status != status.OK {
		fmt.Fprintln(os.Stderr, "key set unusable:", keys.Status)
		return 1
	}

	for i, key := range keys.Keys {
		kid := "(any)"
		if key.KidSpecified {
			kid = key.Kid
		}
		alg := "(any)"
		if key.AlgSpecified {
			alg = key.Alg
		}
		fmt.Fprintf(out, "%d: kty=%s kid=%s alg=%s\n", i, key.Kty, kid, alg)
	}
	return 0
}
