// Package metrics defines prometheus metrics for the jwtverify packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationsTotal counts token verification attempts by token
	// algorithm and resulting status.
	//
	// Example usage:
	// metrics.VerificationsTotal.WithLabelValues("RS256", "OK").Inc()
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jwtverify_verifications_total",
			Help: "Number of token verification attempts.",
		},
		[]string{"alg", "status"},
	)

	// KeysetLoadsTotal counts key-set builds by source material and
	// resulting status.
	//
	// Example usage:
	// metrics.KeysetLoadsTotal.WithLabelValues("jwks", "OK").Inc()
	KeysetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jwtverify_keyset_loads_total",
			Help: "Number of key-set builds from PEM or JWKS material.",
		},
		[]string{"source", "status"},
	)
)
