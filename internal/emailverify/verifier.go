// Package emailverify checks that an email address can plausibly receive
// mail, by verifying its domain publishes MX records.
package emailverify

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/checkmate-dev/checkmate/internal/metrics"
)

// Verifier decides whether an email address is deliverable.
type Verifier interface {
	Verify(ctx context.Context, email string) error
}

// Resolver is the DNS surface the MX verifier needs.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MXVerifier verifies deliverability with an MX lookup. Lookups go through a
// circuit breaker so a broken resolver path fails fast instead of stalling
// every verification in flight.
type MXVerifier struct {
	resolver Resolver
	breaker  *gobreaker.CircuitBreaker
	timeout  time.Duration
}

// NewMXVerifier creates an MXVerifier. A nil resolver uses the default
// system resolver.
func NewMXVerifier(resolver Resolver) *MXVerifier {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "email-mx-lookup",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &MXVerifier{
		resolver: resolver,
		breaker:  breaker,
		timeout:  5 * time.Second,
	}
}

// Verify returns nil when the address has a syntactically valid domain with
// at least one MX record.
func (v *MXVerifier) Verify(ctx context.Context, email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("malformed email address %q", email)
	}
	domain := email[at+1:]

	_, err := v.breaker.Execute(func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
		defer cancel()

		records, err := v.resolver.LookupMX(lookupCtx, domain)
		if err != nil {
			return nil, fmt.Errorf("resolving MX for %s: %w", domain, err)
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("no MX records for %s", domain)
		}
		return nil, nil
	})
	if err != nil {
		metrics.EmailVerifyFailures.Add(1)
	}
	return err
}
