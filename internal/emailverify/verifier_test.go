package emailverify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	records map[string][]*net.MX
	calls   int
}

func (f *fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	f.calls++
	records, ok := f.records[name]
	if !ok {
		return nil, fmt.Errorf("no such host %s", name)
	}
	return records, nil
}

func TestMXVerifier_Deliverable(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]*net.MX{
		"example.com": {{Host: "mx.example.com", Pref: 10}},
	}}
	v := NewMXVerifier(resolver)

	require.NoError(t, v.Verify(context.Background(), "jane@example.com"))
	assert.Equal(t, 1, resolver.calls)
}

func TestMXVerifier_NoMXRecords(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]*net.MX{
		"example.com": {},
	}}
	v := NewMXVerifier(resolver)

	err := v.Verify(context.Background(), "jane@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no MX records")
}

func TestMXVerifier_MalformedAddress(t *testing.T) {
	v := NewMXVerifier(&fakeResolver{})

	for _, email := range []string{"", "nodomain", "@example.com", "user@"} {
		assert.Error(t, v.Verify(context.Background(), email), "email %q", email)
	}
}

func TestMXVerifier_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	resolver := &fakeResolver{} // every lookup fails
	v := NewMXVerifier(resolver)

	for i := 0; i < 5; i++ {
		require.Error(t, v.Verify(context.Background(), "jane@down.example"))
	}
	calls := resolver.calls

	// The circuit is now open: further calls fail without touching DNS.
	err := v.Verify(context.Background(), "jane@down.example")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, calls, resolver.calls)
}
