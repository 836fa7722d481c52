package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

const secret = "it's a secret to everybody"

var payload = []byte(`{
	"action": "opened",
	"repository": {"name": "widgets", "full_name": "acme/widgets", "owner": {"login": "acme"}},
	"sender": {"login": "octocat", "type": "User"},
	"pull_request": {"number": 7, "title": "feat: add things", "head": {"ref": "f", "sha": "abc"}, "base": {"ref": "main"}}
}`)

type captureDispatcher struct {
	events []*types.Event
	err    error
}

func (c *captureDispatcher) Dispatch(_ context.Context, ev *types.Event) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestReceiveValidDelivery(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	sig := Signature([]byte(secret), payload)
	err := r.Receive(context.Background(), "pull_request", "d-1", sig, payload)

	require.NoError(t, err)
	require.Len(t, d.events, 1)
	ev := d.events[0]
	assert.Equal(t, "pull_request", ev.Type)
	assert.Equal(t, "opened", ev.Action)
	assert.Equal(t, "d-1", ev.Delivery)
	assert.Equal(t, "acme/widgets", ev.Repo.FullName)
	require.NotNil(t, ev.PullRequest)
	assert.Equal(t, 7, ev.PullRequest.Number)
}

func TestReceiveBadSignature(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	err := r.Receive(context.Background(), "pull_request", "d-1", "sha256=deadbeef", payload)

	require.ErrorIs(t, err, ErrBadSignature)
	assert.Empty(t, d.events)
}

func TestReceiveTamperedBody(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	sig := Signature([]byte(secret), payload)
	tampered := []byte(strings.Replace(string(payload), `"opened"`, `"closed"`, 1))
	err := r.Receive(context.Background(), "pull_request", "d-1", sig, tampered)

	require.ErrorIs(t, err, ErrBadSignature)
}

func TestReceiveSynthesizesDeliveryID(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	sig := Signature([]byte(secret), payload)
	require.NoError(t, r.Receive(context.Background(), "pull_request", "", sig, payload))

	require.Len(t, d.events, 1)
	assert.NotEmpty(t, d.events[0].Delivery)
}

func TestHTTPHandlerValid(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", strings.NewReader(string(payload)))
	req.Header.Set(HeaderEvent, "pull_request")
	req.Header.Set(HeaderDelivery, "d-1")
	req.Header.Set(HeaderSignature, Signature([]byte(secret), payload))
	rec := httptest.NewRecorder()

	r.HTTPHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, d.events, 1)
}

func TestHTTPHandlerBadSignature(t *testing.T) {
	d := &captureDispatcher{}
	r := NewReceiver(secret, d, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", strings.NewReader(string(payload)))
	req.Header.Set(HeaderEvent, "pull_request")
	req.Header.Set(HeaderSignature, "sha256=deadbeef")
	rec := httptest.NewRecorder()

	r.HTTPHandler()(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, d.events)
}

func TestHTTPHandlerDispatchErrorStillAccepts(t *testing.T) {
	d := &captureDispatcher{err: assert.AnError}
	r := NewReceiver(secret, d, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook", strings.NewReader(string(payload)))
	req.Header.Set(HeaderEvent, "pull_request")
	req.Header.Set(HeaderSignature, Signature([]byte(secret), payload))
	rec := httptest.NewRecorder()

	r.HTTPHandler()(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
