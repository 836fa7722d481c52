// Package webhook implements the GitHub App runtime contract: signature
// verification over the raw delivery body, envelope decoding, and handoff
// to the event dispatcher.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/checkmate-dev/checkmate/internal/metrics"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

// Delivery headers per the GitHub webhook contract.
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderSignature = "X-Hub-Signature-256"
)

// ErrBadSignature is returned when the delivery signature does not match
// the shared secret.
var ErrBadSignature = errors.New("webhook signature mismatch")

// Dispatcher is the downstream consumer of validated events.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev *types.Event) error
}

// Receiver validates and routes webhook deliveries.
type Receiver struct {
	secret     []byte
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewReceiver(secret string, dispatcher Dispatcher, logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{secret: []byte(secret), dispatcher: dispatcher, logger: logger}
}

// Signature computes the hex HMAC-SHA256 signature header value for body.
func Signature(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Receive validates one delivery and dispatches it. A missing delivery id
// is synthesized so downstream logs always carry one. Only a signature
// mismatch is returned as ErrBadSignature; envelope and dispatch problems
// are wrapped as ordinary errors.
func (r *Receiver) Receive(ctx context.Context, eventType, delivery, signature string, body []byte) error {
	metrics.WebhooksReceived.Add(1)

	expected := Signature(r.secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		metrics.WebhooksRejected.Add(1)
		return ErrBadSignature
	}

	if delivery == "" {
		delivery = ulid.Make().String()
	}

	ev, err := types.ParseEvent(eventType, delivery, body)
	if err != nil {
		return err
	}
	return r.dispatcher.Dispatch(ctx, ev)
}

// HTTPHandler adapts the receiver to an HTTP endpoint. The response code
// reflects signature validation only: 500 on mismatch, 200 otherwise.
// Envelope and dispatch problems are logged, not surfaced to the sender,
// so GitHub does not redeliver events the bot cannot use.
func (r *Receiver) HTTPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			r.logger.Error("reading webhook body", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		err = r.Receive(req.Context(),
			req.Header.Get(HeaderEvent),
			req.Header.Get(HeaderDelivery),
			req.Header.Get(HeaderSignature),
			body)
		if errors.Is(err, ErrBadSignature) {
			r.logger.Warn("rejected webhook delivery", "delivery", req.Header.Get(HeaderDelivery))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if err != nil {
			r.logger.Error("webhook delivery not processed",
				"delivery", req.Header.Get(HeaderDelivery), "error", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
