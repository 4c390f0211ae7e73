// Package stripe implements parsing and signature verification for inbound
// Stripe webhook deliveries. Only the fields this service consumes are
// modelled; the rest of the gateway envelope is carried opaquely.
package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignatureHeader is the HTTP header carrying the webhook signature.
const SignatureHeader = "Stripe-Signature"

// DefaultTolerance is the maximum accepted age of a signed payload. Replays
// older than this are rejected even with a valid signature.
const DefaultTolerance = 5 * time.Minute

// Event types this service reacts to. Anything else is acknowledged and
// ignored.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventCheckoutSessionExpired   = "checkout.session.expired"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
)

var (
	// ErrInvalidHeader is returned when the signature header is malformed.
	ErrInvalidHeader = errors.New("invalid Stripe-Signature header")
	// ErrNoValidSignature is returned when no v1 signature matches.
	ErrNoValidSignature = errors.New("no valid signature found")
	// ErrTimestampTooOld is returned when the signed timestamp is outside
	// the tolerance window.
	ErrTimestampTooOld = errors.New("webhook timestamp outside tolerance")
)

// Event is the gateway-defined JSON envelope.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

// EventData wraps the object the event describes.
type EventData struct {
	Object EventObject `json:"object"`
}

// EventObject carries the checkout-session or payment-intent fields used to
// correlate the event back to an order: metadata.orderId when present,
// otherwise the payment intent id.
type EventObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// OrderID returns the order id embedded in session metadata, or 0 when absent
// or unparsable.
func (o EventObject) OrderID() uint {
	raw, ok := o.Metadata["orderId"]
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// PaymentIntentID returns the payment intent id the event refers to. For
// payment_intent.* events that is the object id itself.
func (o EventObject) PaymentIntentID() string {
	if o.PaymentIntent != "" {
		return o.PaymentIntent
	}
	if strings.HasPrefix(o.ID, "pi_") {
		return o.ID
	}
	return ""
}

// ConstructEvent verifies the signature header against the raw request body
// and unmarshals the envelope. The body must be the exact bytes received;
// any re-serialization breaks the HMAC.
func ConstructEvent(payload []byte, sigHeader, secret string) (Event, error) {
	return ConstructEventWithTolerance(payload, sigHeader, secret, DefaultTolerance)
}

// ConstructEventWithTolerance is ConstructEvent with an explicit replay
// tolerance window.
func ConstructEventWithTolerance(payload []byte, sigHeader, secret string, tolerance time.Duration) (Event, error) {
	var event Event

	ts, signatures, err := parseSignatureHeader(sigHeader)
	if err != nil {
		return event, err
	}

	if time.Since(time.Unix(ts, 0)) > tolerance {
		return event, ErrTimestampTooOld
	}

	expected := ComputeSignature(payload, secret, ts)
	valid := false
	for _, sig := range signatures {
		raw, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(raw, expected) {
			valid = true
			break
		}
	}
	if !valid {
		return event, ErrNoValidSignature
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}

// ComputeSignature returns the HMAC-SHA256 of "<timestamp>.<payload>" keyed
// with the webhook signing secret. Exported for tests and local tooling that
// need to fabricate valid deliveries.
func ComputeSignature(payload []byte, secret string, ts int64) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignHeader builds a Stripe-Signature header value for the payload, signed
// at ts. Used by tests and the seed tooling.
func SignHeader(payload []byte, secret string, ts int64) string {
	sig := ComputeSignature(payload, secret, ts)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(sig))
}

// parseSignatureHeader splits "t=<unix>,v1=<hex>[,v1=<hex>...]". Elements
// with unknown prefixes are ignored, matching the gateway's format evolution
// rules.
func parseSignatureHeader(header string) (ts int64, signatures []string, err error) {
	if header == "" {
		return 0, nil, ErrInvalidHeader
	}

	tsSeen := false
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return 0, nil, ErrInvalidHeader
		}
		switch kv[0] {
		case "t":
			ts, err = strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, ErrInvalidHeader
			}
			tsSeen = true
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if !tsSeen || len(signatures) == 0 {
		return 0, nil, ErrInvalidHeader
	}
	return ts, signatures, nil
}
