package stripe

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testSecret = "whsec_test_secret"

func validPayload() []byte {
	return []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"created": 1700000000,
		"data": {
			"object": {
				"id": "cs_test_1",
				"payment_intent": "pi_test_1",
				"metadata": {"orderId": "42"}
			}
		}
	}`)
}

func TestConstructEvent(t *testing.T) {
	payload := validPayload()
	now := time.Now().Unix()

	tests := []struct {
		name        string
		sigHeader   string
		expectedErr error
	}{
		{
			name:      "valid signature",
			sigHeader: SignHeader(payload, testSecret, now),
		},
		{
			name:        "wrong secret",
			sigHeader:   SignHeader(payload, "whsec_other", now),
			expectedErr: ErrNoValidSignature,
		},
		{
			name:        "tampered payload",
			sigHeader:   SignHeader([]byte(`{"type":"x"}`), testSecret, now),
			expectedErr: ErrNoValidSignature,
		},
		{
			name:        "missing header",
			sigHeader:   "",
			expectedErr: ErrInvalidHeader,
		},
		{
			name:        "malformed header",
			sigHeader:   "not-a-signature",
			expectedErr: ErrInvalidHeader,
		},
		{
			name:        "missing v1 element",
			sigHeader:   fmt.Sprintf("t=%d", now),
			expectedErr: ErrInvalidHeader,
		},
		{
			name:        "stale timestamp",
			sigHeader:   SignHeader(payload, testSecret, time.Now().Add(-time.Hour).Unix()),
			expectedErr: ErrTimestampTooOld,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := ConstructEvent(payload, tt.sigHeader, testSecret)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "evt_123", event.ID)
			assert.Equal(t, EventCheckoutSessionCompleted, event.Type)
			assert.Equal(t, uint(42), event.Data.Object.OrderID())
			assert.Equal(t, "pi_test_1", event.Data.Object.PaymentIntentID())
		})
	}
}

func TestConstructEvent_MultipleSignatures(t *testing.T) {
	payload := validPayload()
	now := time.Now().Unix()

	// A rotated-secret delivery carries one stale and one current v1 element;
	// any single match must be accepted.
	stale := SignHeader(payload, "whsec_old", now)
	current := SignHeader(payload, testSecret, now)
	header := stale + ",v1=" + current[len(fmt.Sprintf("t=%d,v1=", now)):]

	event, err := ConstructEvent(payload, header, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
}

func TestEventObject_OrderID(t *testing.T) {
	tests := []struct {
		name     string
		object   EventObject
		expected uint
	}{
		{"present", EventObject{Metadata: map[string]string{"orderId": "7"}}, 7},
		{"absent", EventObject{}, 0},
		{"not numeric", EventObject{Metadata: map[string]string{"orderId": "abc"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.object.OrderID())
		})
	}
}

func TestEventObject_PaymentIntentID(t *testing.T) {
	assert.Equal(t, "pi_1", EventObject{PaymentIntent: "pi_1"}.PaymentIntentID())
	assert.Equal(t, "pi_2", EventObject{ID: "pi_2"}.PaymentIntentID())
	assert.Equal(t, "", EventObject{ID: "cs_1"}.PaymentIntentID())
}
