package payments

import (
	"encoding/json"
	"testing"

	"footwork_backend/internal/appErrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEventPaymentIntentSucceeded(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "pi_123",
		"status": "succeeded",
		"amount": 1999,
		"metadata": {"user_id": "u-1", "plan_type": "premium"}
	}`)

	evt, err := DecodeEvent("evt_1", "payment_intent.succeeded", raw)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", evt.ID)
	assert.Equal(t, EventKindPaymentSucceeded, evt.Kind)
	assert.Equal(t, "pi_123", evt.PaymentIntentID)
	assert.Equal(t, int64(1999), evt.AmountCents)
	assert.Equal(t, "u-1", evt.Metadata["user_id"])
	assert.Equal(t, "premium", evt.Metadata["plan_type"])
}

func TestDecodeEventPaymentIntentFailed(t *testing.T) {
	raw := json.RawMessage(`{"id": "pi_456", "status": "requires_payment_method", "amount": 999, "metadata": {}}`)

	evt, err := DecodeEvent("evt_2", "payment_intent.payment_failed", raw)
	require.NoError(t, err)
	assert.Equal(t, EventKindPaymentFailed, evt.Kind)
	assert.Equal(t, "pi_456", evt.PaymentIntentID)
}

func TestDecodeEventCheckoutCompleted(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "cs_123",
		"payment_intent": "pi_789",
		"amount_total": 2999,
		"metadata": {"user_id": "u-2", "plan_type": "professional"}
	}`)

	evt, err := DecodeEvent("evt_3", "checkout.session.completed", raw)
	require.NoError(t, err)
	assert.Equal(t, EventKindCheckoutCompleted, evt.Kind)
	assert.Equal(t, "pi_789", evt.PaymentIntentID)
	assert.Equal(t, int64(2999), evt.AmountCents)
	assert.Equal(t, "u-2", evt.Metadata["user_id"])
}

func TestDecodeEventUnknownTypeIsNoOp(t *testing.T) {
	evt, err := DecodeEvent("evt_4", "customer.subscription.updated", json.RawMessage(`{"id": "sub_1"}`))
	require.NoError(t, err)
	assert.Equal(t, EventKindUnknown, evt.Kind)
	assert.Empty(t, evt.PaymentIntentID)
}

func TestDecodeEventMalformedObject(t *testing.T) {
	_, err := DecodeEvent("evt_5", "payment_intent.succeeded", json.RawMessage(`{not json`))
	require.Error(t, err)
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeMalformedPayload, appErr.Code)
}

func TestDecodeEventMissingMetadataStillDecodes(t *testing.T) {
	evt, err := DecodeEvent("evt_6", "payment_intent.succeeded", json.RawMessage(`{"id": "pi_1"}`))
	require.NoError(t, err)
	assert.NotNil(t, evt.Metadata)
	assert.Empty(t, evt.Metadata["user_id"])
}
