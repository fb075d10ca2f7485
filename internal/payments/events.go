package payments

import (
	"encoding/json"

	"footwork_backend/internal/appErrors"
)

// EventKind enumerates the provider event types this system reacts to.
// Everything else decodes to EventKindUnknown and is acknowledged without
// side effects.
type EventKind string

const (
	EventKindPaymentSucceeded  EventKind = "payment_intent.succeeded"
	EventKindPaymentFailed     EventKind = "payment_intent.payment_failed"
	EventKindCheckoutCompleted EventKind = "checkout.session.completed"
	EventKindUnknown           EventKind = "unknown"
)

// Event is the typed form of a provider webhook event. Only the fields the
// reconciliation handler needs survive decoding; unknown fields are ignored.
type Event struct {
	ID              string
	Kind            EventKind
	PaymentIntentID string
	AmountCents     int64
	Metadata        map[string]string
	Raw             json.RawMessage
}

// paymentObject is the subset of a payment_intent object we read.
type paymentObject struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	Amount   int64             `json:"amount"`
	Metadata map[string]string `json:"metadata"`
}

// checkoutObject is the subset of a checkout.session object we read. The
// payment_intent field arrives as a bare id string on webhook payloads.
type checkoutObject struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
	AmountTotal   int64             `json:"amount_total"`
}

// DecodeEvent turns a verified provider event into the typed variant.
func DecodeEvent(eventID, eventType string, raw json.RawMessage) (*Event, error) {
	evt := &Event{
		ID:       eventID,
		Kind:     EventKindUnknown,
		Metadata: map[string]string{},
		Raw:      raw,
	}

	switch eventType {
	case string(EventKindPaymentSucceeded), string(EventKindPaymentFailed):
		var obj paymentObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, appErrors.ErrMalformedPayload.WithError(err)
		}
		evt.Kind = EventKind(eventType)
		evt.PaymentIntentID = obj.ID
		evt.AmountCents = obj.Amount
		if obj.Metadata != nil {
			evt.Metadata = obj.Metadata
		}

	case string(EventKindCheckoutCompleted):
		var obj checkoutObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, appErrors.ErrMalformedPayload.WithError(err)
		}
		evt.Kind = EventKindCheckoutCompleted
		evt.PaymentIntentID = obj.PaymentIntent
		evt.AmountCents = obj.AmountTotal
		if obj.Metadata != nil {
			evt.Metadata = obj.Metadata
		}

	default:
		// unknown kinds are routed to the no-op branch by the handler
	}

	return evt, nil
}
