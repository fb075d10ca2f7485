package payments

import (
	"context"
)

// Metadata keys attached to provider objects so webhook events can be
// attributed back to local users and plans.
const (
	MetaUserID       = "user_id"
	MetaUserEmail    = "user_email"
	MetaPlanType     = "plan_type"
	MetaUpgrade      = "upgrade"
	MetaMembershipID = "membership_id"
)

// CheckoutParams describes a hosted checkout to open.
type CheckoutParams struct {
	AmountCents   int64
	Currency      string
	CustomerEmail string
	ProductName   string
	Metadata      map[string]string
}

// CheckoutSession is the provider-side checkout state.
type CheckoutSession struct {
	ID              string
	ClientSecret    string
	PaymentIntentID string
	Status          string
	CustomerEmail   string
	Metadata        map[string]string
}

// IntentParams describes a direct payment intent (used for upgrades).
type IntentParams struct {
	AmountCents  int64
	Currency     string
	ReceiptEmail string
	Metadata     map[string]string
}

// Intent is the provider-side payment intent state.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Metadata     map[string]string
}

const IntentStatusSucceeded = "succeeded"

// Gateway is the payment-provider boundary. The implementation holds its own
// client and credentials; construct once at startup and inject.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*Intent, error)
	GetPaymentIntent(ctx context.Context, intentID string) (*Intent, error)

	// VerifyWebhook authenticates a raw webhook delivery. It must be called
	// before trusting any part of the body.
	VerifyWebhook(payload []byte, sigHeader string) (*Event, error)
}
