package payments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"footwork_backend/internal/appErrors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements Gateway against Stripe. The client is constructed
// once at startup with a bounded timeout and a single network retry; signature
// verification failures are never retried.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	returnURL     string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	ReturnURL     string
	Timeout       time.Duration
}

func NewStripeGateway(cfg StripeConfig) *StripeGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(1),
	})

	api := &client.API{}
	api.Init(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		returnURL:     cfg.ReturnURL,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Params:        stripe.Params{Context: ctx},
		UIMode:        stripe.String(string(stripe.CheckoutSessionUIModeEmbedded)),
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		ReturnURL:     stripe.String(g.returnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CustomerEmail: stripe.String(params.CustomerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ProductName),
					},
					UnitAmount: stripe.Int64(params.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		// Metadata on the payment intent is what the reconciliation handler
		// reads off payment_intent.succeeded events.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: params.Metadata,
		},
	}
	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	sess, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, mapProviderError(err)
	}

	return checkoutFromStripe(sess), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	sess, err := g.api.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, mapProviderError(err)
	}
	return checkoutFromStripe(sess), nil
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	currency := params.Currency
	if currency == "" {
		currency = "usd"
	}

	intentParams := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(params.AmountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.ReceiptEmail != "" {
		intentParams.ReceiptEmail = stripe.String(params.ReceiptEmail)
	}
	for k, v := range params.Metadata {
		intentParams.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(intentParams)
	if err != nil {
		return nil, mapProviderError(err)
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) GetPaymentIntent(ctx context.Context, intentID string) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Get(intentID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, mapProviderError(err)
	}
	return intentFromStripe(pi), nil
}

func (g *StripeGateway) VerifyWebhook(payload []byte, sigHeader string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		if isSignatureError(err) {
			return nil, appErrors.ErrSignatureInvalid.WithError(err)
		}
		return nil, appErrors.ErrMalformedPayload.WithError(err)
	}

	return DecodeEvent(event.ID, string(event.Type), event.Data.Raw)
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}

func checkoutFromStripe(sess *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            sess.ID,
		ClientSecret:  sess.ClientSecret,
		Status:        string(sess.Status),
		CustomerEmail: sess.CustomerEmail,
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	if out.CustomerEmail == "" && sess.CustomerDetails != nil {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	return out
}

func intentFromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountCents:  pi.Amount,
		Metadata:     pi.Metadata,
	}
}

func mapProviderError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "payment provider request failed"
		}
		return appErrors.PaymentProviderError(err, "Stripe error: "+msg)
	}
	return appErrors.PaymentProviderError(err, "payment provider unavailable")
}
