package dto

import (
	"time"

	"footwork_backend/internal/models"
)

type CreateCheckoutRequest struct {
	PlanType models.MembershipPlan `json:"plan_type" validate:"required,oneof=basic premium professional"`
}

type CheckoutSessionResponse struct {
	SessionID    string `json:"session_id"`
	ClientSecret string `json:"client_secret"`
}

type CheckoutStatusResponse struct {
	Status          string `json:"status"`
	CustomerEmail   string `json:"customer_email,omitempty"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
}

// ConfirmPaymentRequest is the client-driven fallback to webhook delivery: the
// frontend reports the intent it just paid and the server re-verifies it with
// the provider.
type ConfirmPaymentRequest struct {
	PaymentIntentID string                `json:"payment_intent_id" validate:"required"`
	PlanType        models.MembershipPlan `json:"plan_type" validate:"required,oneof=basic premium professional"`
}

type UpgradeRequest struct {
	PlanType models.MembershipPlan `json:"plan_type" validate:"required,oneof=basic premium professional"`
}

// UpgradeResponse returns the pro-rated intent the client must complete.
type UpgradeResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
}

type PlanInfo struct {
	PlanType models.MembershipPlan `json:"plan_type"`
	Price    float64               `json:"price"`
	Currency string                `json:"currency"`
}

type MembershipResponse struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	PlanType        models.MembershipPlan   `json:"plan_type"`
	Status          models.MembershipStatus `json:"status"`
	Price           float64                 `json:"price"`
	StartDate       *time.Time              `json:"start_date,omitempty"`
	RenewalDate     *time.Time              `json:"renewal_date,omitempty"`
	PaymentIntentID string                  `json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

func MembershipToResponse(m *models.Membership) MembershipResponse {
	out := MembershipResponse{
		ID:              m.ID,
		UserID:          m.UserID,
		PlanType:        m.PlanType,
		Status:          m.Status,
		Price:           m.Price,
		PaymentIntentID: m.PaymentIntentID,
		CreatedAt:       m.CreatedAt,
	}
	if !m.StartDate.IsZero() {
		start := m.StartDate
		out.StartDate = &start
	}
	if !m.RenewalDate.IsZero() {
		renewal := m.RenewalDate
		out.RenewalDate = &renewal
	}
	return out
}

func MembershipsToResponse(list []models.Membership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(list))
	for i := range list {
		out = append(out, MembershipToResponse(&list[i]))
	}
	return out
}
