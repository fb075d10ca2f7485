package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/email"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"
	"footwork_backend/internal/payments"
	"footwork_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// errEventDuplicate signals inside a transaction that the provider event was
// already recorded; the delivery is acknowledged without re-applying it.
var errEventDuplicate = errors.New("duplicate payment event")

// ReconciliationService owns every path that turns provider-side payment
// state into local membership state: checkout creation, webhook events, the
// client confirmation fallback and plan upgrades.
type ReconciliationService interface {
	CreateCheckoutSession(ctx context.Context, db *gorm.DB, userID string, plan models.MembershipPlan) (*payments.CheckoutSession, error)
	GetCheckoutStatus(ctx context.Context, userID, sessionID string) (*payments.CheckoutSession, error)
	ConfirmPayment(ctx context.Context, db *gorm.DB, userID, intentID string, plan models.MembershipPlan) (*models.Membership, error)
	RequestUpgrade(ctx context.Context, db *gorm.DB, userID string, newPlan models.MembershipPlan) (*payments.Intent, error)
	HandleWebhook(db *gorm.DB, payload []byte, sigHeader string) error
	HandleEvent(db *gorm.DB, event *payments.Event) error
}

type ReconciliationServiceImpl struct {
	gateway        payments.Gateway
	membershipSvc  MembershipService
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	eventRepo      repositories.PaymentEventRepository
	mailer         email.Provider

	// overridable in tests
	now   func() time.Time
	runTx func(db *gorm.DB, fn func(tx *gorm.DB) error) error
}

func NewReconciliationService(
	gateway payments.Gateway,
	membershipSvc MembershipService,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	eventRepo repositories.PaymentEventRepository,
	mailer email.Provider,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		gateway:        gateway,
		membershipSvc:  membershipSvc,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		eventRepo:      eventRepo,
		mailer:         mailer,
		now:            time.Now,
		runTx: func(db *gorm.DB, fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
	}
}

// CreateCheckoutSession opens a hosted checkout for a first-time purchase and
// records a pending membership row keyed by the session id.
func (s *ReconciliationServiceImpl) CreateCheckoutSession(ctx context.Context, db *gorm.DB, userID string, plan models.MembershipPlan) (*payments.CheckoutSession, error) {
	amountCents, err := PlanAmountCents(plan)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	// Checked before the provider call so active holders never open a
	// checkout; CreatePending re-checks inside.
	if _, err := s.membershipRepo.FindActiveByUserID(db, userID); err == nil {
		return nil, appErrors.ErrActiveMembershipExists
	} else if err != repositories.ErrMembershipNotFound {
		return nil, appErrors.InternalError(err)
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountCents:   amountCents,
		Currency:      planCurrency,
		CustomerEmail: user.Email,
		ProductName:   fmt.Sprintf("Footwork membership (%s)", plan),
		Metadata: map[string]string{
			payments.MetaUserID:    userID,
			payments.MetaUserEmail: user.Email,
			payments.MetaPlanType:  string(plan),
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.membershipSvc.CreatePending(db, userID, plan, sess.ID); err != nil {
		return nil, err
	}

	logger.Info("checkout session created",
		"user_id", userID, "plan_type", plan, "session_id", sess.ID)
	return sess, nil
}

// GetCheckoutStatus retrieves a session's provider-side state. Sessions carry
// the purchaser's id in metadata; other callers are refused.
func (s *ReconciliationServiceImpl) GetCheckoutStatus(ctx context.Context, userID, sessionID string) (*payments.CheckoutSession, error) {
	sess, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if owner := sess.Metadata[payments.MetaUserID]; owner != "" && owner != userID {
		return nil, appErrors.NewForbiddenError("Checkout session does not belong to the current user")
	}
	return sess, nil
}

// ConfirmPayment is the client-driven fallback when the webhook is delayed.
// The intent is re-fetched from the provider; the client's claim alone never
// activates anything.
func (s *ReconciliationServiceImpl) ConfirmPayment(ctx context.Context, db *gorm.DB, userID, intentID string, plan models.MembershipPlan) (*models.Membership, error) {
	intent, err := s.gateway.GetPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != payments.IntentStatusSucceeded {
		return nil, appErrors.ErrPaymentNotCompleted.WithDetails(map[string]string{
			"payment_intent_id": intentID,
			"status":            intent.Status,
		})
	}
	if owner := intent.Metadata[payments.MetaUserID]; owner != "" && owner != userID {
		return nil, appErrors.NewForbiddenError("Payment does not belong to the current user")
	}

	// Synthesize an event over the verified intent. The distinct event id
	// keeps the dedupe table from blocking the real webhook delivery; the
	// in-transaction active check keeps the two paths from double-applying.
	evt := &payments.Event{
		ID:              "confirm_" + intentID,
		Kind:            payments.EventKindPaymentSucceeded,
		PaymentIntentID: intentID,
		Metadata:        map[string]string{},
	}
	for k, v := range intent.Metadata {
		evt.Metadata[k] = v
	}
	if evt.Metadata[payments.MetaUserID] == "" {
		evt.Metadata[payments.MetaUserID] = userID
	}
	if evt.Metadata[payments.MetaPlanType] == "" {
		evt.Metadata[payments.MetaPlanType] = string(plan)
	}

	return s.applySuccess(db, evt)
}

// RequestUpgrade quotes the pro-rated difference and opens a payment intent
// for it. The plan switch itself happens when that intent succeeds.
func (s *ReconciliationServiceImpl) RequestUpgrade(ctx context.Context, db *gorm.DB, userID string, newPlan models.MembershipPlan) (*payments.Intent, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	current, err := s.membershipRepo.FindActiveByUserID(db, userID)
	if err != nil {
		if err == repositories.ErrMembershipNotFound {
			return nil, appErrors.ErrMembershipNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	amountCents, err := QuoteUpgradeCents(current, newPlan, s.now())
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payments.IntentParams{
		AmountCents:  amountCents,
		Currency:     planCurrency,
		ReceiptEmail: user.Email,
		Metadata: map[string]string{
			payments.MetaUserID:       userID,
			payments.MetaPlanType:     string(newPlan),
			payments.MetaUpgrade:      "true",
			payments.MetaMembershipID: current.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("upgrade intent created",
		"user_id", userID, "from_plan", current.PlanType, "to_plan", newPlan,
		"amount_cents", amountCents, "payment_intent_id", intent.ID)
	return intent, nil
}

// HandleWebhook verifies a raw delivery and routes the decoded event.
func (s *ReconciliationServiceImpl) HandleWebhook(db *gorm.DB, payload []byte, sigHeader string) error {
	event, err := s.gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		return err
	}
	return s.HandleEvent(db, event)
}

func (s *ReconciliationServiceImpl) HandleEvent(db *gorm.DB, event *payments.Event) error {
	switch event.Kind {
	case payments.EventKindPaymentSucceeded, payments.EventKindCheckoutCompleted:
		_, err := s.applySuccess(db, event)
		return err
	case payments.EventKindPaymentFailed:
		return s.recordFailure(db, event)
	default:
		logger.Info("ignoring payment event", "event_id", event.ID, "event_type", event.Kind)
		return nil
	}
}

// applySuccess records the event and activates or upgrades the membership in
// one transaction. Duplicate deliveries and concurrent activations both
// resolve to the already-active row.
func (s *ReconciliationServiceImpl) applySuccess(db *gorm.DB, event *payments.Event) (*models.Membership, error) {
	userID := event.Metadata[payments.MetaUserID]
	plan := models.MembershipPlan(event.Metadata[payments.MetaPlanType])
	if userID == "" || !plan.Valid() {
		return nil, appErrors.ErrMalformedEvent.WithDetails(map[string]string{
			"event_id":  event.ID,
			"user_id":   userID,
			"plan_type": string(plan),
		})
	}
	isUpgrade := event.Metadata[payments.MetaUpgrade] == "true"

	var membership *models.Membership
	err := s.runTx(db, func(tx *gorm.DB) error {
		record := &models.PaymentEventRecord{
			EventID:         event.ID,
			EventType:       string(event.Kind),
			PaymentIntentID: event.PaymentIntentID,
			UserID:          userID,
			Outcome:         models.EventOutcomeApplied,
		}
		if len(event.Raw) > 0 {
			record.Payload = datatypes.JSON(event.Raw)
		}
		if err := s.eventRepo.Record(tx, record); err != nil {
			if err == repositories.ErrEventAlreadyProcessed {
				return errEventDuplicate
			}
			return err
		}

		var err error
		if isUpgrade {
			membership, err = s.applyUpgrade(tx, event, userID, plan)
		} else {
			membership, err = s.activate(tx, event, userID, plan)
		}
		return err
	})

	if err == errEventDuplicate {
		logger.Info("duplicate payment event acknowledged", "event_id", event.ID)
		if m, findErr := s.membershipRepo.FindActiveByUserID(db, userID); findErr == nil {
			return m, nil
		}
		return nil, nil
	}
	if err != nil {
		var appErr *appErrors.AppError
		if appErrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.InternalError(err)
	}

	logger.Info("payment event applied",
		"event_id", event.ID, "user_id", userID, "plan_type", plan, "upgrade", isUpgrade)

	// Post-commit notification; delivery failures must not fail the event.
	if user, findErr := s.userRepo.FindByID(db, userID); findErr == nil {
		if mailErr := s.mailer.SendMembershipActivated(user.Email, string(plan)); mailErr != nil {
			logger.WithError(mailErr).Warn("failed to send activation email", "user_id", userID)
		}
	}
	return membership, nil
}

// activate promotes the user's pending membership row to active, or inserts
// a fresh active row when no pending one exists.
func (s *ReconciliationServiceImpl) activate(tx *gorm.DB, event *payments.Event, userID string, plan models.MembershipPlan) (*models.Membership, error) {
	if existing, err := s.membershipRepo.FindActiveByUserID(tx, userID); err == nil {
		return existing, nil
	} else if err != repositories.ErrMembershipNotFound {
		return nil, err
	}

	price, err := PlanPrice(plan)
	if err != nil {
		return nil, err
	}
	now := s.now()
	renewal := now.AddDate(0, 0, membershipPeriodDays)

	membership, err := s.membershipRepo.FindLatestPendingByUserID(tx, userID)
	switch err {
	case nil:
		membership.PlanType = plan
		membership.Price = price
		membership.Status = models.MembershipStatusActive
		membership.StartDate = now
		membership.RenewalDate = renewal
		membership.PaymentIntentID = event.PaymentIntentID
		err = s.membershipRepo.Update(tx, membership)
	case repositories.ErrMembershipNotFound:
		membership = &models.Membership{
			UserID:          userID,
			PlanType:        plan,
			Status:          models.MembershipStatusActive,
			Price:           price,
			StartDate:       now,
			RenewalDate:     renewal,
			PaymentIntentID: event.PaymentIntentID,
		}
		err = s.membershipRepo.Create(tx, membership)
	default:
		return nil, err
	}

	if err == repositories.ErrActiveMembershipConflict {
		// a concurrent activation won the unique index race
		return s.membershipRepo.FindActiveByUserID(tx, userID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.MarkActive(tx, userID); err != nil {
		return nil, err
	}
	return membership, nil
}

// applyUpgrade switches the active membership row to the paid-for plan in
// place. The renewal date is untouched: the pro-rated charge covered only
// the remainder of the current period.
func (s *ReconciliationServiceImpl) applyUpgrade(tx *gorm.DB, event *payments.Event, userID string, newPlan models.MembershipPlan) (*models.Membership, error) {
	var membership *models.Membership
	var err error
	if membershipID := event.Metadata[payments.MetaMembershipID]; membershipID != "" {
		membership, err = s.membershipRepo.FindByID(tx, membershipID)
	} else {
		membership, err = s.membershipRepo.FindActiveByUserID(tx, userID)
	}
	if err != nil {
		if err == repositories.ErrMembershipNotFound {
			return nil, appErrors.ErrMembershipNotFound
		}
		return nil, err
	}

	if membership.PlanType == newPlan {
		return membership, nil
	}
	if membership.Status != models.MembershipStatusActive {
		return nil, appErrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"membership_id": membership.ID,
			"status":        string(membership.Status),
		})
	}

	price, err := PlanPrice(newPlan)
	if err != nil {
		return nil, err
	}
	membership.PlanType = newPlan
	membership.Price = price
	membership.PaymentIntentID = event.PaymentIntentID
	if err := s.membershipRepo.Update(tx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

// recordFailure stores the failed event for audit and touches nothing else.
func (s *ReconciliationServiceImpl) recordFailure(db *gorm.DB, event *payments.Event) error {
	err := s.runTx(db, func(tx *gorm.DB) error {
		record := &models.PaymentEventRecord{
			EventID:         event.ID,
			EventType:       string(event.Kind),
			PaymentIntentID: event.PaymentIntentID,
			UserID:          event.Metadata[payments.MetaUserID],
			Outcome:         models.EventOutcomeFailed,
		}
		if len(event.Raw) > 0 {
			record.Payload = datatypes.JSON(event.Raw)
		}
		if err := s.eventRepo.Record(tx, record); err != nil && err != repositories.ErrEventAlreadyProcessed {
			return err
		}
		return nil
	})
	if err != nil {
		return appErrors.InternalError(err)
	}

	logger.Warn("payment failed",
		"event_id", event.ID,
		"payment_intent_id", event.PaymentIntentID,
		"user_id", event.Metadata[payments.MetaUserID])
	return nil
}
