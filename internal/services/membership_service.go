package services

import (
	"math"
	"time"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"
	"footwork_backend/internal/services/dto"

	"gorm.io/gorm"
)

// membershipPeriodDays is the length of one paid period. Pricing and
// pro-ration both assume this fixed window.
const membershipPeriodDays = 30

const planCurrency = "usd"

// planPrices is the full catalogue. Prices are fixed in code; clients never
// send amounts.
var planPrices = map[models.MembershipPlan]float64{
	models.MembershipPlanBasic:        9.99,
	models.MembershipPlanPremium:      19.99,
	models.MembershipPlanProfessional: 29.99,
}

// validTransitions is the membership state machine. Anything not listed here
// is rejected.
var validTransitions = map[models.MembershipStatus][]models.MembershipStatus{
	models.MembershipStatusPending: {models.MembershipStatusActive, models.MembershipStatusCancelled},
	models.MembershipStatusActive:  {models.MembershipStatusExpired, models.MembershipStatusCancelled},
}

// PlanPrice returns the per-period price of a plan.
func PlanPrice(plan models.MembershipPlan) (float64, error) {
	price, ok := planPrices[plan]
	if !ok {
		return 0, appErrors.ErrInvalidPlan.WithDetails(map[string]string{"plan_type": string(plan)})
	}
	return price, nil
}

// PlanAmountCents returns the plan price in integer cents, the unit the
// payment provider charges in.
func PlanAmountCents(plan models.MembershipPlan) (int64, error) {
	price, err := PlanPrice(plan)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(price * 100)), nil
}

// PlanCatalogue lists every purchasable plan in tier order.
func PlanCatalogue() []dto.PlanInfo {
	plans := []models.MembershipPlan{
		models.MembershipPlanBasic,
		models.MembershipPlanPremium,
		models.MembershipPlanProfessional,
	}
	out := make([]dto.PlanInfo, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanInfo{PlanType: p, Price: planPrices[p], Currency: planCurrency})
	}
	return out
}

// CanTransition reports whether the state machine permits moving a membership
// from one status to another.
func CanTransition(from, to models.MembershipStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// QuoteUpgradeCents computes the pro-rated charge for switching an active
// membership to a higher plan: the daily price difference times the whole
// days left until renewal, rounded to cents.
func QuoteUpgradeCents(current *models.Membership, newPlan models.MembershipPlan, now time.Time) (int64, error) {
	newPrice, err := PlanPrice(newPlan)
	if err != nil {
		return 0, err
	}
	if newPlan.Rank() <= current.PlanType.Rank() {
		return 0, appErrors.ErrNotAnUpgrade.WithDetails(map[string]string{
			"current_plan":   string(current.PlanType),
			"requested_plan": string(newPlan),
		})
	}

	// Floor, not truncate: a membership lapsed by less than a day must come
	// out negative and be rejected, not quoted at zero.
	daysRemaining := int(math.Floor(current.RenewalDate.Sub(now).Hours() / 24))
	if daysRemaining < 0 {
		// The expiry sweep has not caught this row yet; do not quote against
		// a lapsed period.
		return 0, appErrors.ErrMembershipExpired
	}

	dailyCurrent := current.Price / membershipPeriodDays
	dailyNew := newPrice / membershipPeriodDays
	amount := (dailyNew - dailyCurrent) * float64(daysRemaining)

	return int64(math.Round(amount * 100)), nil
}

type MembershipService interface {
	GetActive(db *gorm.DB, userID string) (*models.Membership, error)
	ListHistory(db *gorm.DB, userID string) ([]models.Membership, error)
	CreatePending(db *gorm.DB, userID string, plan models.MembershipPlan, sessionID string) (*models.Membership, error)
	TransitionStatus(db *gorm.DB, membership *models.Membership, to models.MembershipStatus) error
	Cancel(db *gorm.DB, userID string) (*models.Membership, error)
}

type MembershipServiceImpl struct {
	membershipRepo repositories.MembershipRepository
}

func NewMembershipService(membershipRepo repositories.MembershipRepository) MembershipService {
	return &MembershipServiceImpl{membershipRepo: membershipRepo}
}

func (s *MembershipServiceImpl) GetActive(db *gorm.DB, userID string) (*models.Membership, error) {
	m, err := s.membershipRepo.FindActiveByUserID(db, userID)
	if err != nil {
		if err == repositories.ErrMembershipNotFound {
			return nil, appErrors.ErrMembershipNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return m, nil
}

func (s *MembershipServiceImpl) ListHistory(db *gorm.DB, userID string) ([]models.Membership, error) {
	memberships, err := s.membershipRepo.FindHistoryByUserID(db, userID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}
	return memberships, nil
}

// CreatePending opens a membership row in 'pending' status when a checkout
// session is created. Users holding an active membership must go through the
// upgrade flow instead.
func (s *MembershipServiceImpl) CreatePending(db *gorm.DB, userID string, plan models.MembershipPlan, sessionID string) (*models.Membership, error) {
	price, err := PlanPrice(plan)
	if err != nil {
		return nil, err
	}

	if _, err := s.membershipRepo.FindActiveByUserID(db, userID); err == nil {
		return nil, appErrors.ErrActiveMembershipExists
	} else if err != repositories.ErrMembershipNotFound {
		return nil, appErrors.InternalError(err)
	}

	membership := &models.Membership{
		UserID:           userID,
		PlanType:         plan,
		Status:           models.MembershipStatusPending,
		Price:            price,
		PaymentSessionID: sessionID,
	}
	if err := s.membershipRepo.Create(db, membership); err != nil {
		return nil, appErrors.InternalError(err)
	}
	return membership, nil
}

// TransitionStatus moves a membership through the state machine, persisting
// the new status. Illegal moves fail without touching the row.
func (s *MembershipServiceImpl) TransitionStatus(db *gorm.DB, membership *models.Membership, to models.MembershipStatus) error {
	if !CanTransition(membership.Status, to) {
		return appErrors.ErrInvalidStatusTransition.WithDetails(map[string]string{
			"from": string(membership.Status),
			"to":   string(to),
		})
	}
	if err := s.membershipRepo.UpdateStatus(db, membership.ID, to); err != nil {
		if err == repositories.ErrMembershipNotFound {
			return appErrors.ErrMembershipNotFound
		}
		return appErrors.InternalError(err)
	}
	membership.Status = to
	return nil
}

// Cancel ends the user's active membership immediately, or an unpaid pending
// one when no active membership exists. Access is revoked at cancellation
// time, not at period end.
func (s *MembershipServiceImpl) Cancel(db *gorm.DB, userID string) (*models.Membership, error) {
	membership, err := s.membershipRepo.FindActiveByUserID(db, userID)
	if err == repositories.ErrMembershipNotFound {
		membership, err = s.membershipRepo.FindLatestPendingByUserID(db, userID)
	}
	if err != nil {
		if err == repositories.ErrMembershipNotFound {
			return nil, appErrors.ErrMembershipNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	if err := s.TransitionStatus(db, membership, models.MembershipStatusCancelled); err != nil {
		return nil, err
	}
	return membership, nil
}
