package services

import (
	"testing"
	"time"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPrice(t *testing.T) {
	price, err := PlanPrice(models.MembershipPlanBasic)
	require.NoError(t, err)
	assert.Equal(t, 9.99, price)

	price, err = PlanPrice(models.MembershipPlanPremium)
	require.NoError(t, err)
	assert.Equal(t, 19.99, price)

	price, err = PlanPrice(models.MembershipPlanProfessional)
	require.NoError(t, err)
	assert.Equal(t, 29.99, price)

	_, err = PlanPrice(models.MembershipPlan("enterprise"))
	require.Error(t, err)
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeInvalidPlan, appErr.Code)
}

func TestPlanAmountCents(t *testing.T) {
	cents, err := PlanAmountCents(models.MembershipPlanPremium)
	require.NoError(t, err)
	assert.Equal(t, int64(1999), cents)
}

func TestPlanCatalogueOrder(t *testing.T) {
	plans := PlanCatalogue()
	require.Len(t, plans, 3)
	assert.Equal(t, models.MembershipPlanBasic, plans[0].PlanType)
	assert.Equal(t, models.MembershipPlanPremium, plans[1].PlanType)
	assert.Equal(t, models.MembershipPlanProfessional, plans[2].PlanType)
	for _, p := range plans {
		assert.Equal(t, "usd", p.Currency)
	}
}

func TestPlanRankOrdering(t *testing.T) {
	assert.Less(t, models.MembershipPlanBasic.Rank(), models.MembershipPlanPremium.Rank())
	assert.Less(t, models.MembershipPlanPremium.Rank(), models.MembershipPlanProfessional.Rank())
	assert.Equal(t, -1, models.MembershipPlan("gold").Rank())
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.MembershipStatus
		allowed  bool
	}{
		{models.MembershipStatusPending, models.MembershipStatusActive, true},
		{models.MembershipStatusPending, models.MembershipStatusCancelled, true},
		{models.MembershipStatusActive, models.MembershipStatusExpired, true},
		{models.MembershipStatusActive, models.MembershipStatusCancelled, true},
		{models.MembershipStatusPending, models.MembershipStatusExpired, false},
		{models.MembershipStatusExpired, models.MembershipStatusActive, false},
		{models.MembershipStatusCancelled, models.MembershipStatusActive, false},
		{models.MembershipStatusActive, models.MembershipStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestQuoteUpgradeCents(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	membership := func(plan models.MembershipPlan, daysLeft int) *models.Membership {
		price, err := PlanPrice(plan)
		require.NoError(t, err)
		return &models.Membership{
			PlanType:    plan,
			Status:      models.MembershipStatusActive,
			Price:       price,
			RenewalDate: now.AddDate(0, 0, daysLeft),
		}
	}

	t.Run("basic to premium mid period", func(t *testing.T) {
		cents, err := QuoteUpgradeCents(membership(models.MembershipPlanBasic, 15), models.MembershipPlanPremium, now)
		require.NoError(t, err)
		// (19.99-9.99)/30 * 15 days = 5.00
		assert.Equal(t, int64(500), cents)
	})

	t.Run("premium to professional one week left", func(t *testing.T) {
		cents, err := QuoteUpgradeCents(membership(models.MembershipPlanPremium, 7), models.MembershipPlanProfessional, now)
		require.NoError(t, err)
		// (29.99-19.99)/30 * 7 days = 2.3333 -> rounded to cents
		assert.Equal(t, int64(233), cents)
	})

	t.Run("renewal day quotes zero", func(t *testing.T) {
		cents, err := QuoteUpgradeCents(membership(models.MembershipPlanBasic, 0), models.MembershipPlanProfessional, now)
		require.NoError(t, err)
		assert.Equal(t, int64(0), cents)
	})

	t.Run("downgrade rejected", func(t *testing.T) {
		_, err := QuoteUpgradeCents(membership(models.MembershipPlanProfessional, 15), models.MembershipPlanPremium, now)
		var appErr *appErrors.AppError
		require.True(t, appErrors.As(err, &appErr))
		assert.Equal(t, appErrors.CodeNotAnUpgrade, appErr.Code)
	})

	t.Run("same plan rejected", func(t *testing.T) {
		_, err := QuoteUpgradeCents(membership(models.MembershipPlanPremium, 15), models.MembershipPlanPremium, now)
		var appErr *appErrors.AppError
		require.True(t, appErrors.As(err, &appErr))
		assert.Equal(t, appErrors.CodeNotAnUpgrade, appErr.Code)
	})

	t.Run("past renewal date rejected", func(t *testing.T) {
		_, err := QuoteUpgradeCents(membership(models.MembershipPlanBasic, -2), models.MembershipPlanPremium, now)
		var appErr *appErrors.AppError
		require.True(t, appErrors.As(err, &appErr))
		assert.Equal(t, appErrors.CodeMembershipExpired, appErr.Code)
	})

	t.Run("lapsed under a day rejected", func(t *testing.T) {
		// days remaining must floor to -1, never truncate to 0
		m := membership(models.MembershipPlanBasic, 0)
		m.RenewalDate = now.Add(-12 * time.Hour)
		_, err := QuoteUpgradeCents(m, models.MembershipPlanPremium, now)
		var appErr *appErrors.AppError
		require.True(t, appErrors.As(err, &appErr))
		assert.Equal(t, appErrors.CodeMembershipExpired, appErr.Code)
	})

	t.Run("unknown target plan rejected", func(t *testing.T) {
		_, err := QuoteUpgradeCents(membership(models.MembershipPlanBasic, 15), models.MembershipPlan("gold"), now)
		var appErr *appErrors.AppError
		require.True(t, appErrors.As(err, &appErr))
		assert.Equal(t, appErrors.CodeInvalidPlan, appErr.Code)
	})
}

func TestMembershipServiceGetActive(t *testing.T) {
	repo := &fakeMembershipRepo{}
	svc := NewMembershipService(repo)

	_, err := svc.GetActive(nil, "u-1")
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeMembershipNotFound, appErr.Code)

	require.NoError(t, repo.Create(nil, &models.Membership{
		UserID:   "u-1",
		PlanType: models.MembershipPlanBasic,
		Status:   models.MembershipStatusActive,
		Price:    9.99,
	}))

	m, err := svc.GetActive(nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipPlanBasic, m.PlanType)
}

func TestMembershipServiceCreatePending(t *testing.T) {
	repo := &fakeMembershipRepo{}
	svc := NewMembershipService(repo)

	m, err := svc.CreatePending(nil, "u-1", models.MembershipPlanPremium, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusPending, m.Status)
	assert.Equal(t, 19.99, m.Price)
	assert.Equal(t, "cs_1", m.PaymentSessionID)

	// holders of an active membership must use the upgrade flow
	require.NoError(t, repo.Create(nil, &models.Membership{
		UserID: "u-2", PlanType: models.MembershipPlanBasic,
		Status: models.MembershipStatusActive, Price: 9.99,
	}))
	_, err = svc.CreatePending(nil, "u-2", models.MembershipPlanPremium, "cs_2")
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeActiveMembershipExists, appErr.Code)
}

func TestMembershipServiceTransitionStatus(t *testing.T) {
	repo := &fakeMembershipRepo{}
	svc := NewMembershipService(repo)

	m := &models.Membership{
		UserID: "u-1", PlanType: models.MembershipPlanBasic,
		Status: models.MembershipStatusActive, Price: 9.99,
	}
	require.NoError(t, repo.Create(nil, m))

	err := svc.TransitionStatus(nil, m, models.MembershipStatusPending)
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeInvalidTransition, appErr.Code)
	assert.Equal(t, models.MembershipStatusActive, m.Status)

	require.NoError(t, svc.TransitionStatus(nil, m, models.MembershipStatusExpired))
	assert.Equal(t, models.MembershipStatusExpired, m.Status)

	stored, err := repo.FindByID(nil, m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusExpired, stored.Status)
}

func TestMembershipServiceCancel(t *testing.T) {
	repo := &fakeMembershipRepo{}
	svc := NewMembershipService(repo)

	require.NoError(t, repo.Create(nil, &models.Membership{
		UserID: "u-1", PlanType: models.MembershipPlanPremium,
		Status: models.MembershipStatusActive, Price: 19.99,
	}))

	m, err := svc.Cancel(nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusCancelled, m.Status)

	// nothing left to cancel
	_, err = svc.Cancel(nil, "u-1")
	var appErr *appErrors.AppError
	require.True(t, appErrors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeMembershipNotFound, appErr.Code)
}

func TestMembershipServiceCancelPendingMembership(t *testing.T) {
	repo := &fakeMembershipRepo{}
	svc := NewMembershipService(repo)

	pending := &models.Membership{
		UserID: "u-1", PlanType: models.MembershipPlanPremium,
		Status: models.MembershipStatusPending, Price: 19.99,
		PaymentSessionID: "cs_1",
	}
	require.NoError(t, repo.Create(nil, pending))

	m, err := svc.Cancel(nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusCancelled, m.Status)

	stored, err := repo.FindByID(nil, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipStatusCancelled, stored.Status)
}

func TestExpireDueSweep(t *testing.T) {
	repo := &fakeMembershipRepo{}
	now := time.Now()

	require.NoError(t, repo.Create(nil, &models.Membership{
		UserID: "u-1", Status: models.MembershipStatusActive,
		PlanType: models.MembershipPlanBasic, Price: 9.99,
		RenewalDate: now.Add(-time.Hour),
	}))
	require.NoError(t, repo.Create(nil, &models.Membership{
		UserID: "u-2", Status: models.MembershipStatusActive,
		PlanType: models.MembershipPlanBasic, Price: 9.99,
		RenewalDate: now.Add(24 * time.Hour),
	}))

	expired, err := repo.ExpireDue(nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	_, err = repo.FindActiveByUserID(nil, "u-1")
	assert.Error(t, err)
	_, err = repo.FindActiveByUserID(nil, "u-2")
	assert.NoError(t, err)
}
