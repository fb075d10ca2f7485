package models

type UserRole string
type MembershipPlan string
type MembershipStatus string
type EventOutcome string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleTeam      UserRole = "team"
	UserRoleAdmin     UserRole = "admin"

	MembershipPlanBasic        MembershipPlan = "basic"
	MembershipPlanPremium      MembershipPlan = "premium"
	MembershipPlanProfessional MembershipPlan = "professional"

	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusExpired   MembershipStatus = "expired"
	MembershipStatusCancelled MembershipStatus = "cancelled"

	EventOutcomeApplied   EventOutcome = "applied"
	EventOutcomeDuplicate EventOutcome = "duplicate"
	EventOutcomeFailed    EventOutcome = "failed"
	EventOutcomeIgnored   EventOutcome = "ignored"
)

// planRank orders plans by tier; an upgrade must strictly increase the rank.
var planRank = map[MembershipPlan]int{
	MembershipPlanBasic:        0,
	MembershipPlanPremium:      1,
	MembershipPlanProfessional: 2,
}

// Rank returns the tier order of the plan, -1 for unknown plans.
func (p MembershipPlan) Rank() int {
	rank, ok := planRank[p]
	if !ok {
		return -1
	}
	return rank
}

func (p MembershipPlan) Valid() bool {
	_, ok := planRank[p]
	return ok
}
