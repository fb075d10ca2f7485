package repositories

import (
	"errors"
	"strings"
	"time"

	"footwork_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrActiveMembershipConflict is returned when the partial unique index
	// ux_memberships_user_active rejects a second active row for the user.
	ErrActiveMembershipConflict = errors.New("active membership already exists")
)

type MembershipRepository interface {
	Create(db *gorm.DB, membership *models.Membership) error
	FindByID(db *gorm.DB, id string) (*models.Membership, error)
	FindActiveByUserID(db *gorm.DB, userID string) (*models.Membership, error)
	FindByPaymentIntentID(db *gorm.DB, intentID string) (*models.Membership, error)
	FindLatestPendingByUserID(db *gorm.DB, userID string) (*models.Membership, error)
	FindHistoryByUserID(db *gorm.DB, userID string) ([]models.Membership, error)
	Update(db *gorm.DB, membership *models.Membership) error
	UpdateStatus(db *gorm.DB, membershipID string, status models.MembershipStatus) error
	ExpireDue(db *gorm.DB, now time.Time) (int64, error)
}

type MembershipRepositoryImpl struct{}

func NewMembershipRepository() MembershipRepository {
	return &MembershipRepositoryImpl{}
}

func (r *MembershipRepositoryImpl) Create(db *gorm.DB, membership *models.Membership) error {
	err := db.Create(membership).Error
	if err != nil && isActiveUniqueViolation(err) {
		return ErrActiveMembershipConflict
	}
	return err
}

func (r *MembershipRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Membership, error) {
	var m models.Membership
	err := db.First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindActiveByUserID returns the single active membership. The partial unique
// index guarantees at most one row; ordering newest-first keeps the query
// deterministic even if the invariant were ever violated.
func (r *MembershipRepositoryImpl) FindActiveByUserID(db *gorm.DB, userID string) (*models.Membership, error) {
	var m models.Membership
	err := db.Where("user_id = ? AND status = ?", userID, models.MembershipStatusActive).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepositoryImpl) FindByPaymentIntentID(db *gorm.DB, intentID string) (*models.Membership, error) {
	var m models.Membership
	err := db.First(&m, "payment_intent_id = ?", intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindLatestPendingByUserID returns the most recent pending membership, used
// by the reconciliation handler to promote a checkout-created row instead of
// inserting a second one.
func (r *MembershipRepositoryImpl) FindLatestPendingByUserID(db *gorm.DB, userID string) (*models.Membership, error) {
	var m models.Membership
	err := db.Where("user_id = ? AND status = ?", userID, models.MembershipStatusPending).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepositoryImpl) FindHistoryByUserID(db *gorm.DB, userID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&memberships).Error
	return memberships, err
}

func (r *MembershipRepositoryImpl) Update(db *gorm.DB, membership *models.Membership) error {
	err := db.Save(membership).Error
	if err != nil && isActiveUniqueViolation(err) {
		return ErrActiveMembershipConflict
	}
	return err
}

func (r *MembershipRepositoryImpl) UpdateStatus(db *gorm.DB, membershipID string, status models.MembershipStatus) error {
	result := db.Model(&models.Membership{}).
		Where("id = ?", membershipID).
		Update("status", status)
	if result.Error != nil {
		if isActiveUniqueViolation(result.Error) {
			return ErrActiveMembershipConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}

// ExpireDue marks active memberships past their renewal date as expired.
// Called by the background sweep worker.
func (r *MembershipRepositoryImpl) ExpireDue(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.Membership{}).
		Where("status = ? AND renewal_date < ?", models.MembershipStatusActive, now).
		Update("status", models.MembershipStatusExpired)
	return result.RowsAffected, result.Error
}

// isActiveUniqueViolation detects a Postgres unique violation (23505) on the
// single-active-membership index without importing the driver error types.
func isActiveUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "ux_memberships_user_active")
}
