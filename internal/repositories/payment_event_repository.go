package repositories

import (
	"errors"
	"strings"

	"footwork_backend/internal/models"

	"gorm.io/gorm"
)

// ErrEventAlreadyProcessed is returned when a record with the same provider
// event id exists; the caller treats the delivery as a duplicate.
var ErrEventAlreadyProcessed = errors.New("payment event already processed")

type PaymentEventRepository interface {
	Record(db *gorm.DB, record *models.PaymentEventRecord) error
	FindByEventID(db *gorm.DB, eventID string) (*models.PaymentEventRecord, error)
}

type PaymentEventRepositoryImpl struct{}

func NewPaymentEventRepository() PaymentEventRepository {
	return &PaymentEventRepositoryImpl{}
}

func (r *PaymentEventRepositoryImpl) Record(db *gorm.DB, record *models.PaymentEventRecord) error {
	err := db.Create(record).Error
	if err != nil && isEventUniqueViolation(err) {
		return ErrEventAlreadyProcessed
	}
	return err
}

func (r *PaymentEventRepositoryImpl) FindByEventID(db *gorm.DB, eventID string) (*models.PaymentEventRecord, error) {
	var rec models.PaymentEventRecord
	err := db.First(&rec, "event_id = ?", eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func isEventUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "event_id")
}
