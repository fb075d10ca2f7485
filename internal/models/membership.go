package models

import (
	"time"

	"gorm.io/datatypes"
)

// Membership is one subscription period of a candidate. At most one row per
// user may be in 'active' status; a partial unique index enforces this at the
// database level (see database.AutoMigrate).
type Membership struct {
	BaseModel
	UserID      string           `gorm:"type:uuid;not null;index"`
	PlanType    MembershipPlan   `gorm:"type:varchar(20);not null"`
	Status      MembershipStatus `gorm:"type:varchar(20);default:'pending'"`
	Price       float64          `gorm:"type:numeric(10,2);not null"`
	StartDate   time.Time
	RenewalDate time.Time

	// External payment references
	PaymentSessionID string `gorm:"type:varchar(255)"`
	PaymentIntentID  string `gorm:"type:varchar(255);index"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

// PaymentEventRecord deduplicates provider events: the webhook may deliver the
// same event more than once, and a client confirmation can race the webhook.
type PaymentEventRecord struct {
	BaseModel
	EventID         string `gorm:"uniqueIndex;not null"`
	EventType       string `gorm:"type:varchar(64)"`
	PaymentIntentID string `gorm:"type:varchar(255);index"`
	UserID          string
	Outcome         EventOutcome   `gorm:"type:varchar(20)"`
	Payload         datatypes.JSON `gorm:"type:jsonb"`
}
