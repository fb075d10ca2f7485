package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`

	// Candidate profile
	FirstName       string
	LastName        string
	BirthDate       *time.Time
	Position        string `gorm:"type:varchar(255)"`
	ExperienceLevel string `gorm:"type:varchar(255)"`
	Qualification   string `gorm:"type:text"`
	CVKey           string

	// Team profile
	TeamName string
	City     string

	// is_approved is meaningful for teams only; admins flip it after review.
	IsActive          bool `gorm:"default:false"`
	IsApproved        bool `gorm:"default:false"`
	EmailVerified     bool `gorm:"default:false"`
	VerificationToken string

	// Relations
	Memberships   []Membership   `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
