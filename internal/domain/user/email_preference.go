package user

import (
	"time"

	"github.com/google/uuid"
)

// EmailPreference is keyed by address, not user, so unsubscribe links work
// for recipients without an account.
type EmailPreference struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	UnsubscribedAt *time.Time `gorm:"column:unsubscribed_at" json:"unsubscribed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (EmailPreference) TableName() string { return "email_preference" }
