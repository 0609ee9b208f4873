package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionPending  SubscriptionStatus = "pending"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

const PlanCustom = "CUSTOM"

type Subscription struct {
	ID                      uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                  uuid.UUID          `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	StripeCustomerID        string             `gorm:"column:stripe_customer_id;index" json:"-"`
	StripeSubscriptionID    string             `gorm:"column:stripe_subscription_id;index" json:"-"`
	StripeCheckoutSessionID string             `gorm:"column:stripe_checkout_session_id" json:"-"`
	Status                  SubscriptionStatus `gorm:"type:varchar(32);not null" json:"status"`
	PlanType                string             `gorm:"type:varchar(32);not null" json:"plan_type"`
	SubjectIDs              datatypes.JSON     `gorm:"type:jsonb" json:"subject_ids"`
	CurrentPeriodEnd        *time.Time         `gorm:"column:current_period_end" json:"current_period_end,omitempty"`
	CreatedAt               time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt               time.Time          `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscription" }
