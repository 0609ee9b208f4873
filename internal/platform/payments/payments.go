package payments

import (
	"context"
	"errors"
	"time"
)

// Event types the billing service reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

var ErrInvalidSignature = errors.New("invalid webhook signature")

type CheckoutRequest struct {
	ClientReferenceID string
	CustomerEmail     string
	PriceIDs          []string
	SuccessURL        string
	CancelURL         string
	Metadata          map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is the provider-neutral part of a webhook delivery.
type Event struct {
	ID                 string
	Type               string
	CheckoutSessionID  string
	ClientReferenceID  string
	CustomerID         string
	SubscriptionID     string
	SubscriptionStatus string
	CurrentPeriodEnd   *time.Time
	Metadata           map[string]string
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
