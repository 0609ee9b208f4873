package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type stripeProvider struct {
	log           *logger.Logger
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(log *logger.Logger, cfg StripeConfig) (Provider, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("missing STRIPE_SECRET_KEY")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("missing STRIPE_WEBHOOK_SECRET")
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeProvider{
		log:           log.With("client", "StripeProvider"),
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if len(req.PriceIDs) == 0 {
		return nil, errors.New("checkout needs at least one price")
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientReferenceID),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, price := range req.PriceIDs {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(price),
			Quantity: stripe.Int64(1),
		})
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *stripeProvider) ParseWebhook(payload []byte, signature string) (*Event, error) {
	return parseStripeEvent(payload, signature, p.webhookSecret)
}

func parseStripeEvent(payload []byte, signature, secret string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: evt.ID, Type: string(evt.Type)}
	if evt.Data == nil {
		return out, nil
	}

	switch out.Type {
	case EventCheckoutCompleted:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		out.CheckoutSessionID = s.ID
		out.ClientReferenceID = s.ClientReferenceID
		out.Metadata = s.Metadata
		if s.Customer != nil {
			out.CustomerID = s.Customer.ID
		}
		if s.Subscription != nil {
			out.SubscriptionID = s.Subscription.ID
		}
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.SubscriptionID = sub.ID
		out.SubscriptionStatus = string(sub.Status)
		out.Metadata = sub.Metadata
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].CurrentPeriodEnd > 0 {
			end := time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0).UTC()
			out.CurrentPeriodEnd = &end
		}
	}
	return out, nil
}
