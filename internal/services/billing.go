package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/platform/payments"
)

type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type SubscriptionStatusView struct {
	Status           string     `json:"status"`
	PlanType         string     `json:"planType,omitempty"`
	SubjectIDs       []string   `json:"subjectIds,omitempty"`
	CurrentPeriodEnd *time.Time `json:"currentPeriodEnd,omitempty"`
}

type WebhookRecorder interface {
	IncStripeWebhook(eventType, outcome string)
}

type BillingService interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID, planType string, subjectIDs []string) (*CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetStatus(ctx context.Context, userID uuid.UUID) (*SubscriptionStatusView, error)
}

type billingService struct {
	log      *logger.Logger
	users    repos.UserRepo
	content  repos.ContentRepo
	subs     repos.SubscriptionRepo
	provider payments.Provider
	rec      WebhookRecorder
	baseURL  string
}

// NewBillingService accepts a nil provider; checkout and webhooks then answer 503.
func NewBillingService(
	log *logger.Logger,
	users repos.UserRepo,
	content repos.ContentRepo,
	subs repos.SubscriptionRepo,
	provider payments.Provider,
	rec WebhookRecorder,
	baseURL string,
) BillingService {
	return &billingService{
		log:      log.With("service", "BillingService"),
		users:    users,
		content:  content,
		subs:     subs,
		provider: provider,
		rec:      rec,
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

var errBillingUnavailable = apierr.Unavailable("billing_unavailable", "billing is not configured")

func (s *billingService) CreateCheckout(ctx context.Context, userID uuid.UUID, planType string, subjectIDs []string) (*CheckoutResult, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, errBillingUnavailable
	}
	if strings.ToUpper(strings.TrimSpace(planType)) != types.PlanCustom {
		return nil, apierr.BadRequest("invalid_plan", "invalid plan type")
	}
	if len(subjectIDs) == 0 {
		return nil, apierr.BadRequest("no_subjects", "at least one subject must be selected")
	}
	ids := make([]uuid.UUID, 0, len(subjectIDs))
	seen := make(map[uuid.UUID]bool, len(subjectIDs))
	for _, raw := range subjectIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil || id == uuid.Nil {
			return nil, apierr.BadRequest("invalid_subject", "invalid subject selection")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	dbc := dbctx.Of(ctx)
	subjects, err := s.content.GetSubjectsByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Subject, len(subjects))
	for _, sub := range subjects {
		byID[sub.ID] = sub
	}
	priceIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		subject, ok := byID[id]
		if !ok {
			return nil, apierr.BadRequest("invalid_subject", "invalid subject selection")
		}
		if strings.TrimSpace(subject.StripePriceID) == "" {
			return nil, apierr.BadRequest("subject_not_purchasable", "subject "+subject.Slug+" cannot be purchased")
		}
		priceIDs = append(priceIDs, subject.StripePriceID)
	}

	existing, err := s.subs.GetByUserID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if existing != nil && existing.Status == types.SubscriptionActive {
		return nil, apierr.Conflict("subscription_active", "you already have an active subscription")
	}

	user, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, errUnauthenticated
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		ClientReferenceID: userID.String(),
		CustomerEmail:     user.Email,
		PriceIDs:          priceIDs,
		SuccessURL:        s.baseURL + "/dashboard?checkout=success&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:         s.baseURL + "/pricing?checkout=canceled",
		Metadata: map[string]string{
			"user_id":   userID.String(),
			"plan_type": types.PlanCustom,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	subjectJSON, err := json.Marshal(idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("encode subject ids: %w", err)
	}
	if err := s.subs.UpsertPending(dbc, &types.Subscription{
		UserID:                  userID,
		PlanType:                types.PlanCustom,
		SubjectIDs:              datatypes.JSON(subjectJSON),
		StripeCheckoutSessionID: session.ID,
	}); err != nil {
		return nil, fmt.Errorf("record pending subscription: %w", err)
	}

	s.log.Info("Checkout session created", "user_id", userID, "subjects", len(ids))
	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.provider == nil {
		return errBillingUnavailable
	}
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		s.record("unknown", "rejected")
		if errors.Is(err, payments.ErrInvalidSignature) {
			return apierr.BadRequest("invalid_signature", "invalid webhook signature")
		}
		return apierr.BadRequest("invalid_payload", "invalid webhook payload")
	}

	dbc := dbctx.Of(ctx)
	now := time.Now().UTC()
	switch event.Type {
	case payments.EventCheckoutCompleted:
		userID, perr := uuid.Parse(strings.TrimSpace(event.ClientReferenceID))
		if perr != nil {
			s.log.Warn("Checkout completed without a usable client reference", "event_id", event.ID)
			s.record(event.Type, "ignored")
			return nil
		}
		n, err := s.subs.UpdateByUserID(dbc, userID, map[string]any{
			"status":                     types.SubscriptionActive,
			"stripe_customer_id":         event.CustomerID,
			"stripe_subscription_id":     event.SubscriptionID,
			"stripe_checkout_session_id": event.CheckoutSessionID,
			"updated_at":                 now,
		})
		if err != nil {
			s.record(event.Type, "error")
			return fmt.Errorf("activate subscription: %w", err)
		}
		if n == 0 {
			s.log.Warn("Checkout completed for user without pending subscription", "user_id", userID, "event_id", event.ID)
		}

	case payments.EventSubscriptionUpdated:
		updates := map[string]any{
			"status":     mapStripeStatus(event.SubscriptionStatus),
			"updated_at": now,
		}
		if event.CurrentPeriodEnd != nil {
			updates["current_period_end"] = event.CurrentPeriodEnd.UTC()
		}
		if _, err := s.subs.UpdateByStripeSubscriptionID(dbc, event.SubscriptionID, updates); err != nil {
			s.record(event.Type, "error")
			return fmt.Errorf("update subscription: %w", err)
		}

	case payments.EventSubscriptionDeleted:
		if _, err := s.subs.UpdateByStripeSubscriptionID(dbc, event.SubscriptionID, map[string]any{
			"status":     types.SubscriptionCanceled,
			"updated_at": now,
		}); err != nil {
			s.record(event.Type, "error")
			return fmt.Errorf("cancel subscription: %w", err)
		}

	default:
		s.log.Debug("Ignoring webhook event", "type", event.Type, "event_id", event.ID)
		s.record(event.Type, "ignored")
		return nil
	}

	s.record(event.Type, "handled")
	return nil
}

func (s *billingService) GetStatus(ctx context.Context, userID uuid.UUID) (*SubscriptionStatusView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	sub, err := s.subs.GetByUserID(dbctx.Of(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub == nil {
		return &SubscriptionStatusView{Status: "none"}, nil
	}
	view := &SubscriptionStatusView{
		Status:           string(sub.Status),
		PlanType:         sub.PlanType,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	}
	if len(sub.SubjectIDs) > 0 {
		if err := json.Unmarshal(sub.SubjectIDs, &view.SubjectIDs); err != nil {
			s.log.Warn("Subscription has unreadable subject ids", "user_id", userID, "error", err)
		}
	}
	return view, nil
}

func (s *billingService) record(eventType, outcome string) {
	if s.rec != nil {
		s.rec.IncStripeWebhook(eventType, outcome)
	}
}

func mapStripeStatus(status string) types.SubscriptionStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing":
		return types.SubscriptionActive
	case "canceled", "unpaid", "incomplete_expired":
		return types.SubscriptionCanceled
	default:
		return types.SubscriptionPending
	}
}
