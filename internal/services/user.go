package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type Me struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	FirstName          string    `json:"firstName"`
	LastName           string    `json:"lastName"`
	AvatarColor        string    `json:"avatarColor"`
	AvatarURL          string    `json:"avatarUrl,omitempty"`
	SubscriptionStatus string    `json:"subscriptionStatus"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*Me, error)
}

type userService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	billing    BillingService
	signedURLs SignedURLService
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, billing BillingService, signedURLs SignedURLService) UserService {
	return &userService{
		log:        log.With("service", "UserService"),
		userRepo:   userRepo,
		billing:    billing,
		signedURLs: signedURLs,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*Me, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	u, err := us.userRepo.GetByID(dbctx.Of(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, errUnauthenticated
	}
	me := &Me{
		ID:                 u.ID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		AvatarColor:        u.AvatarColor,
		SubscriptionStatus: "none",
	}

	if us.billing != nil {
		status, err := us.billing.GetStatus(ctx, userID)
		if err != nil {
			return nil, err
		}
		me.SubscriptionStatus = status.Status
	}

	// The avatar is decoration; a signing failure leaves the URL empty.
	if key := strings.TrimSpace(u.AvatarBucketKey); key != "" && us.signedURLs != nil {
		signed, err := us.signedURLs.Get(ctx, gcp.BucketCategoryAvatar, key)
		if err != nil {
			us.log.Warn("Avatar URL unavailable", "user_id", userID, "error", err)
		} else {
			me.AvatarURL = signed.URL
		}
	}
	return me, nil
}
