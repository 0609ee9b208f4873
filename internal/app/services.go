package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/services"
)

type Services struct {
	Avatar       services.AvatarService
	Auth         services.AuthService
	SignedURLs   services.SignedURLService
	Relations    services.RelationService
	Exercise     services.ExerciseService
	Progress     services.ProgressService
	Note         services.NoteService
	StudySession services.StudySessionService
	Simulation   services.SimulationService
	Billing      services.BillingService
	EmailPrefs   services.EmailPreferenceService
	Stats        services.StatsService
	User         services.UserService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) (Services, error) {
	log.Info("Wiring services...")

	var avatar services.AvatarService
	if c.Bucket != nil {
		a, err := services.NewAvatarService(log, r.User, c.Bucket)
		if err != nil {
			return Services{}, fmt.Errorf("init avatar service: %w", err)
		}
		avatar = a
	}

	// Typed-nil interfaces would defeat the nil checks in the services.
	var signer services.URLSigner
	if c.Bucket != nil {
		signer = c.Bucket
	}
	signed := services.NewSignedURLService(log, signer, c.URLCache, cfg.URLCache.SignedTTL)

	var relRec services.RelationRecorder
	var hookRec services.WebhookRecorder
	if c.Metrics != nil {
		relRec = c.Metrics
		hookRec = c.Metrics
	}
	relations := services.NewRelationService(log, r.ContentRelation, relRec)
	billing := services.NewBillingService(log, r.User, r.Content, r.Subscription, c.Payments, hookRec, cfg.BaseURL)

	return Services{
		Avatar: avatar,
		Auth: services.NewAuthService(
			log,
			dbctx.NewGormTxRunner(db),
			r.User,
			r.UserToken,
			avatar,
			cfg.Auth.JWTSecretKey,
			cfg.Auth.AccessTokenTTL,
			cfg.Auth.RefreshTokenTTL,
		),
		SignedURLs:   signed,
		Relations:    relations,
		Exercise:     services.NewExerciseService(log, relations),
		Progress:     services.NewProgressService(log, r.Content, relations),
		Note:         services.NewNoteService(log, r.Content, relations, signed),
		StudySession: services.NewStudySessionService(log, r.Content, r.StudySession, nil),
		Simulation:   services.NewSimulationService(log, r.Content, r.Attempt, relations),
		Billing:      billing,
		EmailPrefs:   services.NewEmailPreferenceService(log, r.EmailPreference, cfg.UnsubscribeSecret),
		Stats:        services.NewStatsService(log, r.StudySession, r.ContentRelation, nil),
		User:         services.NewUserService(log, r.User, billing, signed),
	}, nil
}
