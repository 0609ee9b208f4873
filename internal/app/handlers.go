package app

import (
	"context"

	httpx "github.com/maturamate/maturamate-backend/internal/http"
	httpH "github.com/maturamate/maturamate-backend/internal/http/handlers"
	httpMW "github.com/maturamate/maturamate-backend/internal/http/middleware"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

func wireRouterConfig(log *logger.Logger, cfg Config, s Services, c Clients) httpx.RouterConfig {
	log.Info("Wiring handlers...")
	return httpx.RouterConfig{
		Log:                log,
		ServiceName:        cfg.ServiceName,
		CORSOrigins:        cfg.CORSOrigins,
		Metrics:            c.Metrics,
		UnsubscribeLimiter: c.Unsubscribe,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, s.Auth),

		HealthHandler:      httpH.NewHealthHandler(readinessChecks(c)),
		AuthHandler:        httpH.NewAuthHandler(log, s.Auth),
		UserHandler:        httpH.NewUserHandler(log, s.User),
		ExerciseHandler:    httpH.NewExerciseHandler(log, s.Exercise),
		ProgressHandler:    httpH.NewProgressHandler(log, s.Progress),
		NoteHandler:        httpH.NewNoteHandler(log, s.Note, s.StudySession),
		SimulationHandler:  httpH.NewSimulationHandler(log, s.Simulation),
		BillingHandler:     httpH.NewBillingHandler(log, s.Billing),
		UnsubscribeHandler: httpH.NewUnsubscribeHandler(log, s.EmailPrefs),
		StatsHandler:       httpH.NewStatsHandler(log, s.Stats),
	}
}

func readinessChecks(c Clients) map[string]httpH.ReadinessCheck {
	checks := map[string]httpH.ReadinessCheck{}
	if c.DB != nil {
		checks["db"] = func(ctx context.Context) error {
			sqlDB, err := c.DB.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if c.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() }
	}
	return checks
}
