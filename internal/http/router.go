package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/maturamate/maturamate-backend/internal/http/handlers"
	httpMW "github.com/maturamate/maturamate-backend/internal/http/middleware"
	"github.com/maturamate/maturamate-backend/internal/observability"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	// UnsubscribeLimiter throttles the public unsubscribe link per client IP.
	UnsubscribeLimiter *ratelimit.Pool

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler        *httpH.AuthHandler
	UserHandler        *httpH.UserHandler
	ExerciseHandler    *httpH.ExerciseHandler
	ProgressHandler    *httpH.ProgressHandler
	NoteHandler        *httpH.NoteHandler
	SimulationHandler  *httpH.SimulationHandler
	BillingHandler     *httpH.BillingHandler
	UnsubscribeHandler *httpH.UnsubscribeHandler
	StatsHandler       *httpH.StatsHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
		if cfg.UnsubscribeHandler != nil {
			api.GET("/unsubscribe", httpMW.RateLimit(cfg.UnsubscribeLimiter, cfg.Metrics), cfg.UnsubscribeHandler.Unsubscribe)
		}
		// Stripe authenticates itself with the signature header.
		if cfg.BillingHandler != nil {
			api.POST("/stripe/webhook", cfg.BillingHandler.Webhook)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	// Simulation flagging predates the JSON error envelope; its client reads a text 401.
	if cfg.SimulationHandler != nil {
		api.POST("/simulations/flag", cfg.AuthMiddleware.RequireAuthPlain(), cfg.SimulationHandler.ToggleFlag)
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Exercises
		if cfg.ExerciseHandler != nil {
			protected.POST("/exercises/flag-exercise", cfg.ExerciseHandler.ToggleExerciseFlag)
			protected.GET("/exercises/flag-exercise", cfg.ExerciseHandler.GetExerciseFlag)
			protected.POST("/exercises/flag-card", cfg.ExerciseHandler.ToggleCardFlag)
			protected.GET("/exercises/flag-card", cfg.ExerciseHandler.GetCardFlag)
			protected.GET("/exercises/flagged-bulk", cfg.ExerciseHandler.FlaggedBulk)
			protected.GET("/exercises/flagged", cfg.ExerciseHandler.ListFlagged)
			protected.POST("/exercises/complete", cfg.ExerciseHandler.Complete)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			protected.POST("/subtopics/complete", cfg.ProgressHandler.CompleteSubtopic)
			protected.GET("/subtopics/:id/progress", cfg.ProgressHandler.SubtopicProgress)
			protected.POST("/topics/complete", cfg.ProgressHandler.CompleteTopic)
		}

		// Notes
		if cfg.NoteHandler != nil {
			protected.POST("/notes/favorite", cfg.NoteHandler.SetFavorite)
			protected.GET("/notes/favorites", cfg.NoteHandler.ListFavorites)
			protected.GET("/notes/:noteId/pdf-url", cfg.NoteHandler.PDFURL)
			protected.POST("/notes/study-session", cfg.NoteHandler.StartStudySession)
			protected.PATCH("/notes/study-session/:sessionId", cfg.NoteHandler.TouchStudySession)
		}

		// Simulations
		if cfg.SimulationHandler != nil {
			protected.GET("/simulations/flagged", cfg.SimulationHandler.ListFlagged)
			protected.POST("/simulations/start", cfg.SimulationHandler.Start)
		}

		// Billing
		if cfg.BillingHandler != nil {
			protected.POST("/stripe/checkout", cfg.BillingHandler.Checkout)
		}

		// Dashboard
		if cfg.StatsHandler != nil {
			protected.GET("/dashboard/stats", cfg.StatsHandler.Dashboard)
		}
	}

	return r
}
