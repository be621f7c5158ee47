package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/standup-api/internal/config"
	"github.com/yukikurage/standup-api/internal/constants"
	"github.com/yukikurage/standup-api/internal/database"
	"github.com/yukikurage/standup-api/internal/handlers"
	"github.com/yukikurage/standup-api/internal/identity"
	"github.com/yukikurage/standup-api/internal/logger"
	"github.com/yukikurage/standup-api/internal/middleware"
	"github.com/yukikurage/standup-api/internal/repository"
	"github.com/yukikurage/standup-api/internal/services"
	"github.com/yukikurage/standup-api/internal/telemetry"
	"gorm.io/gorm"
)

const (
	serviceName     = "standup-api"
	shutdownTimeout = 10 * time.Second
	limiterSweep    = 3 * time.Minute
)

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := telemetry.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(flushCtx)
	}()

	if err := database.Connect(cfg); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(cfg.InvitationRateLimit, cfg.InvitationRateBurst)
	go limiter.Run(ctx, limiterSweep)

	r := newRouter(cfg, database.GetDB(), sessionStore, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSessionStore returns a redis backed store, or a cookie store when
// SESSION_STORE=cookie.
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case "cookie":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	case "redis", "":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,    // pool size
			"tcp", // network type
			redisAddr,
			"", // username
			"", // password
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", err)
		}
		store = rs
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

func newRouter(cfg *config.Config, db *gorm.DB, sessionStore sessions.Store, limiter *middleware.RateLimiter) *gin.Engine {
	store := repository.NewStore(db)

	profiles := identity.NewClient(identity.Config{
		BaseURL:   cfg.IdentityBaseURL,
		ProjectID: cfg.IdentityProjectID,
		SecretKey: cfg.IdentitySecretKey,
	})
	verifier := identity.NewTokenVerifier(cfg.IdentityJWTSecret, cfg.IdentityJWTIssuer, cfg.IdentityJWTAudience)

	var summarizer services.Summarizer
	if cfg.OpenAIAPIKey != "" {
		summarizer = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, standup digests are disabled")
	}

	boardService := services.NewBoardService(store)
	collaboratorService := services.NewCollaboratorService(store, profiles)
	invitationService := services.NewInvitationService(store)
	standupService := services.NewStandupService(store, summarizer)

	r := gin.New()
	r.Use(
		logger.GinRecovery(),
		middleware.RequestID(),
		logger.GinLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		sessions.Sessions(constants.SessionCookieName, sessionStore),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Standup API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(r.Group("/api"), handlers.Handlers{
		Auth:         handlers.NewAuthHandler(verifier, profiles),
		Board:        handlers.NewBoardHandler(boardService),
		Collaborator: handlers.NewCollaboratorHandler(collaboratorService),
		Invitation:   handlers.NewInvitationHandler(invitationService),
		Standup:      handlers.NewStandupHandler(standupService),
	}, handlers.RouteConfig{
		RequireAuth:     middleware.RequireAuth(verifier),
		InvitationLimit: limiter.Middleware(),
		Boards:          boardService,
		Members:         collaboratorService,
	})

	return r
}
