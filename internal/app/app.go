package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/klap2026/klap/domain"
	"github.com/klap2026/klap/internal/config"
	httpx "github.com/klap2026/klap/internal/http"
	"github.com/klap2026/klap/internal/http/handlers"
	"github.com/klap2026/klap/internal/http/middleware"
	"github.com/klap2026/klap/internal/infrastructure/auth"
	"github.com/klap2026/klap/internal/infrastructure/database"
	"github.com/klap2026/klap/internal/infrastructure/notifications"
	"github.com/klap2026/klap/internal/infrastructure/places"
	"github.com/klap2026/klap/internal/infrastructure/repositories"
	"github.com/klap2026/klap/internal/ratelimit"
	"github.com/klap2026/klap/internal/services"
)

// App is the assembled application.
type App struct {
	Router http.Handler
	cfg    *config.Config
}

// New wires the whole dependency graph from configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	policySvc, err := auth.NewCasbinService(db, cfg.CasbinModelPath)
	if err != nil {
		return nil, fmt.Errorf("init policies: %w", err)
	}
	if err := seedPolicies(policySvc); err != nil {
		return nil, fmt.Errorf("seed policies: %w", err)
	}

	var store ratelimit.Store
	if cfg.RedisAddr != "" {
		client := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := database.Ping(ctx, client); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		store = ratelimit.NewRedisStore(client)
		log.Info().Str("addr", cfg.RedisAddr).Msg("rate limit store: redis")
	} else {
		store = ratelimit.NewMemoryStore()
		log.Info().Msg("rate limit store: memory")
	}
	limiter := ratelimit.New(store)
	limiter.StartSweeper(ctx, cfg.SweepInterval)

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("running with the development JWT secret; set JWT_SECRET in production")
	}

	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	technicianRepo := repositories.NewTechnicianRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	tokenSvc := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	smsSvc := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)
	otpSvc := services.NewOTPService(otpRepo, smsSvc, services.OTPConfig{
		TTL:         cfg.OTPExpiry,
		MaxAttempts: cfg.OTPMaxAttempts,
		Mode:        cfg.OTPMode,
	})
	authSvc := services.NewAuthService(userRepo, sessionRepo, customerRepo, technicianRepo, otpSvc, tokenSvc, limiter)
	profileSvc := services.NewProfileService(customerRepo, technicianRepo)
	jobSvc := services.NewJobService(jobRepo, customerRepo)

	secure := !cfg.Development()
	router := httpx.BuildRouter(httpx.RouterDeps{
		Gateway:     middleware.NewAuthGateway(tokenSvc, policySvc, cfg.Development(), secure),
		EdgeLimiter: middleware.NewEdgeLimiter(cfg.EdgeRPS, cfg.EdgeBurst),
		Auth: handlers.NewAuthHandlers(authSvc, otpSvc, limiter, handlers.AuthLimits{
			SendOTPWindow:    cfg.SendOTPWindow,
			SendOTPMax:       cfg.SendOTPMax,
			VerifyOTPWindow:  cfg.VerifyOTPWindow,
			VerifyOTPMax:     cfg.VerifyOTPMax,
			RoleUpdateWindow: cfg.RoleUpdateWindow,
			RoleUpdateMax:    cfg.RoleUpdateMax,
		}, secure),
		Profiles: handlers.NewProfileHandlers(profileSvc),
		Jobs:     handlers.NewJobHandlers(jobSvc),
		Admin:    handlers.NewAdminHandlers(adminRepo),
		Places: handlers.NewPlacesHandlers(places.NewClient(cfg.PlacesAPIKey), limiter, handlers.PlacesLimits{
			Window: cfg.PlacesWindow,
			Max:    cfg.PlacesMax,
		}),
	})

	return &App{Router: router, cfg: cfg}, nil
}

// Run serves HTTP until the context is cancelled, then drains for up
// to ten seconds.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// seedPolicies installs the role-to-route policy rows. AddPolicy is
// idempotent so a restart does not duplicate them.
func seedPolicies(policySvc *auth.CasbinService) error {
	type rule struct{ role, path string }
	rules := []rule{
		{domain.RoleTechnician, "/dashboard*"},
		{domain.RoleTechnician, "/schedule*"},
		{domain.RoleTechnician, "/jobs*"},
		{domain.RoleTechnician, "/customers*"},
		{domain.RoleTechnician, "/settings*"},
		{domain.RoleCustomer, "/home*"},
		{domain.RoleCustomer, "/book*"},
		{domain.RoleCustomer, "/history*"},
	}
	for _, r := range rules {
		if err := policySvc.AddPolicy(r.role, r.path, "GET"); err != nil {
			return err
		}
	}
	return nil
}
