package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/config"
	"github.com/sacco-portal/sacco-api/internal/domain/admin"
	"github.com/sacco-portal/sacco-api/internal/domain/audit"
	"github.com/sacco-portal/sacco-api/internal/domain/dashboard"
	"github.com/sacco-portal/sacco-api/internal/domain/loan"
	"github.com/sacco-portal/sacco-api/internal/domain/member"
	"github.com/sacco-portal/sacco-api/internal/domain/savings"
	"github.com/sacco-portal/sacco-api/internal/ledger"
	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/database"
	"github.com/sacco-portal/sacco-api/internal/pkg/identity"
	"github.com/sacco-portal/sacco-api/internal/pkg/logger"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
	"github.com/sacco-portal/sacco-api/internal/seed"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SACCO portal API")

	ctx := context.Background()

	// ---------- Store ----------
	var store ledger.Store
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer database.ClosePostgres(db)

		pg := ledger.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		if err := pg.SeedAdmins(ctx, seed.Admins()); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed admins")
		}
		store = pg
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		opts := []ledger.MemoryOption{ledger.WithAdmins(seed.Admins())}
		if cfg.StoreLatency > 0 {
			opts = append(opts, ledger.WithLatency(cfg.StoreLatency))
		}
		store = ledger.NewMemoryStore(opts...)
	}

	if cfg.SeedDemo {
		if err := seed.Demo(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo data")
		}
	}

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	verifier := identity.NewVerifier(cfg.JWTSecret)

	// ---------- Services ----------
	memberService := member.NewService(store)
	adminService := admin.NewService(store)
	savingsService := savings.NewService(store)
	loanService := loan.NewService(store)
	auditService := audit.NewService(store)
	dashboardService := dashboard.NewService(store, redis, cfg.Currency, cfg.WeekStart)

	// ---------- Handlers ----------
	memberHandler := member.NewHandler(memberService)
	adminHandler := admin.NewHandler(adminService)
	savingsHandler := savings.NewHandler(savingsService)
	loanHandler := loan.NewHandler(loanService)
	auditHandler := audit.NewHandler(auditService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	authMiddleware := middleware.Auth(verifier)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/me", memberHandler.Routes(authMiddleware))
		r.Mount("/members", memberHandler.AdminRoutes(authMiddleware))
		r.Mount("/savings", savingsHandler.Routes(authMiddleware))
		r.Mount("/profits", savingsHandler.ProfitRoutes(authMiddleware))
		r.Mount("/loans", loanHandler.Routes(authMiddleware))
		r.Mount("/dashboard", dashboardHandler.Routes(authMiddleware))
		r.Mount("/audit", auditHandler.Routes(authMiddleware))
		r.Mount("/admins", adminHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
