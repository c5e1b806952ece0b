// Copyright 2026 The Herdbook Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herdbook/herdbook/internal/audit"
	"github.com/herdbook/herdbook/internal/blob"
	"github.com/herdbook/herdbook/internal/config"
	"github.com/herdbook/herdbook/internal/farm"
	"github.com/herdbook/herdbook/internal/finance"
	"github.com/herdbook/herdbook/internal/herd"
	"github.com/herdbook/herdbook/internal/identity"
	"github.com/herdbook/herdbook/internal/inventory"
	"github.com/herdbook/herdbook/internal/observability/logger"
	"github.com/herdbook/herdbook/internal/observability/metrics"
	"github.com/herdbook/herdbook/internal/observability/tracing"
	"github.com/herdbook/herdbook/internal/records"
	"github.com/herdbook/herdbook/internal/session"
	"github.com/herdbook/herdbook/internal/staff"
	"github.com/herdbook/herdbook/internal/store/postgres"
	"github.com/herdbook/herdbook/internal/tasks"
	"github.com/herdbook/herdbook/internal/token"
	transportHTTP "github.com/herdbook/herdbook/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting herdbook backend")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	_, err = metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize repositories
	farmRepo := postgres.NewFarmRepository(db)
	userRepo := postgres.NewUserRepository(db)
	storeSessionRepo := postgres.NewSessionRepository(db)
	animalRepo := postgres.NewAnimalRepository(db)
	healthRepo := postgres.NewHealthRepository(db)
	feedingRepo := postgres.NewFeedingRepository(db)
	breedingRepo := postgres.NewBreedingRepository(db)
	productionRepo := postgres.NewProductionRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	staffRepo := postgres.NewStaffRepository(db)
	financeRepo := postgres.NewFinanceRepository(db)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	passwordHasher := identity.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Avatar blob store
	var avatarStore blob.Store
	switch cfg.Avatar.Driver {
	case "s3":
		avatarStore, err = blob.NewS3(ctx, blob.S3Config{
			Region:    cfg.Avatar.S3Region,
			Bucket:    cfg.Avatar.S3Bucket,
			Endpoint:  cfg.Avatar.S3Endpoint,
			PathStyle: cfg.Avatar.S3PathStyle,
		})
		if err != nil {
			slog.Error("failed to initialize s3 blob store", logger.Error(err))
			os.Exit(1)
		}
	default:
		avatarStore = blob.NewMemory()
	}

	// Initialize services
	farmService := farm.NewService(farmRepo, auditLogger)
	identityService := identity.NewService(
		userRepo,
		passwordHasher,
		auditLogger,
		cfg.Security.LockoutMaxAttempts,
		cfg.Security.LockoutDuration,
	)
	avatarService := identity.NewAvatarService(userRepo, avatarStore, cfg.Avatar.MaxSizeBytes)
	sessionService := session.NewService(storeSessionRepo, cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	tokenService := token.NewService(cfg.Token.SigningKey, cfg.Token.Lifetime, cfg.Token.Issuer)
	herdService := herd.NewService(animalRepo, auditLogger)
	recordsService := records.NewService(healthRepo, feedingRepo, breedingRepo, productionRepo, auditLogger)
	inventoryService := inventory.NewService(inventoryRepo, auditLogger)
	taskService := tasks.NewService(taskRepo, auditLogger)
	staffService := staff.NewService(staffRepo, auditLogger)
	financeService := finance.NewService(financeRepo, auditLogger)

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Configure SameSite mode
	sameSite := http.SameSiteLaxMode
	switch cfg.Session.CookieSameSite {
	case "Strict":
		sameSite = http.SameSiteStrictMode
	case "None":
		sameSite = http.SameSiteNoneMode
	}

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		farmService,
		identityService,
		avatarService,
		sessionService,
		tokenService,
		herdService,
		recordsService,
		inventoryService,
		taskService,
		staffService,
		financeService,
		auditLogger,
		transportHTTP.SessionConfig{
			CookieName:     cfg.Session.CookieName,
			CookieDomain:   cfg.Session.CookieDomain,
			CookiePath:     cfg.Session.CookiePath,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHTTPOnly: cfg.Session.CookieHTTPOnly,
			CookieSameSite: sameSite,
		},
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start session cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessionService.CleanupExpired(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to cleanup expired sessions", logger.Error(err))
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}

func runMigrate(cfg *config.Config) error {
	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Applying initial schema...")
	if err := db.Migrate(ctx, postgres.InitialSchema); err != nil {
		return err
	}
	fmt.Println("Migration successful.")
	return nil
}
