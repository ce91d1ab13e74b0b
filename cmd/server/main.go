package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"adpulse/internal/api"
	"adpulse/internal/api/handlers"
	"adpulse/internal/api/middleware"
	"adpulse/internal/engine/analytics"
	"adpulse/internal/engine/ingest"
	"adpulse/internal/engine/metrics"
	"adpulse/internal/engine/pixel"
	"adpulse/internal/pkg/logger"
	"adpulse/internal/platform/auth"
	"adpulse/internal/platform/config"
	"adpulse/internal/platform/database"
	"adpulse/internal/platform/models"
	"adpulse/internal/platform/repositories"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	logRepo := repositories.NewWebhookLogRepository(db)
	metricRepo := repositories.NewMetricRepository(db)
	insightRepo := repositories.NewInsightRepository(db)
	pixelRepo := repositories.NewPixelRepository(db)
	eventRepo := repositories.NewPixelEventRepository(db)
	analyticsRepo := analytics.NewRepository(db)

	if err := bootstrapAdmin(userRepo, cfg.Bootstrap); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	// Services
	tokenSvc := auth.NewTokenService(cfg.JWT)
	authenticator := ingest.NewAuthenticator(accountRepo)
	auditor := ingest.NewAuditor(logRepo)
	writer := ingest.NewWriter(orderRepo, auditor)
	metricSvc := metrics.NewService(metricRepo, insightRepo)

	tracker := pixel.NewTracker(eventRepo, clockwork.NewRealClock(),
		func() string { return "evt_" + uuid.New().String() },
		pixel.TrackerOptions{
			QueueSize:     cfg.Pixel.QueueSize,
			BatchSize:     cfg.Pixel.BatchSize,
			FlushInterval: cfg.Pixel.FlushInterval,
		})
	tracker.Start()
	defer tracker.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenSvc)
	accountHandler := handlers.NewAccountHandler(accountRepo, cfg.Webhooks.PublicBaseURL)
	webhookHandler := handlers.NewWebhookHandler(authenticator, writer, auditor)
	orderHandler := handlers.NewOrderHandler(orderRepo, analyticsRepo)
	metricHandler := handlers.NewMetricHandler(metricRepo, metricSvc)
	insightHandler := handlers.NewInsightHandler(insightRepo)
	logHandler := handlers.NewLogHandler(logRepo)
	pixelHandler := handlers.NewPixelHandler(pixelRepo, tracker, analyticsRepo, cfg.Pixel.CollectURL)
	healthHandler := handlers.NewHealthHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	deps := &api.Dependencies{
		AuthHandler:    authHandler,
		AccountHandler: accountHandler,
		WebhookHandler: webhookHandler,
		OrderHandler:   orderHandler,
		MetricHandler:  metricHandler,
		InsightHandler: insightHandler,
		LogHandler:     logHandler,
		PixelHandler:   pixelHandler,
		HealthHandler:  healthHandler,
		AuthMiddleware: authMiddleware,
	}
	router := api.NewRouter(deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server failed: %v", err)
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
		srv.Close()
	}
}

// bootstrapAdmin seeds the first admin user when the users table is empty.
func bootstrapAdmin(users *repositories.UserRepository, cfg config.BootstrapConfig) error {
	count, err := users.Count()
	if err != nil {
		return err
	}
	if count > 0 || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	admin := &models.User{
		ID:           "usr_" + uuid.New().String(),
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(admin); err != nil {
		return err
	}
	log.Printf("Bootstrapped admin user %s", cfg.AdminEmail)
	return nil
}
