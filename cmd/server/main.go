package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aqsa08/training-mvp-backend/internal/app"
	"github.com/aqsa08/training-mvp-backend/internal/infra/config"
	idb "github.com/aqsa08/training-mvp-backend/internal/infra/database"
	"github.com/aqsa08/training-mvp-backend/internal/infra/httpapi"
	"github.com/aqsa08/training-mvp-backend/internal/infra/logger"
	"github.com/aqsa08/training-mvp-backend/internal/infra/scheduler"
	"github.com/aqsa08/training-mvp-backend/internal/infra/sms"
)

func main() {
	fmt.Println("Training backend starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, SMSProvider: %s", cfg.LogLevel, cfg.Environment, cfg.SMSProvider)

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	// Repositories
	dispatchStore := idb.NewPostgresDispatchStore(db)
	reflectionRepo := idb.NewPostgresReflectionRepository(db)
	analyticsRepo := idb.NewPostgresAnalyticsRepository(db)
	cohortRepo := idb.NewPostgresCohortRepository(db)
	orgRepo := idb.NewPostgresOrgRepository(db)

	// Services
	smsSender := sms.NewSenderFromConfig(cfg, log)
	dispatchService := app.NewDailyDispatchService(dispatchStore, smsSender, log)
	reflectionService := app.NewReflectionService(reflectionRepo, log)
	analyticsService := app.NewAnalyticsService(analyticsRepo)
	authService := app.NewAuthService(orgRepo, cfg.JWTSecret)
	orgService := app.NewOrgService(orgRepo)
	billingService := app.NewBillingService(orgRepo, log)

	// Scheduler
	dispatchScheduler := scheduler.NewDispatchScheduler(dispatchService, log, cfg.CronSpecDailySend)
	if err := dispatchScheduler.Start(); err != nil {
		log.Fatalf("Could not start dispatch scheduler: %v", err)
	}

	// HTTP
	authMiddleware := httpapi.NewAuthMiddleware(authService, orgRepo)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		CORSOrigin:        cfg.CORSOrigin,
		AuthMiddleware:    authMiddleware,
		HealthHandler:     httpapi.NewHealthHandler(db),
		AuthHandler:       httpapi.NewAuthHandler(authService, log),
		InboundHandler:    httpapi.NewInboundHandler(reflectionService, log),
		BillingHandler:    httpapi.NewBillingHandler(billingService, cfg.BillingWebhookSecret, log),
		OrgHandler:        httpapi.NewOrgHandler(orgService, log),
		CohortHandler:     httpapi.NewCohortHandler(cohortRepo, log),
		AnalyticsHandler:  httpapi.NewAnalyticsHandler(analyticsService, log),
		ReflectionHandler: httpapi.NewReflectionHandler(reflectionService, log),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Infof("HTTP server listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	dispatchScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("Application shut down gracefully.")
}
