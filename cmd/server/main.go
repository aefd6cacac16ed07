package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/config"
	"caretrek-backend/internal/database"
	"caretrek-backend/internal/db"
	"caretrek-backend/internal/handlers"
	"caretrek-backend/internal/health"
	chttp "caretrek-backend/internal/http"
	"caretrek-backend/internal/middleware"
	"caretrek-backend/internal/monitoring"
	"caretrek-backend/internal/realtime"
	"caretrek-backend/internal/repositories"
	"caretrek-backend/internal/services"
	"caretrek-backend/internal/sms"
	"caretrek-backend/migrations"
	"caretrek-backend/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", err)
	}

	pool, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", err)
	}
	defer pool.Close()

	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	if err := migrator.RunMigrations(context.Background()); err != nil {
		logger.Fatal("failed to run migrations", err)
	}

	jwtManager := auth.NewJWTManager(cfg)

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	connectionRepo := repositories.NewConnectionRepository(pool)
	healthMetricRepo := repositories.NewHealthMetricRepository(pool)
	medicationRepo := repositories.NewMedicationRepository(pool)
	appointmentRepo := repositories.NewAppointmentRepository(pool)
	alertRepo := repositories.NewAlertRepository(pool)
	alertDeliveryRepo := repositories.NewAlertDeliveryRepository(pool)

	// SMS provider
	var smsProvider sms.SMSProvider
	if cfg.SMS.Provider == "fast2sms" {
		smsProvider = sms.NewFast2SMSService(cfg.SMS.APIKey)
	} else {
		smsProvider = sms.NewMockSMSService()
	}

	hub := realtime.NewHub()

	// Services
	authService := services.NewAuthService(userRepo, jwtManager)
	connectionService := services.NewConnectionService(connectionRepo, userRepo)
	connectionService.Notifier = hub
	healthService := services.NewHealthService(healthMetricRepo, connectionService)
	medicationService := services.NewMedicationService(medicationRepo, connectionService)
	appointmentService := services.NewAppointmentService(appointmentRepo, connectionService)
	alertService := services.NewAlertService(alertRepo, alertDeliveryRepo, userRepo, connectionService, smsProvider, hub)

	// Background system metrics collection
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	systemMonitor := monitoring.NewService(10 * time.Second)
	systemMonitor.Start(ctx)

	checker := health.NewChecker(pool)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	healthMetricHandler := handlers.NewHealthMetricHandler(healthService)
	medicationHandler := handlers.NewMedicationHandler(medicationService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	alertHandler := handlers.NewAlertHandler(alertService)
	monitoringHandler := handlers.NewMonitoringHandler(systemMonitor, checker, pool)
	wsHandler := handlers.NewWSHandler(hub, jwtManager)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	router := chttp.NewRouter(
		authHandler,
		connectionHandler,
		healthMetricHandler,
		medicationHandler,
		appointmentHandler,
		alertHandler,
		monitoringHandler,
		wsHandler,
		authMiddleware,
	)

	handler := middleware.NewCORS(cfg).Handler(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
