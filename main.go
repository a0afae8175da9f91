package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/config"
	"hvacops-backend/routes"
	"hvacops-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.InitLogger(cfg)
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDB(cfg.DBURL)
	if err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migration failed")
	}
	if seeded, err := config.SeedSuperAdmin(db, cfg.SeedSuperAdminEmail, cfg.SeedSuperAdminPassword); err != nil {
		logger.WithError(err).Error("superadmin seed failed")
	} else if seeded {
		logger.WithField("email", cfg.SeedSuperAdminEmail).Info("superadmin account created")
	}

	dispatcher := services.NewDispatcher(db, services.NewRenderer(cfg.CompanyName), notificationChannels(cfg, logger),
		cfg.NotifyQueueSize, logger)

	jobs := services.NewJobService(db, logger)
	svc := routes.Services{
		Users:     services.NewUserService(db, logger, cfg.JWTSecret, cfg.JWTExpiry()),
		Customers: services.NewCustomerService(db, logger),
		Jobs:      jobs,
		Phases:    services.NewPhaseService(db, dispatcher, logger),
		Payments:  services.NewPaymentService(db, logger),
		Inventory: services.NewInventoryService(db, logger),
		Stats:     services.NewStatsService(db),
		Export:    services.NewExportService(jobs),
	}

	reminders := services.NewReminderService(db, dispatcher, logger)
	if cfg.BalanceReminderCron != "" {
		if err := reminders.StartScheduler(cfg.BalanceReminderCron); err != nil {
			logger.WithError(err).Fatal("reminder scheduler failed")
		}
	}

	r := routes.SetupRouter(cfg, logger, svc)
	printRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logger.WithField("port", cfg.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown")
	}
	reminders.Stop()
	if err := dispatcher.Close(ctx); err != nil {
		logger.WithError(err).Warn("notification queue not drained")
	}
}

func notificationChannels(cfg *config.Configuration, logger *logrus.Logger) []services.Channel {
	var channels []services.Channel
	if cfg.EmailEnabled() {
		channels = append(channels, services.NewEmailChannel(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailFromName))
	}
	if cfg.SMSEnabled() {
		channels = append(channels, services.NewSMSChannel(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber))
	}
	if len(channels) == 0 {
		logger.Warn("no notification channel configured, notifications will only be logged")
		channels = append(channels, services.NewLogChannel(logger))
	}
	return channels
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
