package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-backend/internal/client"
	"storefront-backend/internal/config"
	"storefront-backend/internal/dispatch"
	"storefront-backend/internal/logging"
	"storefront-backend/internal/repository"
	"storefront-backend/internal/server"
	"storefront-backend/internal/service"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log)
	if !dotenv {
		logger.Info("no .env file found (ok in prod)")
	}

	db, err := client.InitDB(cfg.Database)
	if err != nil {
		logger.Error("init database", "error", err)
		os.Exit(1)
	}
	if err := client.Migrate(db); err != nil {
		logger.Error("migrate database", "error", err)
		os.Exit(1)
	}

	payments, err := client.NewPaymentLookup(cfg)
	if err != nil {
		logger.Error("init payment lookup", "error", err)
		os.Exit(1)
	}
	mailer, err := client.NewMailer(&cfg.Email, logger)
	if err != nil {
		logger.Error("init mailer", "error", err)
		os.Exit(1)
	}
	dispatcher := dispatch.NewDispatcher(cfg.Retry, logger)

	orderRepo := repository.NewOrderRepository(db)
	eventRepo := repository.NewOrderEventRepository(db)
	stockRepo := repository.NewStockRepository(db)

	paymentService := service.NewPaymentService(
		db,
		payments,
		mailer,
		dispatcher,
		orderRepo,
		eventRepo,
		stockRepo,
		logger,
	)
	orderService := service.NewOrderService(orderRepo, eventRepo, mailer, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(paymentService, orderService, server.Options{
		WebhookSecret:  cfg.MercadoPago.WebhookSecret,
		AdminJWTSecret: cfg.Admin.JWTSecret,
	}, logger)

	logger.Info("starting HTTP server",
		"addr", serverAddr,
		"environment", cfg.Environment.Name,
		"payment_provider", cfg.PaymentProvider,
		"test_mode", cfg.MercadoPago.TestMode,
	)
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	ctx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	// let in-flight events and emails finish
	if err := dispatcher.Close(ctx); err != nil {
		logger.Error("dispatcher shutdown error", "error", err)
	}
}
