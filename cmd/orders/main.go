package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/tribemart/tribemart-orders-service/internal/config"
	"github.com/tribemart/tribemart-orders-service/internal/events"
	"github.com/tribemart/tribemart-orders-service/internal/handlers"
	"github.com/tribemart/tribemart-orders-service/internal/logging"
	"github.com/tribemart/tribemart-orders-service/internal/middleware"
	"github.com/tribemart/tribemart-orders-service/internal/notification"
	"github.com/tribemart/tribemart-orders-service/internal/payment"
	"github.com/tribemart/tribemart-orders-service/internal/repository"
	"github.com/tribemart/tribemart-orders-service/internal/server"
	"github.com/tribemart/tribemart-orders-service/internal/service"
)

func main() {
	cfg, err := config.Load(envOr("CONFIG_DIR", "./config"), envOr("APP_ENV", "dev"))
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)
	logger.Info("starting orders-service", "port", cfg.Server.Port)

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	orderRepo := repository.NewPostgresOrderRepository(db, logging.New("order-repo"))
	orderCache := repository.NewRedisOrderCache(cfg, logging.New("order-cache"))

	publisher := events.NewKafkaPublisher(cfg, logging.New("event-publisher"))
	defer publisher.Close()

	channels := notification.DefaultChannels(
		cfg.Notifications.FailureRate,
		cfg.Notifications.MaxLatency,
		logging.New("notification-channel"),
	)
	dispatcher := notification.NewDispatcher(channels, logging.New("notification-dispatcher"))

	gateway := payment.NewGatewayClient(cfg, logging.New("payment-gateway"))
	verifier := payment.NewVerifier(cfg.Gateway.KeySecret)

	orderService := service.NewOrderService(
		orderRepo,
		orderCache,
		publisher,
		dispatcher,
		verifier,
		cfg,
		logging.New("order-service"),
	)
	paymentService := service.NewPaymentService(gateway, logging.New("payment-service"))

	h := handlers.NewHandlers(orderService, paymentService, logging.New("handlers"))
	auth := middleware.NewAuth(cfg)

	srv := server.New(h, auth, cfg)

	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"caching", cfg.Features.EnableOrderCaching,
			"events", cfg.Features.EnableOrderEvents)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
