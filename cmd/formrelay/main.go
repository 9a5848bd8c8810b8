package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formrelay/formrelay/pkg/app/contact"
	"github.com/formrelay/formrelay/pkg/config"
	handlers "github.com/formrelay/formrelay/pkg/handlers/http"
	"github.com/formrelay/formrelay/pkg/infra/httpx"
	infraLogger "github.com/formrelay/formrelay/pkg/infra/logger"
	"github.com/formrelay/formrelay/pkg/infra/mailer"
	"github.com/formrelay/formrelay/pkg/infra/prometheus"
	"github.com/formrelay/formrelay/pkg/infra/turnstile"
	"github.com/formrelay/formrelay/pkg/lead"
	"github.com/formrelay/formrelay/pkg/middleware"
	"github.com/formrelay/formrelay/pkg/ratelimit"
	"github.com/formrelay/formrelay/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	if cfg.Metrics.Enabled {
		prometheus.Initialize()
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	// components
	limiter := ratelimit.NewLimiter(ratelimit.Config{}, nil)
	validator := lead.NewValidator(nil)
	verifier := turnstile.NewVerifier(
		cfg.Turnstile.SecretKey,
		httpClient,
		httpx.NewCircuitBreaker("turnstile", 30*time.Second, 5),
		nil,
	)
	dispatcher := mailer.NewMailer(
		cfg.Mail,
		httpClient,
		httpx.NewCircuitBreaker("resend", 30*time.Second, 5),
		nil,
	)
	processor := contact.NewProcessor(validator, verifier, dispatcher, logger)

	// middleware
	middlewareTransport := middleware.Transport{
		TraceIdMiddleware:   middleware.NewTraceIdMiddleware(),
		RateLimitMiddleware: middleware.NewRateLimitMiddleware(logger, limiter),
		MetricsMiddleware:   middleware.NewMetricsMiddleware(logger, cfg.Metrics),
	}

	// handler transport
	handlerTransport := handlers.HandlerTransport{
		ContactHandler: handlers.NewContactHandler(logger, processor),
		VersionHandler: handlers.NewVersionHandler(),
	}

	srv := server.NewAPIServer(server.APIServerDI{
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
		Config:              cfg,
		Logger:              logger,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("error shutting down server")
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
