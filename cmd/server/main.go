package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Anittaa1111/Hostel-Management/internal/auth"
	"github.com/Anittaa1111/Hostel-Management/internal/config"
	"github.com/Anittaa1111/Hostel-Management/internal/db"
	"github.com/Anittaa1111/Hostel-Management/internal/email"
	"github.com/Anittaa1111/Hostel-Management/internal/logging"
	"github.com/Anittaa1111/Hostel-Management/internal/metrics"
	"github.com/Anittaa1111/Hostel-Management/internal/ratelimit"
	"github.com/Anittaa1111/Hostel-Management/internal/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	store, err := db.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatal("db error", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	var mailer email.Sender
	if cfg.SMTPConfigured() {
		mailer = email.NewSMTPSender(email.Config{
			Host:       cfg.SmtpHost,
			Port:       cfg.SmtpPort,
			Username:   cfg.SmtpUser,
			Password:   cfg.SmtpPass,
			From:       cfg.SmtpFrom,
			OTPMinutes: cfg.OtpMinutes,
		})
	} else {
		logger.Warn("SMTP not configured, mail is written to the log")
		mailer = &email.LogSender{Logger: logger}
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.New(registry)

	opts := []auth.Option{auth.WithMetrics(appMetrics)}
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		opts = append(opts, auth.WithThrottle(ratelimit.NewOTPLimiter(
			redisClient,
			time.Duration(cfg.OtpWindowMinutes)*time.Minute,
			cfg.OtpMaxPerWindow,
			time.Duration(cfg.OtpCooldownSeconds)*time.Second,
		)))
	}

	authService := auth.NewService(store.Users, store.Pending, mailer, logger, auth.Config{
		JwtSecret:      cfg.JwtSecret,
		AccessTTL:      cfg.AccessTTL(),
		OtpTTL:         cfg.OtpTTL(),
		AdminBootstrap: cfg.AdminBootstrap,
	}, opts...)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logging.Middleware(logger), gin.Recovery(), appMetrics.Middleware())

	routes.Register(router, routes.Deps{
		Config:  cfg,
		Store:   store,
		Auth:    authService,
		Mailer:  mailer,
		Logger:  logger,
		Metrics: registry,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Warn("close store", zap.Error(err))
	}
	logger.Info("server exited")
}
