package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/tazhibayda/social-service/internal/config"
	httpapi "github.com/tazhibayda/social-service/internal/http"
	"github.com/tazhibayda/social-service/internal/log"
	"github.com/tazhibayda/social-service/internal/media"
	"github.com/tazhibayda/social-service/internal/metrics"
	"github.com/tazhibayda/social-service/internal/queue"
	"github.com/tazhibayda/social-service/internal/repo"
	"github.com/tazhibayda/social-service/internal/security"
	"github.com/tazhibayda/social-service/internal/service"
	"go.uber.org/zap"
)

// @title Social Service API
// @version 1.0
// @description Posts, comments, likes, connections, chat and notifications.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Env == "prod")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	cancel()
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer store.Close(context.Background())

	idxCtx, idxCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := store.EnsureIndexes(idxCtx); err != nil {
		logger.Fatal("index creation failed", zap.Error(err))
	}
	idxCancel()

	presence := repo.NewPresence(cfg.RedisAddr, time.Duration(cfg.PresenceTTLSec)*time.Second)
	defer presence.Close()
	if err := presence.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, presence disabled", zap.Error(err))
		presence = nil
	}

	var events queue.Publisher = queue.NewNoop()
	if cfg.RabbitURL != "" {
		events, err = queue.NewRabbit(cfg.RabbitURL, cfg.EventsExchange)
		if err != nil {
			logger.Warn("rabbitmq unreachable, events disabled", zap.Error(err))
			events = queue.NewNoop()
		}
	}
	defer events.Close()

	var presigner *media.Presigner
	if cfg.S3Bucket != "" {
		presigner, err = media.NewPresigner(context.Background(), cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			logger.Warn("s3 presigner init failed, media uploads disabled", zap.Error(err))
		}
	}

	jwks := security.NewFetcher(cfg.JWKSURL, 15*time.Minute)

	connections := service.NewConnections(store, store)
	comments := service.NewComments(store, store, store, store, events)

	h := httpapi.NewHandler(store, connections, comments, presence, events, presigner, cfg.WebhookSecret)
	router := httpapi.NewRouter(h, jwks, httpapi.RouterOptions{
		CORSOrigin:      cfg.CORSOrigin,
		EnableSentry:    cfg.SentryDSN != "",
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		srvErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shCancel()
		if err := srv.Shutdown(shCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
