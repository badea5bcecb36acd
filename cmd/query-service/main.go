package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/mediflora-ai/platform/pkg/api"
	"github.com/mediflora-ai/platform/pkg/api/auth"
	"github.com/mediflora-ai/platform/pkg/common/config"
	"github.com/mediflora-ai/platform/pkg/common/database"
	"github.com/mediflora-ai/platform/pkg/common/kafka"
	"github.com/mediflora-ai/platform/pkg/common/logger"
	"github.com/mediflora-ai/platform/pkg/common/models"
	"github.com/mediflora-ai/platform/pkg/datastore"
	"github.com/mediflora-ai/platform/pkg/observability/metrics"
	"github.com/mediflora-ai/platform/pkg/query"
	"github.com/mediflora-ai/platform/pkg/querylog"
	"github.com/mediflora-ai/platform/pkg/taxonomy"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	tax, err := taxonomy.Load(cfg.TaxonomyPath)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to load taxonomy file, using built-in corpus")
	}

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.ClosePostgres()

	repository := datastore.NewRepository(db, tax)
	if err := repository.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate record tables")
	}

	logs := querylog.NewRepository(db)
	if err := logs.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate query log")
	}

	cache := datastore.NewCache(repository, database.GetRedis(), cfg.CorpusCacheTTL)
	defer database.CloseRedis()

	engine := query.NewEngine(cache, tax, cfg.QueryTimeout)

	producer := kafka.NewProducer("query-events")
	defer producer.Close()

	consumer := kafka.NewConsumer("record-updates", "query-service")
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Drop the corpus cache whenever upstream record data changes.
	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
			logger.Log.WithField("event_id", event.ID).Info("Record update received, invalidating corpus cache")
			return cache.Invalidate(ctx)
		})
		if err != nil && err != context.Canceled {
			logger.Log.WithError(err).Error("Consumer stopped")
		}
	}()

	handler := api.NewHandler(engine, logs, producer, cfg.MaxHistoryDepth)

	var authMW mux.MiddlewareFunc
	if cfg.OIDCIssuer != "" {
		oidcAuth, err := auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to configure OIDC")
		}
		authMW = api.Authenticate(oidcAuth)
	}

	router := mux.NewRouter()
	router.Use(api.Recovery, api.Logging, api.LimitRequestBody(cfg.MaxRequestBody))
	handler.Register(router, authMW)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Query Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Query Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Query Service stopped")
}
