package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpAdapter "github.com/propertyops/rentledger/internal/adapter/http"
	"github.com/propertyops/rentledger/internal/adapter/http/handler"
	postgresRepo "github.com/propertyops/rentledger/internal/adapter/repository/postgres"
	redisRepo "github.com/propertyops/rentledger/internal/adapter/repository/redis"
	"github.com/propertyops/rentledger/internal/infrastructure/config"
	"github.com/propertyops/rentledger/internal/infrastructure/eventpublisher"
	"github.com/propertyops/rentledger/internal/infrastructure/logger"
	"github.com/propertyops/rentledger/internal/infrastructure/metrics"
	"github.com/propertyops/rentledger/internal/infrastructure/postgres"
	"github.com/propertyops/rentledger/internal/infrastructure/redis"
	"github.com/propertyops/rentledger/internal/infrastructure/scheduler"
	"github.com/propertyops/rentledger/internal/usecase"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	leaseRepo := postgresRepo.NewLeaseRepository(pool)
	chargeRepo := postgresRepo.NewRecurringChargeRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	clock := usecase.UTCClock{}

	// Use cases
	transactionUC := usecase.NewTransactionUseCase(
		txManager, transactionRepo, paymentRepo, leaseRepo,
		outboxRepo, auditRepo, cache, idGen, clock, m, log,
	).WithRetrier(postgresRepo.NewRetrier(log))
	billingUC := usecase.NewBillingUseCase(
		txManager, chargeRepo, transactionRepo, leaseRepo,
		outboxRepo, idGen, clock, m, log,
	)
	leaseUC := usecase.NewLeaseUseCase(leaseRepo, idGen, clock)
	statementUC := usecase.NewStatementUseCase(transactionRepo, leaseRepo)

	// Handlers
	transactionHandler := handler.NewTransactionHandler(transactionUC, clock)
	leaseHandler := handler.NewLeaseHandler(leaseUC, statementUC)
	billingHandler := handler.NewBillingHandler(billingUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		TransactionHandler: transactionHandler,
		LeaseHandler:       leaseHandler,
		BillingHandler:     billingHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		Metrics:            m,
		Logger:             log,
	})

	// Background workers share one cancellable context.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	// Outbox publisher: AMQP when configured, log output otherwise.
	var publisher eventpublisher.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := eventpublisher.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to amqp")
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		log.Info().Str("exchange", cfg.AMQPExchange).Msg("connected to amqp")
	} else {
		publisher = &eventpublisher.LogPublisher{Logger: log}
		log.Info().Msg("no amqp configured; events will be logged")
	}

	outboxWorker := eventpublisher.New(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := outboxWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	if cfg.BillingEnabled {
		billingScheduler := scheduler.New(billingUC, cfg.BillingInterval, log)
		go func() {
			if err := billingScheduler.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("billing scheduler stopped")
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
