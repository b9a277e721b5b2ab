package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/loanledger/internal/adapter/http"
	"github.com/iho/loanledger/internal/adapter/http/handler"
	"github.com/iho/loanledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/loanledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/loanledger/internal/adapter/repository/redis"
	"github.com/iho/loanledger/internal/infrastructure/auth"
	"github.com/iho/loanledger/internal/infrastructure/clock"
	"github.com/iho/loanledger/internal/infrastructure/config"
	"github.com/iho/loanledger/internal/infrastructure/eventpublisher"
	"github.com/iho/loanledger/internal/infrastructure/logger"
	"github.com/iho/loanledger/internal/infrastructure/logging"
	"github.com/iho/loanledger/internal/infrastructure/metrics"
	"github.com/iho/loanledger/internal/infrastructure/postgres"
	"github.com/iho/loanledger/internal/infrastructure/redis"
	"github.com/iho/loanledger/internal/usecase"
)

const migrationsPath = "file://internal/infrastructure/postgres/migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "loanledger",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store := memory.NewStore(cfg.OwnerID, cfg.DefaultInterestRate)
	idGen := memory.NewULIDGenerator()

	ledgerUC := usecase.NewLedgerUseCase(
		store.Loans(),
		store.Proposals(),
		store.Stakes(),
		store.Balances(),
		store.Params(),
		store.Outbox(),
		idGen,
		clock.Real{},
		m,
		usecase.Config{
			VotingPeriod:        cfg.VotingPeriod,
			EnforceLenderGating: cfg.LenderGating,
		},
	)

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	// Event sinks. The log sink is always on; postgres archive and the
	// redis stream join the fanout when configured.
	sinks := []eventpublisher.Publisher{
		eventpublisher.NewLogPublisher(slogger.Logger),
	}

	pool, err := setupPostgres(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up postgres")
	}
	if pool != nil {
		defer pool.Close()
		archive := postgresRepo.NewArchiveRepository(pool)
		sinks = append(sinks, eventpublisher.ArchiveFunc(archive.Archive))
		log.Info().Msg("event archive enabled")
	}

	var redisClient *goredis.Client
	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		sinks = append(sinks, redisRepo.NewStreamPublisher(redisClient, cfg.EventStream))
		log.Info().Str("stream", cfg.EventStream).Msg("redis connected")
	}

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.Outbox(),
		Publisher:  eventpublisher.NewMultiPublisher(sinks...),
		BatchSize:  cfg.PublisherBatchSize,
		Interval:   cfg.PublisherInterval,
	})
	go func() {
		if err := publisher.Start(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()

	var jwtManager *auth.JWTManager
	var authHandler *handler.AuthHandler
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		authHandler = handler.NewAuthHandler(jwtManager, cfg.OwnerID)
		log.Info().Msg("JWT authentication enabled")
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LoanHandler:       handler.NewLoanHandler(ledgerUC),
		StakingHandler:    handler.NewStakingHandler(ledgerUC),
		GovernanceHandler: handler.NewGovernanceHandler(ledgerUC),
		AdminHandler:      handler.NewAdminHandler(ledgerUC),
		EventHandler:      handler.NewEventHandler(ledgerUC),
		HealthHandler:     handler.NewHealthHandler(pool, redisClient),
		AuthHandler:       authHandler,
		JWTManager:        jwtManager,
		IdempotencyStore:  idempotencyStore,
		Logger:            log,
		RateLimit:         cfg.RateLimitPerSecond,
		RateBurst:         cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setupPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("connected to postgres")
	return pool, nil
}
