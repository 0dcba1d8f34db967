package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/config"
	"github.com/orenshv/flightsdb/internal/bootstrap"
	"github.com/orenshv/flightsdb/internal/cache"
	"github.com/orenshv/flightsdb/internal/kafka"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/service/accounts"
	"github.com/orenshv/flightsdb/internal/service/booking"
	"github.com/orenshv/flightsdb/internal/service/flights"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := bootstrap.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := repository.Migrate(cfg.Database.DSN()); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	repo := repository.New(pool, logger)
	flightService := flights.NewService(repo, redisCache, logger)
	bookingService := booking.NewService(
		repo,
		redisCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Booking.SeatLockTTLSeconds)*time.Second,
		logger,
	)
	accountService := accounts.NewService(repo, logger)

	if err := accountService.EnsureBuiltinRoles(ctx); err != nil {
		logger.Fatal("seed roles", zap.Error(err))
	}

	if err := bootstrap.Run(ctx, cfg, logger, repo, flightService, bookingService, accountService); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
