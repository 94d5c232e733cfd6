// programd serves program CRUD with meal enrichment, coach-email resolution
// and exercise video lookup.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"

	"github.com/fitnessbro/platform/internal/api"
	"github.com/fitnessbro/platform/internal/app/services/nutrition"
	"github.com/fitnessbro/platform/internal/app/services/program"
	"github.com/fitnessbro/platform/internal/app/storage/postgres"
	"github.com/fitnessbro/platform/internal/config"
	"github.com/fitnessbro/platform/internal/metrics"
	"github.com/fitnessbro/platform/pkg/logger"
)

const serviceName = "programd"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault(serviceName).WithError(err).Error("failed to load configuration")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Service: serviceName,
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
	})

	db, err := postgres.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Error("database initialization failed")
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	m := metrics.New()

	provider := nutrition.NewOpenAIClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AITimeout())
	enricher := nutrition.NewEnricher(
		nutrition.NewRedisCache(redisClient),
		provider,
		nutrition.NewLocalEstimator(nutrition.DefaultFoodTable()),
		log,
	).WithMetrics(m)

	identity := program.NewAuthResolver(cfg.Services.AuthURL, log, m)
	svc := program.New(postgres.New(db), enricher, identity, log)
	videos := program.NewYouTubeClient(cfg.Videos.APIKey, cfg.Videos.BaseURL)

	router := api.NewRouter(serviceName, cfg, log, m, nil)
	api.NewProgramAPI(svc, videos, log).Routes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg.Server.Host, cfg.Server.Port, router, log).Run(ctx); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}
