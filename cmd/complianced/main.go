// complianced serves compliance-rate calculation.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitnessbro/platform/internal/api"
	"github.com/fitnessbro/platform/internal/app/services/compliance"
	"github.com/fitnessbro/platform/internal/app/storage/postgres"
	"github.com/fitnessbro/platform/internal/config"
	"github.com/fitnessbro/platform/internal/metrics"
	"github.com/fitnessbro/platform/pkg/logger"
)

const serviceName = "complianced"

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

	svc := compliance.New(postgres.New(db), log)

	m := metrics.New()
	router := api.NewRouter(serviceName, cfg, log, m, nil)
	api.NewComplianceAPI(svc, log).Routes(router)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg.Server.Host, cfg.Server.Port, router, log).Run(ctx); err != nil {
		log.WithError(err).Error("server exited with error")
		os.Exit(1)
	}
}
