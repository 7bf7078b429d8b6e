// Package main runs the battle server: it loads game content, hosts battles
// in memory and serves them over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/config"
	"github.com/cory-johannsen/tactics/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging.ForService("battleserver"))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	app, cleanup, err := initializeApp(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("initializing battle server", zap.Error(err))
	}
	defer cleanup()

	logger.Info("battle server ready",
		zap.String("grpc_addr", cfg.Server.Addr()),
		zap.Bool("persist", cfg.Battle.Persist),
		zap.Bool("autoplay", cfg.Battle.Autoplay),
		zap.Duration("startup", time.Since(start)),
	)

	if err := app.Lifecycle.Run(ctx); err != nil {
		logger.Error("battle server stopped", zap.Error(err))
	}
}
