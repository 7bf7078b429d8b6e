//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/config"
)

func initializeApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		provideContent,
		provideStore,
		provideScripts,
		provideRegistry,
		provideGRPCServer,
		provideApp,
	)
	return nil, nil, nil
}
