package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/cory-johannsen/tactics/internal/battleserver"
	"github.com/cory-johannsen/tactics/internal/config"
	"github.com/cory-johannsen/tactics/internal/game/ai"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/roster"
	"github.com/cory-johannsen/tactics/internal/scripting"
	"github.com/cory-johannsen/tactics/internal/server"
	"github.com/cory-johannsen/tactics/internal/storage/postgres"
)

// App is the assembled battle server.
type App struct {
	Lifecycle *server.Lifecycle
	Registry  *battleserver.Registry
}

func provideContent(cfg *config.Config, logger *zap.Logger) (battleserver.Content, error) {
	loadStart := time.Now()
	r, err := roster.Load(cfg.Battle.RosterDir)
	if err != nil {
		return battleserver.Content{}, fmt.Errorf("loading roster: %w", err)
	}
	defs, err := battleground.LoadDefinitions(cfg.Battle.BattlegroundDir)
	if err != nil {
		return battleserver.Content{}, fmt.Errorf("loading battlegrounds: %w", err)
	}
	for id, d := range defs {
		for _, m := range d.Monsters {
			if _, ok := r.Template(m.Template); !ok {
				return battleserver.Content{}, fmt.Errorf("battleground %q: unknown monster template %q", id, m.Template)
			}
		}
	}
	profiles := ai.NewRegistry()
	if cfg.Battle.AIProfileDir != "" {
		ps, err := ai.LoadProfiles(cfg.Battle.AIProfileDir)
		if err != nil {
			return battleserver.Content{}, err
		}
		for _, p := range ps {
			if err := profiles.Register(p); err != nil {
				return battleserver.Content{}, err
			}
		}
	}
	logger.Info("content loaded",
		zap.Int("templates", len(r.IDs())),
		zap.Int("battlegrounds", len(defs)),
		zap.Duration("elapsed", time.Since(loadStart)),
	)
	return battleserver.Content{Roster: r, Battlegrounds: defs, Profiles: profiles}, nil
}

// provideStore connects to PostgreSQL when battles are persisted. The
// returned Store is nil otherwise.
func provideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (battleserver.Store, func(), error) {
	if !cfg.Battle.Persist {
		return nil, func() {}, nil
	}
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	return postgres.NewBattleRepository(pool.DB()), pool.Close, nil
}

// provideScripts loads the global Lua VM. It returns nil when no script
// directory is configured.
func provideScripts(cfg *config.Config, logger *zap.Logger) (*scripting.Manager, func(), error) {
	if cfg.Scripting.ScriptDir == "" {
		logger.Info("scripting disabled")
		return nil, func() {}, nil
	}
	m := scripting.NewManager(logger)
	if err := m.LoadGlobal(cfg.Scripting.ScriptDir, cfg.Scripting.InstructionLimit); err != nil {
		m.Close()
		return nil, nil, fmt.Errorf("loading scripts: %w", err)
	}
	logger.Info("scripts loaded", zap.String("dir", cfg.Scripting.ScriptDir))
	return m, m.Close, nil
}

func provideRegistry(content battleserver.Content, store battleserver.Store, scripts *scripting.Manager, cfg *config.Config, logger *zap.Logger) *battleserver.Registry {
	opts := battleserver.Options{
		Store:      store,
		Autoplay:   cfg.Battle.Autoplay,
		MaxBattles: cfg.Battle.MaxBattles,
	}
	if scripts != nil {
		opts.Caller = scripts
	}
	reg := battleserver.NewRegistry(content, opts, logger)
	if scripts != nil {
		reg.BindScripts(scripts)
	}
	return reg
}

func provideGRPCServer(reg *battleserver.Registry, logger *zap.Logger) *grpc.Server {
	srv := grpc.NewServer(grpc.UnaryInterceptor(logCalls(logger)))
	battleserver.RegisterBattleServiceServer(srv, battleserver.NewService(reg, logger))
	return srv
}

func provideApp(cfg *config.Config, srv *grpc.Server, reg *battleserver.Registry, logger *zap.Logger) (*App, error) {
	lis, err := net.Listen("tcp", cfg.Server.Addr())
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", cfg.Server.Addr(), err)
	}
	lc := server.NewLifecycle(logger, cfg.Server.ShutdownTimeout)
	lc.Add("grpc", server.GRPCService(srv, lis))
	return &App{Lifecycle: lc, Registry: reg}, nil
}

func logCalls(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc call",
			zap.String("method", info.FullMethod),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return resp, err
	}
}
