package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/battleserver"
	"github.com/cory-johannsen/tactics/internal/config"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

func repoConfig() *config.Config {
	content := filepath.Join("..", "..", "content")
	return &config.Config{
		Server: config.ServerConfig{GRPCHost: "127.0.0.1", GRPCPort: 0},
		Battle: config.BattleConfig{
			RosterDir:       filepath.Join(content, "roster"),
			BattlegroundDir: filepath.Join(content, "battlegrounds"),
			AIProfileDir:    filepath.Join(content, "ai"),
			Autoplay:        true,
		},
		Scripting: config.ScriptingConfig{ScriptDir: filepath.Join(content, "scripts")},
	}
}

func TestProvideContent_LoadsRepositoryContent(t *testing.T) {
	content, err := provideContent(repoConfig(), zap.NewNop())
	require.NoError(t, err)
	assert.Contains(t, content.Roster.IDs(), "knight")
	assert.Contains(t, content.Battlegrounds, "crossroads")
	assert.Equal(t, "skirmisher", content.Profiles.ProfileFor("ranger").ID)
}

func TestProvideStore_DisabledWithoutPersist(t *testing.T) {
	store, cleanup, err := provideStore(context.Background(), repoConfig(), zap.NewNop())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, store)
}

func TestProviders_PlayOneRound(t *testing.T) {
	cfg := repoConfig()
	logger := zap.NewNop()
	content, err := provideContent(cfg, logger)
	require.NoError(t, err)
	scripts, cleanup, err := provideScripts(cfg, logger)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, scripts)

	reg := provideRegistry(content, nil, scripts, cfg, logger)
	ctx := context.Background()
	id, err := reg.Create(ctx, "crossroads", []battleground.Participant{
		{Name: "alice", Controller: battle.Human, Heroes: []string{"knight"}, Creeps: []string{"imp"}},
		{Name: "cpu", Controller: battle.AI, Heroes: []string{"sorceress"}, Creeps: []string{"archer"}},
	})
	require.NoError(t, err)

	_, err = reg.Submit(ctx, id, turn.EndTurn{Player: 0})
	require.NoError(t, err)
	st, err := reg.Status(id)
	require.NoError(t, err)
	assert.False(t, st.Finished)
	assert.Equal(t, battle.PlayerID(0), st.Turn)
}

func TestProvideApp_ListensOnConfiguredAddress(t *testing.T) {
	cfg := repoConfig()
	reg := battleserver.NewRegistry(battleserver.Content{}, battleserver.Options{}, zap.NewNop())
	srv := provideGRPCServer(reg, zap.NewNop())
	app, err := provideApp(cfg, srv, reg, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, reg, app.Registry)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Lifecycle.Run(ctx))
}
