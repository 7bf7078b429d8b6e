// Package main reloads stored battles and replays their delta logs to check
// that the log alone reproduces the recorded outcome.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/tactics/internal/config"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/observability"
	"github.com/cory-johannsen/tactics/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	battleID := flag.String("battle", "", "battle id to replay; empty replays every unfinished battle")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging.ForService("replay"))
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()
	repo := postgres.NewBattleRepository(pool.DB())

	var ids []uuid.UUID
	if *battleID != "" {
		id, err := uuid.Parse(*battleID)
		if err != nil {
			logger.Fatal("parsing battle id", zap.String("battle", *battleID), zap.Error(err))
		}
		ids = append(ids, id)
	} else if ids, err = repo.ListUnfinished(ctx); err != nil {
		logger.Fatal("listing battles", zap.Error(err))
	}

	failed := 0
	for _, id := range ids {
		rec, deltas, err := repo.Load(ctx, id)
		if err != nil {
			logger.Error("loading battle", zap.String("battle", id.String()), zap.Error(err))
			failed++
			continue
		}
		b, err := verify(rec, deltas)
		if err != nil {
			logger.Error("replay mismatch", zap.String("battle", id.String()), zap.Error(err))
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "%s %s round=%d turn=%d deltas=%d %s\n",
			id, rec.Battleground, b.Round, b.Turn, b.Len(), describe(b.Status))
	}
	if failed > 0 {
		logger.Fatal("replay failed", zap.Int("battles", failed), zap.Int("checked", len(ids)))
	}
}

// verify replays deltas onto rec's setup and checks the result against the
// stored status.
func verify(rec postgres.BattleRecord, deltas []battle.Delta) (b *battle.Battle, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("replay aborted: %v", r)
		}
	}()
	b = battle.Replay(rec.Setup, deltas)
	if b.Len() != len(deltas) {
		return nil, fmt.Errorf("replayed %d of %d deltas", b.Len(), len(deltas))
	}
	if b.Status.Finished != rec.Finished {
		return nil, fmt.Errorf("finished: stored %v, replayed %v", rec.Finished, b.Status.Finished)
	}
	if !sameWinner(rec.Winner, b.Status.Winner) {
		return nil, errors.New("winner differs from stored record")
	}
	return b, nil
}

func sameWinner(a, b *battle.PlayerID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func describe(s battle.Status) string {
	switch {
	case s.InProgress():
		return "in_progress"
	case s.Winner != nil:
		return fmt.Sprintf("finished winner=%d", *s.Winner)
	default:
		return "finished draw"
	}
}
