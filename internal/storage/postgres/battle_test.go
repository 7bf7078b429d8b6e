package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/turn"
	"github.com/cory-johannsen/tactics/internal/storage/postgres"
	"github.com/cory-johannsen/tactics/internal/testutil"
)

func skirmish() battle.Setup {
	knight := battle.UnitStats{Template: "knight", Name: "Knight", MaxHealth: 10, MovePoints: 3, Attack: 3, AttackRange: 1}
	return battle.Setup{
		Seed: 11, Width: 6, Height: 6,
		Players: []battle.PlayerSetup{
			{Name: "alice", Controller: battle.Human, Deployment: grid.Rect{Min: grid.Pos(0, 0), Max: grid.Pos(1, 1)}},
			{Name: "bob", Controller: battle.AI, Deployment: grid.Rect{Min: grid.Pos(4, 4), Max: grid.Pos(5, 5)}},
		},
		Opening: []battle.Delta{
			battle.GoldChanged{Player: 0, Amount: 3, Reason: "starting_gold"},
			battle.CardsDealt{Player: 0, Cards: []battle.Card{{ID: 1, Kind: battle.CardHero, Unit: &knight}}},
			battle.CreepSpawned{Spawn: battle.Spawn{Unit: 2, Owner: 1, Position: grid.Pos(4, 4), Stats: knight}},
		},
	}
}

func record(setup battle.Setup) postgres.BattleRecord {
	return postgres.BattleRecord{
		ID:           uuid.New(),
		Battleground: "skirmish",
		Seed:         setup.Seed,
		Setup:        setup,
		Participants: []battleground.Participant{{Name: "alice", Controller: battle.Human, Heroes: []string{"knight"}}},
	}
}

func TestBattleRepository_RoundTripReplays(t *testing.T) {
	repo := postgres.NewBattleRepository(testutil.NewPool(t))
	ctx := context.Background()

	setup := skirmish()
	o := turn.Start(setup, nil, battle.WithIDs(&battle.SequentialIDs{}))
	rec := record(setup)
	require.NoError(t, repo.Create(ctx, rec, o.Battle().Deltas()))

	from := o.Battle().Len()
	require.NoError(t, o.Dispatch(turn.PlayCard{Player: 0, Card: 1, At: grid.Pos(1, 1)}))
	require.NoError(t, o.Dispatch(turn.EndTurn{Player: 0}))
	require.NoError(t, repo.Append(ctx, rec.ID, from, o.Battle().DeltasAfter(from), o.Battle().Status))

	got, log, err := repo.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "skirmish", got.Battleground)
	assert.Equal(t, rec.Participants, got.Participants)
	assert.False(t, got.Finished)
	require.Len(t, log, o.Battle().Len())

	replayed := battle.Replay(got.Setup, log)
	assert.Equal(t, o.Battle().Snapshot(), replayed.Snapshot())
}

func TestBattleRepository_Errors(t *testing.T) {
	repo := postgres.NewBattleRepository(testutil.NewPool(t))
	ctx := context.Background()

	_, _, err := repo.Load(ctx, uuid.New())
	assert.ErrorIs(t, err, postgres.ErrBattleNotFound)
	assert.ErrorIs(t, repo.Append(ctx, uuid.New(), 0, nil, battle.Status{}), postgres.ErrBattleNotFound)

	setup := skirmish()
	rec := record(setup)
	o := turn.Start(setup, nil)
	require.NoError(t, repo.Create(ctx, rec, o.Battle().Deltas()))
	assert.ErrorIs(t, repo.Create(ctx, rec, nil), postgres.ErrBattleExists)

	err = repo.Append(ctx, rec.ID, 0, []battle.Delta{battle.TurnEnded{Player: 0, Next: 1}}, battle.Status{})
	assert.ErrorIs(t, err, postgres.ErrDeltaGap)
}

func TestBattleRepository_FinishedBattlesAreNotListed(t *testing.T) {
	repo := postgres.NewBattleRepository(testutil.NewPool(t))
	ctx := context.Background()

	open, done := record(skirmish()), record(skirmish())
	require.NoError(t, repo.Create(ctx, open, nil))
	require.NoError(t, repo.Create(ctx, done, nil))
	winner := battle.PlayerID(1)
	require.NoError(t, repo.Append(ctx, done.ID, 0, nil, battle.Status{Finished: true, Winner: &winner}))

	ids, err := repo.ListUnfinished(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{open.ID}, ids)

	got, _, err := repo.Load(ctx, done.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Winner)
	assert.Equal(t, winner, *got.Winner)
}

func TestProperty_AppendInChunksPreservesOrder(t *testing.T) {
	repo := postgres.NewBattleRepository(testutil.NewPool(t))
	ctx := context.Background()
	rapid.Check(t, func(rt *rapid.T) {
		rec := record(skirmish())
		if err := repo.Create(ctx, rec, nil); err != nil {
			rt.Fatal(err)
		}
		chunks := rapid.SliceOfN(rapid.IntRange(0, 4), 1, 5).Draw(rt, "chunks")
		var want []battle.Delta
		for _, n := range chunks {
			var chunk []battle.Delta
			for i := 0; i < n; i++ {
				chunk = append(chunk, battle.GoldChanged{Player: 0, Amount: len(want) + i + 1})
			}
			if err := repo.Append(ctx, rec.ID, len(want), chunk, battle.Status{}); err != nil {
				rt.Fatal(err)
			}
			want = append(want, chunk...)
		}
		_, got, err := repo.Load(ctx, rec.ID)
		if err != nil {
			rt.Fatal(err)
		}
		if len(got) != len(want) {
			rt.Fatalf("loaded %d deltas, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("delta %d = %#v, want %#v", i, got[i], want[i])
			}
		}
	})
}
