package battleserver_test

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/tactics/internal/battleserver"
	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/grid"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

func dialService(t *testing.T, r *battleserver.Registry) *battleserver.Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	battleserver.RegisterBattleServiceServer(srv, battleserver.NewService(r, zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return battleserver.NewClient(conn)
}

func TestService_BattleOverGRPC(t *testing.T) {
	r := battleserver.NewRegistry(testContent(t), battleserver.Options{Autoplay: true}, zap.NewNop())
	c := dialService(t, r)
	ctx := context.Background()

	id, err := c.CreateBattle(ctx, "field", humanVsCPU())
	require.NoError(t, err)

	ds, head, err := c.DeltasAfter(ctx, id, 0)
	require.NoError(t, err)
	assert.Len(t, ds, head)

	// Alice deploys her knight card.
	st, err := c.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, st.Turn)
	var card battle.CardID
	for _, d := range ds {
		if dealt, ok := d.(battle.CardsDealt); ok && dealt.Player == 0 {
			card = dealt.Cards[0].ID
		}
	}
	require.NotZero(t, card)
	next, err := c.SubmitAction(ctx, id, turn.PlayCard{Player: 0, Card: card, At: grid.Pos(0, 0)})
	require.NoError(t, err)
	assert.Greater(t, next, head)

	tail, tailHead, err := c.DeltasAfter(ctx, id, head)
	require.NoError(t, err)
	assert.Equal(t, next, tailHead)
	require.NotEmpty(t, tail)
	spawned, ok := tail[0].(battle.HeroSpawned)
	require.True(t, ok)
	assert.Equal(t, card, spawned.Card)
}

func TestService_StatusCodes(t *testing.T) {
	r := battleserver.NewRegistry(testContent(t), battleserver.Options{MaxBattles: 1}, zap.NewNop())
	c := dialService(t, r)
	ctx := context.Background()

	_, err := c.CreateBattle(ctx, "swamp", humanVsCPU())
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.CreateBattle(ctx, "field", humanVsCPU()[1:])
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	id, err := c.CreateBattle(ctx, "field", humanVsCPU())
	require.NoError(t, err)
	_, err = c.CreateBattle(ctx, "field", humanVsCPU())
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	_, err = c.SubmitAction(ctx, id, turn.EndTurn{Player: 1})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	_, err = c.Status(ctx, uuid.New())
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestStructConversion_PreservesRequests(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := battleserver.DeltasAfterRequest{
			BattleID: uuid.NewString(),
			Head:     rapid.IntRange(0, 1<<20).Draw(t, "head"),
		}
		s, err := battleserver.ToStruct(req)
		require.NoError(t, err)
		var out battleserver.DeltasAfterRequest
		require.NoError(t, battleserver.FromStruct(s, &out))
		assert.Equal(t, req, out)
	})
}
