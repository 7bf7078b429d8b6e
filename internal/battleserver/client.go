package battleserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

// Client calls the battle service over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := ToStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fmt.Sprintf("/%s/%s", ServiceName, method), in, out); err != nil {
		return err
	}
	return FromStruct(out, resp)
}

// CreateBattle opens a battle and returns its id.
func (c *Client) CreateBattle(ctx context.Context, bg string, participants []battleground.Participant) (uuid.UUID, error) {
	var resp CreateBattleResponse
	if err := c.invoke(ctx, "CreateBattle", CreateBattleRequest{Battleground: bg, Participants: participants}, &resp); err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(resp.BattleID)
}

// SubmitAction sends a and returns the new log length.
func (c *Client) SubmitAction(ctx context.Context, id uuid.UUID, a turn.Action) (int, error) {
	raw, err := turn.EncodeAction(a)
	if err != nil {
		return 0, err
	}
	var resp SubmitActionResponse
	if err := c.invoke(ctx, "SubmitAction", SubmitActionRequest{BattleID: id.String(), Action: raw}, &resp); err != nil {
		return 0, err
	}
	return resp.Head, nil
}

// DeltasAfter fetches and decodes the log suffix from head.
func (c *Client) DeltasAfter(ctx context.Context, id uuid.UUID, head int) ([]battle.Delta, int, error) {
	var resp DeltasAfterResponse
	if err := c.invoke(ctx, "DeltasAfter", DeltasAfterRequest{BattleID: id.String(), Head: head}, &resp); err != nil {
		return nil, 0, err
	}
	out := make([]battle.Delta, 0, len(resp.Deltas))
	for _, env := range resp.Deltas {
		d, err := battle.DecodeDelta(env)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, resp.Head, nil
}

// Status fetches the battle summary.
func (c *Client) Status(ctx context.Context, id uuid.UUID) (StatusResponse, error) {
	var resp StatusResponse
	err := c.invoke(ctx, "Status", StatusRequest{BattleID: id.String()}, &resp)
	return resp, err
}
