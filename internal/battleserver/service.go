package battleserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/tactics/internal/game/battle"
	"github.com/cory-johannsen/tactics/internal/game/battleground"
	"github.com/cory-johannsen/tactics/internal/game/turn"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tactics.battle.v1.BattleService"

// BattleServiceServer is the server API of the battle service. Requests and
// responses are JSON objects carried as google.protobuf.Struct.
type BattleServiceServer interface {
	CreateBattle(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SubmitAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeltasAfter(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// CreateBattleRequest opens a battle.
type CreateBattleRequest struct {
	Battleground string                     `json:"battleground"`
	Participants []battleground.Participant `json:"participants"`
}

// CreateBattleResponse names the new battle.
type CreateBattleResponse struct {
	BattleID string `json:"battle_id"`
}

// SubmitActionRequest carries one action in the flat JSON form of turn.EncodeAction.
type SubmitActionRequest struct {
	BattleID string          `json:"battle_id"`
	Action   json.RawMessage `json:"action"`
}

// SubmitActionResponse reports the log length after the action and any AI turns.
type SubmitActionResponse struct {
	Head int `json:"head"`
}

// DeltasAfterRequest asks for the log suffix starting at Head.
type DeltasAfterRequest struct {
	BattleID string `json:"battle_id"`
	Head     int    `json:"head"`
}

// DeltasAfterResponse carries encoded deltas and the head to ask from next.
type DeltasAfterResponse struct {
	Deltas []battle.Envelope `json:"deltas"`
	Head   int               `json:"head"`
}

// StatusRequest names a battle.
type StatusRequest struct {
	BattleID string `json:"battle_id"`
}

// StatusResponse summarises a battle.
type StatusResponse struct {
	Turn     int  `json:"turn"`
	Round    int  `json:"round"`
	Finished bool `json:"finished"`
	Winner   *int `json:"winner"`
	Head     int  `json:"head"`
}

// Service implements BattleServiceServer on a Registry.
type Service struct {
	registry *Registry
	logger   *zap.Logger
}

// NewService creates a Service.
//
// Precondition: registry and logger must be non-nil.
func NewService(registry *Registry, logger *zap.Logger) *Service {
	return &Service{registry: registry, logger: logger}
}

// CreateBattle implements BattleServiceServer.
func (s *Service) CreateBattle(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CreateBattleRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, err
	}
	id, err := s.registry.Create(ctx, req.Battleground, req.Participants)
	if err != nil {
		return nil, s.toStatus("CreateBattle", err)
	}
	return ToStruct(CreateBattleResponse{BattleID: id.String()})
}

// SubmitAction implements BattleServiceServer.
func (s *Service) SubmitAction(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req SubmitActionRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, err
	}
	id, err := parseID(req.BattleID)
	if err != nil {
		return nil, err
	}
	a, err := turn.DecodeAction(req.Action)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	head, err := s.registry.Submit(ctx, id, a)
	if err != nil {
		return nil, s.toStatus("SubmitAction", err)
	}
	return ToStruct(SubmitActionResponse{Head: head})
}

// DeltasAfter implements BattleServiceServer.
func (s *Service) DeltasAfter(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req DeltasAfterRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, err
	}
	id, err := parseID(req.BattleID)
	if err != nil {
		return nil, err
	}
	ds, head, err := s.registry.DeltasAfter(id, req.Head)
	if err != nil {
		return nil, s.toStatus("DeltasAfter", err)
	}
	resp := DeltasAfterResponse{Deltas: make([]battle.Envelope, 0, len(ds)), Head: head}
	for _, d := range ds {
		env, err := battle.EncodeDelta(d)
		if err != nil {
			return nil, s.toStatus("DeltasAfter", err)
		}
		resp.Deltas = append(resp.Deltas, env)
	}
	return ToStruct(resp)
}

// Status implements BattleServiceServer.
func (s *Service) Status(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req StatusRequest
	if err := FromStruct(in, &req); err != nil {
		return nil, err
	}
	id, err := parseID(req.BattleID)
	if err != nil {
		return nil, err
	}
	st, err := s.registry.Status(id)
	if err != nil {
		return nil, s.toStatus("Status", err)
	}
	resp := StatusResponse{Turn: int(st.Turn), Round: st.Round, Finished: st.Finished, Head: st.Head}
	if st.Winner != nil {
		w := int(*st.Winner)
		resp.Winner = &w
	}
	return ToStruct(resp)
}

func (s *Service) toStatus(method string, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, ErrBattleNotFound):
		code = codes.NotFound
	case errors.Is(err, ErrActionRejected):
		code = codes.FailedPrecondition
	case errors.Is(err, ErrUnknownBattleground), errors.Is(err, ErrInvalidSetup):
		code = codes.InvalidArgument
	case errors.Is(err, ErrTooManyBattles):
		code = codes.ResourceExhausted
	default:
		code = codes.Internal
	}
	if code == codes.Internal {
		s.logger.Error("battleserver: request failed", zap.String("method", method), zap.Error(err))
	} else {
		s.logger.Debug("battleserver: request refused", zap.String("method", method), zap.Error(err))
	}
	return status.Error(code, err.Error())
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "battle_id %q: %v", raw, err)
	}
	return id, nil
}

// ToStruct converts v to a Struct by way of its JSON encoding.
func ToStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encoding response: %v", err)
	}
	return out, nil
}

// FromStruct decodes in into v by way of its JSON encoding.
func FromStruct(in *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decoding request: %v", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decoding request: %v", err)
	}
	return nil
}

// RegisterBattleServiceServer registers srv on s.
func RegisterBattleServiceServer(s grpc.ServiceRegistrar, srv BattleServiceServer) {
	s.RegisterService(&BattleServiceDesc, srv)
}

func unaryHandler(method string, call func(BattleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BattleServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fmt.Sprintf("/%s/%s", ServiceName, method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BattleServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// BattleServiceDesc describes the battle service for grpc.Server.
var BattleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BattleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateBattle", BattleServiceServer.CreateBattle),
		unaryHandler("SubmitAction", BattleServiceServer.SubmitAction),
		unaryHandler("DeltasAfter", BattleServiceServer.DeltasAfter),
		unaryHandler("Status", BattleServiceServer.Status),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tactics/battle/v1/battle.proto",
}
