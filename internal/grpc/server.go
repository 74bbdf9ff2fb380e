package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/logger"
	"github.com/Billy-Davies-2/inazuma-guide/internal/models"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/share"
	"github.com/Billy-Davies-2/inazuma-guide/internal/slots"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

// Server implements the gRPC TeamBuilder service
type Server struct {
	store   *teambuilder.Store
	catalog *dataset.Catalog
	pubsub  *pubsub.PubSub
}

var _ TeamBuilderServer = (*Server)(nil)

// NewServer creates a new gRPC server
func NewServer(store *teambuilder.Store, catalog *dataset.Catalog, ps *pubsub.PubSub) *Server {
	return &Server{
		store:   store,
		catalog: catalog,
		pubsub:  ps,
	}
}

// toStruct converts any JSON-marshalable value into a Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// fromStruct decodes a request Struct into v
func fromStruct(s *structpb.Struct, v any) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

// toStatus maps domain errors to gRPC status codes
func toStatus(err error) error {
	switch {
	case errors.Is(err, teambuilder.ErrUnknownSlot),
		errors.Is(err, teambuilder.ErrInvalidDisplayMode),
		errors.Is(err, share.ErrInvalidCode):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) stateReply(state models.TeamBuilderState, err error) (*structpb.Struct, error) {
	if err != nil {
		logger.Error("gRPC: Team update failed", "error", err)
		return nil, toStatus(err)
	}
	return toStruct(state)
}

// GetState returns the current team snapshot
func (s *Server) GetState(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	logger.Debug("gRPC: Getting team state")
	return toStruct(s.store.State())
}

// GetAssignments returns the projected slots
func (s *Server) GetAssignments(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	state := s.store.State()
	list := teambuilder.Project(state, teambuilder.SlotsFor(state), s.catalog)

	type entry struct {
		models.SlotAssignment
		DisplayValue string `json:"displayValue"`
	}
	entries := make([]entry, 0, len(list))
	for _, a := range list {
		entries = append(entries, entry{SlotAssignment: a, DisplayValue: teambuilder.DisplayValue(a, state.DisplayMode)})
	}
	return toStruct(map[string]any{
		"formationId": state.FormationID,
		"displayMode": state.DisplayMode,
		"filled":      teambuilder.CountFilled(list),
		"slots":       entries,
	})
}

// Assign places a player in a slot
func (s *Server) Assign(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		SlotID   string `json:"slotId"`
		PlayerID int    `json:"playerId"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	if _, ok := s.catalog.Player(in.PlayerID); !ok {
		return nil, status.Errorf(codes.NotFound, "unknown player %d", in.PlayerID)
	}

	logger.Info("gRPC: Assigning player", "slot_id", in.SlotID, "player_id", in.PlayerID)
	return s.stateReply(s.store.Assign(in.SlotID, in.PlayerID))
}

// ClearSlot empties a slot
func (s *Server) ClearSlot(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.stateReply(s.store.ClearSlot(req.GetValue()))
}

// ChangeFormation switches the active formation
func (s *Server) ChangeFormation(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	logger.Info("gRPC: Changing formation", "formation_id", req.GetValue())
	return s.stateReply(s.store.ChangeFormation(req.GetValue()))
}

// UpdateSlotConfig merges a partial config into a slot
func (s *Server) UpdateSlotConfig(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		SlotID string `json:"slotId"`
		teambuilder.SlotConfigPatch
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	for category, id := range in.Equipments {
		if id == "" {
			continue
		}
		if item, ok := s.catalog.Equipment(id); !ok || item.Category != category {
			return nil, status.Errorf(codes.InvalidArgument, "unknown %s equipment %q", category, id)
		}
	}
	return s.stateReply(s.store.UpdateSlotConfig(in.SlotID, in.SlotConfigPatch))
}

// UpdateSlotPassives replaces a slot's passives
func (s *Server) UpdateSlotPassives(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in struct {
		SlotID   string              `json:"slotId"`
		Passives models.SlotPassives `json:"passives"`
	}
	if err := fromStruct(req, &in); err != nil {
		return nil, err
	}
	return s.stateReply(s.store.UpdateSlotPassives(in.SlotID, in.Passives))
}

// ChangeDisplayMode selects what slot tiles display
func (s *Server) ChangeDisplayMode(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.stateReply(s.store.ChangeDisplayMode(models.DisplayMode(req.GetValue())))
}

// ClearTeam empties every slot
func (s *Server) ClearTeam(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
	logger.Info("gRPC: Clearing team")
	return s.stateReply(s.store.ClearTeam())
}

// EncodeShare returns the share code of the current team
func (s *Server) EncodeShare(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error) {
	code, err := share.Encode(s.store.State())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.String(code), nil
}

// PreviewShare summarizes a share code without importing it
func (s *Server) PreviewShare(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	state, err := share.Decode(req.GetValue())
	if err != nil {
		return nil, toStatus(err)
	}
	sum := share.Preview(state)
	return toStruct(map[string]any{
		"summary": sum,
		"message": sum.String(),
		"slots":   slots.IDs(teambuilder.SlotsFor(state)),
	})
}

// ImportShare replaces the current team with a shared one
func (s *Server) ImportShare(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	shared, err := share.Decode(req.GetValue())
	if err != nil {
		logger.Warn("gRPC: Rejected share code", "error", err)
		return nil, toStatus(err)
	}
	return s.stateReply(s.store.Import(shared))
}

// StreamEvents streams events to clients
func (s *Server) StreamEvents(req *emptypb.Empty, stream grpc.ServerStream) error {
	logger.Debug("gRPC: New client connected to event stream")
	eventChan := s.pubsub.Subscribe()
	defer s.pubsub.Unsubscribe(eventChan)

	for {
		select {
		case event, ok := <-eventChan:
			if !ok {
				return nil
			}
			msg, err := toStruct(event)
			if err != nil {
				return err
			}
			if err := stream.SendMsg(msg); err != nil {
				logger.Error("gRPC: Failed to send event to stream", "error", err)
				return fmt.Errorf("send event: %w", err)
			}
		case <-stream.Context().Done():
			logger.Debug("gRPC: Client disconnected from event stream")
			return nil
		}
	}
}
