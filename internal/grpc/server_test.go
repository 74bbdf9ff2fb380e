package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Billy-Davies-2/inazuma-guide/internal/dal"
	"github.com/Billy-Davies-2/inazuma-guide/internal/dataset"
	"github.com/Billy-Davies-2/inazuma-guide/internal/pubsub"
	"github.com/Billy-Davies-2/inazuma-guide/internal/share"
	"github.com/Billy-Davies-2/inazuma-guide/internal/teambuilder"
)

type testEnv struct {
	store  *teambuilder.Store
	pubsub *pubsub.PubSub
	client *Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	catalog, err := dataset.Load()
	if err != nil {
		t.Fatalf("dataset.Load failed: %v", err)
	}
	ps := pubsub.New()
	store := teambuilder.NewStore(dal.NewMemoryDAL(), ps)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterTeamBuilderServer(srv, NewServer(store, catalog, ps))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{store: store, pubsub: ps, client: NewClient(conn)}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("structpb.NewStruct failed: %v", err)
	}
	return s
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGetState(t *testing.T) {
	env := newTestEnv(t)
	out := new(structpb.Struct)
	if err := env.client.Call(testContext(t), "GetState", &emptypb.Empty{}, out); err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	fields := out.AsMap()
	if fields["formationId"] != "433-delta" {
		t.Errorf("expected default formation, got %v", fields["formationId"])
	}
	if fields["displayMode"] != "nickname" {
		t.Errorf("expected nickname display mode, got %v", fields["displayMode"])
	}
}

func TestAssignAndProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext(t)

	out := new(structpb.Struct)
	req := mustStruct(t, map[string]any{"slotId": "delta-fw-center", "playerId": 42})
	if err := env.client.Call(ctx, "Assign", req, out); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	assignments := out.AsMap()["assignments"].(map[string]any)
	if assignments["delta-fw-center"] != float64(42) {
		t.Errorf("expected player 42 in delta-fw-center, got %v", assignments["delta-fw-center"])
	}

	cfg := mustStruct(t, map[string]any{
		"slotId": "delta-fw-center",
		"rarity": "legendary",
		"beans":  []any{map[string]any{"attribute": "kick", "value": 20}},
	})
	if err := env.client.Call(ctx, "UpdateSlotConfig", cfg, new(structpb.Struct)); err != nil {
		t.Fatalf("UpdateSlotConfig failed: %v", err)
	}
	if got := env.store.State().SlotConfigs["delta-fw-center"].Rarity; got != "legendary" {
		t.Errorf("expected legendary rarity, got %s", got)
	}

	if err := env.client.Call(ctx, "GetAssignments", &emptypb.Empty{}, out); err != nil {
		t.Fatalf("GetAssignments failed: %v", err)
	}
	view := out.AsMap()
	if view["filled"] != float64(1) {
		t.Errorf("expected 1 filled slot, got %v", view["filled"])
	}
	if n := len(view["slots"].([]any)); n != 20 {
		t.Errorf("expected 20 slots, got %d", n)
	}
}

func TestErrorCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext(t)

	tests := []struct {
		name     string
		call     func() error
		expected codes.Code
	}{
		{"unknown slot", func() error {
			return env.client.Call(ctx, "ClearSlot", wrapperspb.String("nowhere"), new(structpb.Struct))
		}, codes.InvalidArgument},
		{"unknown player", func() error {
			req := mustStruct(t, map[string]any{"slotId": "delta-gk", "playerId": 11})
			return env.client.Call(ctx, "Assign", req, new(structpb.Struct))
		}, codes.NotFound},
		{"wrong equipment category", func() error {
			req := mustStruct(t, map[string]any{"slotId": "reserve-1", "equipments": map[string]any{"boots": "pendant-aqua"}})
			return env.client.Call(ctx, "UpdateSlotConfig", req, new(structpb.Struct))
		}, codes.InvalidArgument},
		{"invalid display mode", func() error {
			return env.client.Call(ctx, "ChangeDisplayMode", wrapperspb.String("speed"), new(structpb.Struct))
		}, codes.InvalidArgument},
		{"invalid share code", func() error {
			return env.client.Call(ctx, "ImportShare", wrapperspb.String("not-a-valid-payload"), new(structpb.Struct))
		}, codes.InvalidArgument},
		{"malformed request", func() error {
			req := mustStruct(t, map[string]any{"slotId": "delta-gk", "playerId": "forty-two"})
			return env.client.Call(ctx, "Assign", req, new(structpb.Struct))
		}, codes.InvalidArgument},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			if got := status.Code(err); got != tc.expected {
				t.Errorf("expected %s, got %s (%v)", tc.expected, got, err)
			}
		})
	}
}

func TestShareRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext(t)

	if _, err := env.store.ChangeFormation("451-balanced"); err != nil {
		t.Fatalf("ChangeFormation failed: %v", err)
	}
	if _, err := env.store.Assign("balanced-fw-center", 42); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	code := new(wrapperspb.StringValue)
	if err := env.client.Call(ctx, "EncodeShare", &emptypb.Empty{}, code); err != nil {
		t.Fatalf("EncodeShare failed: %v", err)
	}
	if _, err := share.Decode(code.GetValue()); err != nil {
		t.Fatalf("EncodeShare returned an undecodable code: %v", err)
	}

	preview := new(structpb.Struct)
	if err := env.client.Call(ctx, "PreviewShare", code, preview); err != nil {
		t.Fatalf("PreviewShare failed: %v", err)
	}
	if msg := preview.AsMap()["message"]; msg != "1 player in 4-5-1 Balanced" {
		t.Errorf("unexpected preview message: %v", msg)
	}

	if err := env.client.Call(ctx, "ClearTeam", &emptypb.Empty{}, new(structpb.Struct)); err != nil {
		t.Fatalf("ClearTeam failed: %v", err)
	}
	if err := env.client.Call(ctx, "ChangeFormation", wrapperspb.String("433-delta"), new(structpb.Struct)); err != nil {
		t.Fatalf("ChangeFormation failed: %v", err)
	}

	if err := env.client.Call(ctx, "ImportShare", code, new(structpb.Struct)); err != nil {
		t.Fatalf("ImportShare failed: %v", err)
	}
	state := env.store.State()
	if state.FormationID != "451-balanced" {
		t.Errorf("expected imported formation 451-balanced, got %s", state.FormationID)
	}
	if id := state.Assignments["balanced-fw-center"]; id == nil || *id != 42 {
		t.Errorf("expected player 42 after import, got %v", id)
	}
}

func TestStreamEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := testContext(t)

	stream, err := env.client.StreamEvents(ctx)
	if err != nil {
		t.Fatalf("StreamEvents failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for env.pubsub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := env.store.Assign("delta-gk", 1); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	event, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv failed: %v", err)
	}
	fields := event.AsMap()
	if fields["type"] != pubsub.TeamUpdated {
		t.Errorf("expected %s event, got %v", pubsub.TeamUpdated, fields["type"])
	}
	payload := fields["payload"].(map[string]any)
	if payload["action"] != "assign" || payload["slotId"] != "delta-gk" {
		t.Errorf("unexpected payload: %v", payload)
	}
}
