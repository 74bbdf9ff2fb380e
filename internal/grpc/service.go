package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "inazumaguide.v1.TeamBuilder"

// TeamBuilderServer is the server API of the TeamBuilder service.
// Structured payloads travel as google.protobuf.Struct carrying the same
// JSON shapes as the HTTP API.
type TeamBuilderServer interface {
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetAssignments(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Assign(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearSlot(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ChangeFormation(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	UpdateSlotConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateSlotPassives(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangeDisplayMode(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ClearTeam(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	EncodeShare(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	PreviewShare(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ImportShare(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	StreamEvents(*emptypb.Empty, grpc.ServerStream) error
}

// RegisterTeamBuilderServer registers srv on r
func RegisterTeamBuilderServer(r grpc.ServiceRegistrar, srv TeamBuilderServer) {
	r.RegisterService(&ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary adapts a typed method to a grpc.MethodDesc
func unary[T any, PT interface {
	*T
	proto.Message
}, R proto.Message](name string, call func(TeamBuilderServer, context.Context, PT) (R, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := PT(new(T))
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(TeamBuilderServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(PT))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func streamEventsHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TeamBuilderServer).StreamEvents(in, stream)
}

// ServiceDesc describes the TeamBuilder service for grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TeamBuilderServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("GetState", TeamBuilderServer.GetState),
		unary("GetAssignments", TeamBuilderServer.GetAssignments),
		unary("Assign", TeamBuilderServer.Assign),
		unary("ClearSlot", TeamBuilderServer.ClearSlot),
		unary("ChangeFormation", TeamBuilderServer.ChangeFormation),
		unary("UpdateSlotConfig", TeamBuilderServer.UpdateSlotConfig),
		unary("UpdateSlotPassives", TeamBuilderServer.UpdateSlotPassives),
		unary("ChangeDisplayMode", TeamBuilderServer.ChangeDisplayMode),
		unary("ClearTeam", TeamBuilderServer.ClearTeam),
		unary("EncodeShare", TeamBuilderServer.EncodeShare),
		unary("PreviewShare", TeamBuilderServer.PreviewShare),
		unary("ImportShare", TeamBuilderServer.ImportShare),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamEvents",
			Handler:       streamEventsHandler,
			ServerStreams: true,
		},
	},
	Metadata: "inazumaguide/v1/team_builder.proto",
}

// Client is a thin TeamBuilder client over a grpc connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes a unary method by name
func (c *Client) Call(ctx context.Context, method string, in, out proto.Message, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

// StreamEvents opens the event stream. Each Recv yields one event as a Struct.
func (c *Client) StreamEvents(ctx context.Context, opts ...grpc.CallOption) (*EventStream, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], fullMethod("StreamEvents"), opts...)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{stream: stream}, nil
}

// EventStream receives events from StreamEvents
type EventStream struct {
	stream grpc.ClientStream
}

// Recv blocks for the next event
func (s *EventStream) Recv() (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := s.stream.RecvMsg(out); err != nil {
		return nil, err
	}
	return out, nil
}
