package lighting

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "lightsched.v1.ScheduleService"

	// GetSnapshotMethod is the full method name of GetSnapshot.
	GetSnapshotMethod = "/" + ServiceName + "/GetSnapshot"
	// ResolveMethod is the full method name of Resolve.
	ResolveMethod = "/" + ServiceName + "/Resolve"
)

// ScheduleServiceServer is the server API of the schedule service.
type ScheduleServiceServer interface {
	// GetSnapshot returns the snapshot the controller resolved last.
	GetSnapshot(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	// Resolve computes a snapshot for the HH:MM:SS time in req.
	Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// RegisterScheduleServiceServer registers srv with a gRPC server.
func RegisterScheduleServiceServer(registrar grpc.ServiceRegistrar, srv ScheduleServiceServer) {
	registrar.RegisterService(&scheduleServiceDesc, srv)
}

//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var scheduleServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScheduleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSnapshot",
			Handler:    getSnapshotHandler,
		},
		{
			MethodName: "Resolve",
			Handler:    resolveHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lightsched/v1/schedule.proto",
}

func getSnapshotHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order fixed by grpc.MethodDesc.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ScheduleServiceServer).GetSnapshot(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetSnapshotMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScheduleServiceServer).GetSnapshot(ctx, req.(*emptypb.Empty)) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	return interceptor(ctx, in, info, handler)
}

func resolveHandler(
	srv any,
	ctx context.Context, //nolint:revive // Order fixed by grpc.MethodDesc.
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ScheduleServiceServer).Resolve(ctx, in) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ResolveMethod,
	}

	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ScheduleServiceServer).Resolve(ctx, req.(*wrapperspb.StringValue)) //nolint:forcetypeassert // Guaranteed by HandlerType.
	}

	return interceptor(ctx, in, info, handler)
}

// ScheduleServiceClient is the client API of the schedule service.
type ScheduleServiceClient interface {
	GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Resolve(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// scheduleServiceClient invokes the service over a client connection.
type scheduleServiceClient struct {
	// cc is the underlying connection.
	cc grpc.ClientConnInterface
}

// NewScheduleServiceClient creates a client on top of cc.
//
//nolint:ireturn // Mirrors generated gRPC constructors.
func NewScheduleServiceClient(cc grpc.ClientConnInterface) ScheduleServiceClient {
	return &scheduleServiceClient{cc: cc}
}

// GetSnapshot implements ScheduleServiceClient.
func (c *scheduleServiceClient) GetSnapshot(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSnapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// Resolve implements ScheduleServiceClient.
func (c *scheduleServiceClient) Resolve(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ResolveMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
