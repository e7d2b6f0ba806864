package lighting

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
)

// Service abstracts the controller operations the transport layer depends on.
type Service interface {
	// Snapshot returns the latest resolved snapshot, or nil before the first one.
	Snapshot(ctx context.Context) *snapshot.Record
	// Resolve computes a snapshot for t without touching the outputs.
	Resolve(ctx context.Context, t schedule.TimeOfDay) (*snapshot.Record, error)
}

// Server implements ScheduleServiceServer.
type Server struct {
	// service provides the controller operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// GetSnapshot returns the latest snapshot.
func (s *Server) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	record := s.service.Snapshot(ctx)
	if record == nil {
		return nil, status.Error(codes.Unavailable, "no snapshot resolved yet")
	}

	return toProto(record)
}

// Resolve computes a snapshot for the requested time of day.
func (s *Server) Resolve(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "time is required")
	}

	at, err := schedule.ParseTimeOfDay(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	record, err := s.service.Resolve(ctx, at)

	switch {
	case errors.Is(err, schedule.ErrTimeOutOfRange):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case err != nil:
		return nil, status.Error(codes.Internal, "unable to resolve schedule")
	}

	return toProto(record)
}

// toProto converts a record into its wire form.
func toProto(record *snapshot.Record) (*structpb.Struct, error) {
	message, err := snapshot.ToStruct(record)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode snapshot")
	}

	return message, nil
}

var _ ScheduleServiceServer = (*Server)(nil)
