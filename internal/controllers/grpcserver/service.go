// Package grpcserver serves lunar calculations over gRPC.
//
// The service has no .proto of its own. Requests and responses are protobuf
// well-known types, so the service descriptor is written out by hand and any
// gRPC client can call it with the method names below.
package grpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/chrissnell/moondash/pkg/dashboard"
	"github.com/chrissnell/moondash/pkg/lunar"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "moondash.lunar.v1.Lunar"

// Full method names
const (
	GetSnapshotMethod   = "/" + ServiceName + "/GetSnapshot"
	FindNextPhaseMethod = "/" + ServiceName + "/FindNextPhase"
	GetZodiacMethod     = "/" + ServiceName + "/GetZodiac"
)

// Fields of the FindNextPhase request struct
const (
	FieldFrom  = "from"
	FieldPhase = "phase"
)

// LunarServer is the server API for the lunar service.
//
// A Timestamp with zero seconds and nanos means "now".
type LunarServer interface {
	GetSnapshot(context.Context, *timestamppb.Timestamp) (*structpb.Struct, error)
	FindNextPhase(context.Context, *structpb.Struct) (*timestamppb.Timestamp, error)
	GetZodiac(context.Context, *timestamppb.Timestamp) (*wrapperspb.StringValue, error)
}

// LunarServiceDesc describes the lunar service to grpc.Server.RegisterService
var LunarServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LunarServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSnapshot", Handler: getSnapshotHandler},
		{MethodName: "FindNextPhase", Handler: findNextPhaseHandler},
		{MethodName: "GetZodiac", Handler: getZodiacHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moondash/lunar/v1/lunar.proto",
}

// RegisterLunarServer registers srv with s
func RegisterLunarServer(s grpc.ServiceRegistrar, srv LunarServer) {
	s.RegisterService(&LunarServiceDesc, srv)
}

func getSnapshotHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunarServer).GetSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSnapshotMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LunarServer).GetSnapshot(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

func findNextPhaseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunarServer).FindNextPhase(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FindNextPhaseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LunarServer).FindNextPhase(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getZodiacHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LunarServer).GetZodiac(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetZodiacMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LunarServer).GetZodiac(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

// Service implements LunarServer against the lunar package
type Service struct {
	now func() time.Time
}

// NewService creates a Service. A nil now uses time.Now.
func NewService(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{now: now}
}

// resolve turns a request timestamp into a time in the clock's location
func (s *Service) resolve(ts *timestamppb.Timestamp) (time.Time, error) {
	now := s.now()
	if ts == nil || (ts.GetSeconds() == 0 && ts.GetNanos() == 0) {
		return now, nil
	}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid timestamp: %v", err)
	}
	return ts.AsTime().In(now.Location()), nil
}

// GetSnapshot returns the moon snapshot, its shape and its zodiac sign
func (s *Service) GetSnapshot(ctx context.Context, req *timestamppb.Timestamp) (*structpb.Struct, error) {
	t, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	view := dashboard.NewMoonView(lunar.Calculate(t))
	out, err := structpb.NewStruct(map[string]interface{}{
		"date":             t.Format(time.RFC3339Nano),
		"phase":            view.Phase,
		"illumination":     view.Illumination,
		"phaseName":        string(view.PhaseName),
		"ageDays":          view.AgeDays,
		"waxing":           view.IsWaxing(),
		"illuminationText": view.IlluminationText,
		"ageText":          view.AgeText,
		"julianDay":        lunar.JulianDay(t),
		"zodiac":           string(lunar.Zodiac(t)),
		"style":            view.Style,
		"shape": map[string]interface{}{
			"kind":    string(view.Shape.Kind),
			"radiusX": view.Shape.RadiusX,
			"anchorX": view.Shape.AnchorX,
			"inset":   view.Shape.Inset,
		},
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encoding snapshot: %v", err)
	}
	return out, nil
}

// FindNextPhase searches forward from the request's "from" (RFC3339, default
// now) for the day whose phase name is "phase"
func (s *Service) FindNextPhase(ctx context.Context, req *structpb.Struct) (*timestamppb.Timestamp, error) {
	fields := req.GetFields()

	name, err := lunar.ParsePhaseName(fields[FieldPhase].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	from := s.now()
	if v := fields[FieldFrom].GetStringValue(); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid from %q: %v", v, err)
		}
		from = parsed
	}

	next, err := lunar.FindNext(from, name)
	if errors.Is(err, lunar.ErrPhaseNotFound) {
		return nil, status.Errorf(codes.NotFound, "no %s within %d days of %s", name, lunar.SearchWindowDays, from.Format(time.RFC3339))
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return timestamppb.New(next), nil
}

// GetZodiac returns the zodiac sign for the requested time, evaluated in the
// server clock's location
func (s *Service) GetZodiac(ctx context.Context, req *timestamppb.Timestamp) (*wrapperspb.StringValue, error) {
	t, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(string(lunar.Zodiac(t))), nil
}
