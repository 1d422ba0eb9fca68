package grpcserver

import (
	"context"
	"fmt"
	"time"

	"github.com/chrissnell/moondash/pkg/lunar"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls a remote lunar service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// timestamp encodes t, mapping the zero time to the server's "now"
func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return &timestamppb.Timestamp{}
	}
	return timestamppb.New(t)
}

// GetSnapshot returns the raw snapshot struct for t. A zero t asks for now.
func (c *Client) GetSnapshot(ctx context.Context, t time.Time, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSnapshotMethod, timestamp(t), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot is GetSnapshot decoded into a lunar.MoonSnapshot
func (c *Client) Snapshot(ctx context.Context, t time.Time, opts ...grpc.CallOption) (lunar.MoonSnapshot, error) {
	s, err := c.GetSnapshot(ctx, t, opts...)
	if err != nil {
		return lunar.MoonSnapshot{}, err
	}

	f := s.GetFields()
	name := lunar.PhaseName(f["phaseName"].GetStringValue())
	if !name.Valid() {
		return lunar.MoonSnapshot{}, fmt.Errorf("server returned %w: %q", lunar.ErrUnknownPhase, name)
	}
	return lunar.MoonSnapshot{
		Phase:        f["phase"].GetNumberValue(),
		Illumination: int(f["illumination"].GetNumberValue()),
		PhaseName:    name,
		AgeDays:      f["ageDays"].GetNumberValue(),
	}, nil
}

// FindNextPhase asks for the next occurrence of phase after from. A zero from
// asks the server to search from its own now.
func (c *Client) FindNextPhase(ctx context.Context, from time.Time, phase lunar.PhaseName, opts ...grpc.CallOption) (time.Time, error) {
	fields := map[string]interface{}{FieldPhase: phase.Slug()}
	if !from.IsZero() {
		fields[FieldFrom] = from.Format(time.RFC3339)
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return time.Time{}, err
	}

	out := new(timestamppb.Timestamp)
	if err := c.cc.Invoke(ctx, FindNextPhaseMethod, req, out, opts...); err != nil {
		return time.Time{}, err
	}
	return out.AsTime(), nil
}

// GetZodiac returns the zodiac sign for t. A zero t asks for now.
func (c *Client) GetZodiac(ctx context.Context, t time.Time, opts ...grpc.CallOption) (lunar.ZodiacSign, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, GetZodiacMethod, timestamp(t), out, opts...); err != nil {
		return "", err
	}
	return lunar.ZodiacSign(out.GetValue()), nil
}
