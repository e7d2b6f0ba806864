//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/oshokin/light-scheduler/internal/api/grpc/lighting"
	"github.com/oshokin/light-scheduler/internal/config"
	"github.com/oshokin/light-scheduler/internal/domain/schedule"
	"github.com/oshokin/light-scheduler/internal/repository/snapshot"
)

// Client wraps the gRPC ScheduleService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the controller.
	conn *grpc.ClientConn
	// api is the ScheduleService client.
	api api.ScheduleServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial creates a client for the controller at address.
// The transport is insecure; the service only exposes read-only data.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial light controller: %w", err)
	}

	return newClient(conn, opts...), nil
}

// newClient wraps an existing connection.
func newClient(conn *grpc.ClientConn, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		api:         api.NewScheduleServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetSnapshot retrieves the latest snapshot of the controller.
func (c *Client) GetSnapshot(ctx context.Context) (*snapshot.Record, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.GetSnapshot(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return snapshot.FromStruct(resp)
}

// Resolve asks the controller what its schedule yields at t.
func (c *Client) Resolve(ctx context.Context, t schedule.TimeOfDay) (*snapshot.Record, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp, err := c.api.Resolve(callCtx, wrapperspb.String(t.String()))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", t, err)
	}

	return snapshot.FromStruct(resp)
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
