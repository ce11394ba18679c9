package grpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/GriffinCanCode/fsbridge/internal/types"
)

// Client calls the bridge service over gRPC
type Client struct {
	conn *grpc.ClientConn
}

// Dial creates a client for the bridge service at target
func Dial(target string, extra ...grpc.DialOption) (*Client, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                60 * time.Second,
			Timeout:             20 * time.Second,
			PermitWithoutStream: false,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(64*1024*1024),
			grpc.MaxCallSendMsgSize(64*1024*1024),
		),
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial bridge: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Invoke runs one command
func (c *Client) Invoke(ctx context.Context, req *types.InvokeRequest) (*types.Response, error) {
	out := new(types.Response)
	if err := c.conn.Invoke(ctx, methodInvoke, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCommands fetches service definitions
func (c *Client) ListCommands(ctx context.Context, category string) (*types.ListCommandsResponse, error) {
	out := new(types.ListCommandsResponse)
	if err := c.conn.Invoke(ctx, methodListCommands, &ListCommandsRequest{Category: category}, out,
		grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

// Conn exposes the underlying connection
func (c *Client) Conn() *grpc.ClientConn {
	return c.conn
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
