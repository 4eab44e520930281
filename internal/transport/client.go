package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

type Client struct {
	cc     *grpc.ClientConn
	health healthpb.HealthClient
}

// Dial connects to addr and waits until the pipeline service reports
// SERVING or ctx ends.
func Dial(ctx context.Context, addr string) (*Client, error) {
	cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	c := &Client{cc: cc, health: healthpb.NewHealthClient(cc)}
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName}, grpc.WaitForReady(true))
	if err != nil {
		_ = cc.Close()
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		_ = cc.Close()
		return nil, fmt.Errorf("dial %s: service %s", addr, resp.GetStatus())
	}
	return c, nil
}

func (c *Client) Run(ctx context.Context, req Request) (Response, error) {
	in, err := req.toStruct()
	if err != nil {
		return Response{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RunMethod, in, out); err != nil {
		return Response{}, err
	}
	return responseFrom(out), nil
}

func (c *Client) Close() error { return c.cc.Close() }
