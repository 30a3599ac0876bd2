package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region client-struct
// Client wraps a gRPC connection to the journey service.
type Client struct {
	conn grpc.ClientConnInterface
	own  *grpc.ClientConn
}

// #endregion client-struct

// #region constructor
// NewClient connects to the journey service at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, own: conn}, nil
}

// NewClientWithConn creates a Client on an existing connection. Close does not close
// conn; the caller keeps ownership.
func NewClientWithConn(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection if the client opened it.
func (c *Client) Close() error {
	if c.own == nil {
		return nil
	}
	return c.own.Close()
}

// #endregion close

// #region calls
// PredictJourney requests the journey map for p.
func (c *Client) PredictJourney(ctx context.Context, p profile.Profile) (journey.Map, error) {
	var jm journey.Map
	if err := c.call(ctx, MethodPredictJourney, p, &jm); err != nil {
		return journey.Map{}, err
	}
	return jm, nil
}

// AccommodationProgression requests the accommodation progression for p.
func (c *Client) AccommodationProgression(ctx context.Context, p profile.Profile) (journey.Progression, error) {
	var prog journey.Progression
	if err := c.call(ctx, MethodAccommodationProgression, p, &prog); err != nil {
		return journey.Progression{}, err
	}
	return prog, nil
}

// Analyze requests the full analysis for p.
func (c *Client) Analyze(ctx context.Context, p profile.Profile) (journey.Analysis, error) {
	var a journey.Analysis
	if err := c.call(ctx, MethodAnalyze, p, &a); err != nil {
		return journey.Analysis{}, err
	}
	return a, nil
}

func (c *Client) call(ctx context.Context, method string, p profile.Profile, dst any) error {
	req, err := ProfileToStruct(p)
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, FullMethod(method), req, resp); err != nil {
		return fmt.Errorf("%s rpc: %w", method, err)
	}
	if err := FromStruct(resp, dst); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// #endregion calls
