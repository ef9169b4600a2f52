package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.WatchListClient

	mu          sync.Mutex
	accessToken string
}

var _ Store = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewWatchListClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewWatchListClient(conn)
	return nil
}

// Authenticate submits the credentials and keeps the issued token for
// subsequent calls.
func (s *GRPCClient) Authenticate(ctx context.Context, creds models.Credentials) (*models.Envelope, error) {
	req := &rpc.AuthRequest{Username: creds.Username, Password: string(creds.Password)}

	resp, err := s.client.Authenticate(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}

	if resp.Success {
		s.setToken(resp.Token)
	}
	return &models.Envelope{Success: resp.Success, Message: resp.Message}, nil
}

// Logout drops the local token whatever the server answers.
func (s *GRPCClient) Logout(ctx context.Context) (*models.Envelope, error) {
	resp, err := s.client.Logout(ctx, &emptypb.Empty{})
	s.setToken("")
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Envelope(), nil
}

func (s *GRPCClient) ListItems(ctx context.Context) (*models.Envelope, error) {
	resp, err := s.client.ListItems(ctx, &emptypb.Empty{})
	return s.envelope(resp, err)
}

func (s *GRPCClient) InsertItem(ctx context.Context, draft models.Draft) (*models.Envelope, error) {
	resp, err := s.client.InsertItem(ctx, rpc.NewInsertRequest(draft))
	return s.envelope(resp, err)
}

func (s *GRPCClient) DeleteItems(ctx context.Context, ids []int64) (*models.Envelope, error) {
	resp, err := s.client.DeleteItems(ctx, &rpc.DeleteRequest{IDs: ids})
	return s.envelope(resp, err)
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// envelope turns an authentication rejection into a failed envelope so the
// caller can expire its session; other errors stay transport failures.
func (s *GRPCClient) envelope(resp *rpc.Response, err error) (*models.Envelope, error) {
	if err == nil {
		return resp.Envelope(), nil
	}

	if st, ok := status.FromError(err); ok && st.Code() == codes.Unauthenticated {
		s.setToken("")
		msg := st.Message()
		if msg == "" {
			msg = common.AuthRequiredMessage
		}
		return &models.Envelope{Success: false, Message: msg, Code: models.CodeAuthRequired}, nil
	}

	return nil, s.mapError(err)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}
