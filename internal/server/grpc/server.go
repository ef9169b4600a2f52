// Package grpc exposes the watch-list store over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/rpc"
	"github.com/dmitrijs2005/watchkeeper/internal/server/auth"
	"github.com/dmitrijs2005/watchkeeper/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the account side of the store.
type UserService interface {
	Authenticate(ctx context.Context, username string, password []byte) (*services.AuthResult, error)
	ValidateToken(token string) (*auth.Claims, error)
	Logout(ctx context.Context, token string)
}

// WatchListService is the record side of the store.
type WatchListService interface {
	List(ctx context.Context) *models.Envelope
	Insert(ctx context.Context, d models.Draft) *models.Envelope
	Delete(ctx context.Context, ids []int64) *models.Envelope
}

type GRPCServer struct {
	address   string
	users     UserService
	watchlist WatchListService
	logger    logging.Logger
}

var _ rpc.WatchListServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, ws WatchListService) *GRPCServer {
	if l == nil {
		l = logging.Nop()
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		watchlist: ws,
	}
}

// newServer builds a grpc.Server with the interceptor chain and the
// watch-list service registered.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterWatchListServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
