package grpc

import (
	"context"

	"github.com/dmitrijs2005/watchkeeper/internal/rpc"
	"github.com/dmitrijs2005/watchkeeper/internal/server/services"
	"google.golang.org/protobuf/types/known/emptypb"
)

const msgAuthInternal = "Authentication failed: internal server error"

func (s *GRPCServer) Authenticate(ctx context.Context, req *rpc.AuthRequest) (*rpc.AuthResponse, error) {
	s.logger.Info(ctx, "Authentication request", "username", req.Username)

	res, err := s.users.Authenticate(ctx, req.Username, []byte(req.Password))
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return &rpc.AuthResponse{Success: false, Message: msgAuthInternal}, nil
	}

	return &rpc.AuthResponse{Success: res.Success, Message: res.Message, Token: res.Token}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*rpc.Response, error) {
	if token := accessToken(ctx); token != "" {
		s.users.Logout(ctx, token)
	}
	return &rpc.Response{Success: true, Message: services.MsgLoggedOut}, nil
}

func (s *GRPCServer) ListItems(ctx context.Context, _ *emptypb.Empty) (*rpc.Response, error) {
	return rpc.NewResponse(s.watchlist.List(ctx)), nil
}

func (s *GRPCServer) InsertItem(ctx context.Context, req *rpc.InsertRequest) (*rpc.Response, error) {
	return rpc.NewResponse(s.watchlist.Insert(ctx, req.Draft())), nil
}

func (s *GRPCServer) DeleteItems(ctx context.Context, req *rpc.DeleteRequest) (*rpc.Response, error) {
	return rpc.NewResponse(s.watchlist.Delete(ctx, req.IDs)), nil
}
