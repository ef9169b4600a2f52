package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "watchkeeper.WatchListService"

const (
	AuthenticateMethod = "/" + ServiceName + "/Authenticate"
	LogoutMethod       = "/" + ServiceName + "/Logout"
	ListItemsMethod    = "/" + ServiceName + "/ListItems"
	InsertItemMethod   = "/" + ServiceName + "/InsertItem"
	DeleteItemsMethod  = "/" + ServiceName + "/DeleteItems"
)

// WatchListServer is implemented by the store.
type WatchListServer interface {
	Authenticate(context.Context, *AuthRequest) (*AuthResponse, error)
	Logout(context.Context, *emptypb.Empty) (*Response, error)
	ListItems(context.Context, *emptypb.Empty) (*Response, error)
	InsertItem(context.Context, *InsertRequest) (*Response, error)
	DeleteItems(context.Context, *DeleteRequest) (*Response, error)
}

func unary[Req, Resp any](name, full string, call func(WatchListServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(WatchListServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(WatchListServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc registers a WatchListServer on a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WatchListServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Authenticate", AuthenticateMethod, WatchListServer.Authenticate),
		unary("Logout", LogoutMethod, WatchListServer.Logout),
		unary("ListItems", ListItemsMethod, WatchListServer.ListItems),
		unary("InsertItem", InsertItemMethod, WatchListServer.InsertItem),
		unary("DeleteItems", DeleteItemsMethod, WatchListServer.DeleteItems),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "watchkeeper/watchlist.json",
}

func RegisterWatchListServer(s grpc.ServiceRegistrar, srv WatchListServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// WatchListClient is the typed client stub.
type WatchListClient interface {
	Authenticate(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error)
	Logout(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Response, error)
	ListItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Response, error)
	InsertItem(ctx context.Context, in *InsertRequest, opts ...grpc.CallOption) (*Response, error)
	DeleteItems(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Response, error)
}

type watchListClient struct {
	cc grpc.ClientConnInterface
}

func NewWatchListClient(cc grpc.ClientConnInterface) WatchListClient {
	return &watchListClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *watchListClient) Authenticate(ctx context.Context, in *AuthRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, AuthenticateMethod, in, opts)
}

func (c *watchListClient) Logout(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Response, error) {
	return invoke[Response](ctx, c.cc, LogoutMethod, in, opts)
}

func (c *watchListClient) ListItems(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*Response, error) {
	return invoke[Response](ctx, c.cc, ListItemsMethod, in, opts)
}

func (c *watchListClient) InsertItem(ctx context.Context, in *InsertRequest, opts ...grpc.CallOption) (*Response, error) {
	return invoke[Response](ctx, c.cc, InsertItemMethod, in, opts)
}

func (c *watchListClient) DeleteItems(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*Response, error) {
	return invoke[Response](ctx, c.cc, DeleteItemsMethod, in, opts)
}
