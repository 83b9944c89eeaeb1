package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"animeverse/pkg/models"
)

const serviceName = "animeverse.v1.WatchState"

const (
	ListProfilesMethod   = "/" + serviceName + "/ListProfiles"
	GetWatchStateMethod  = "/" + serviceName + "/GetWatchState"
	RecordPlaybackMethod = "/" + serviceName + "/RecordPlayback"
	ToggleMyListMethod   = "/" + serviceName + "/ToggleMyList"
)

type ListProfilesRequest struct{}

type ListProfilesResponse struct {
	Items []models.PublicProfile `json:"items"`
}

type GetWatchStateRequest struct {
	ProfileID string `json:"profile_id"`
}

type GetWatchStateResponse struct {
	State models.WatchState `json:"state"`
}

type RecordPlaybackRequest struct {
	ProfileID string       `json:"profile_id"`
	Media     models.Media `json:"media"`
	Season    int          `json:"season,omitempty"`
	Episode   int          `json:"episode,omitempty"`
}

type RecordPlaybackResponse struct {
	Entry models.ContinueWatchingEntry `json:"entry"`
}

type ToggleMyListRequest struct {
	ProfileID string       `json:"profile_id"`
	Media     models.Media `json:"media"`
}

type ToggleMyListResponse struct {
	InList bool           `json:"in_list"`
	Items  []models.Media `json:"items"`
}

type WatchStateServer interface {
	ListProfiles(context.Context, *ListProfilesRequest) (*ListProfilesResponse, error)
	GetWatchState(context.Context, *GetWatchStateRequest) (*GetWatchStateResponse, error)
	RecordPlayback(context.Context, *RecordPlaybackRequest) (*RecordPlaybackResponse, error)
	ToggleMyList(context.Context, *ToggleMyListRequest) (*ToggleMyListResponse, error)
}

func RegisterWatchStateServer(s grpc.ServiceRegistrar, srv WatchStateServer) {
	s.RegisterService(&watchStateServiceDesc, srv)
}

// unaryHandler adapts a typed method to the grpc method handler shape.
func unaryHandler[Req any, Resp any](fullMethod string, call func(WatchStateServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WatchStateServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WatchStateServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var watchStateServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*WatchStateServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProfiles", Handler: unaryHandler(ListProfilesMethod, WatchStateServer.ListProfiles)},
		{MethodName: "GetWatchState", Handler: unaryHandler(GetWatchStateMethod, WatchStateServer.GetWatchState)},
		{MethodName: "RecordPlayback", Handler: unaryHandler(RecordPlaybackMethod, WatchStateServer.RecordPlayback)},
		{MethodName: "ToggleMyList", Handler: unaryHandler(ToggleMyListMethod, WatchStateServer.ToggleMyList)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "animeverse/v1/watchstate",
}

// WatchStateClient calls the service over the JSON codec.
type WatchStateClient struct {
	cc grpc.ClientConnInterface
}

func NewWatchStateClient(cc grpc.ClientConnInterface) *WatchStateClient {
	return &WatchStateClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WatchStateClient) ListProfiles(ctx context.Context, in *ListProfilesRequest, opts ...grpc.CallOption) (*ListProfilesResponse, error) {
	return invoke[ListProfilesResponse](ctx, c.cc, ListProfilesMethod, in, opts)
}

func (c *WatchStateClient) GetWatchState(ctx context.Context, in *GetWatchStateRequest, opts ...grpc.CallOption) (*GetWatchStateResponse, error) {
	return invoke[GetWatchStateResponse](ctx, c.cc, GetWatchStateMethod, in, opts)
}

func (c *WatchStateClient) RecordPlayback(ctx context.Context, in *RecordPlaybackRequest, opts ...grpc.CallOption) (*RecordPlaybackResponse, error) {
	return invoke[RecordPlaybackResponse](ctx, c.cc, RecordPlaybackMethod, in, opts)
}

func (c *WatchStateClient) ToggleMyList(ctx context.Context, in *ToggleMyListRequest, opts ...grpc.CallOption) (*ToggleMyListResponse, error) {
	return invoke[ToggleMyListResponse](ctx, c.cc, ToggleMyListMethod, in, opts)
}
