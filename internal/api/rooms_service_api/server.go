package rooms_service_api

import (
	"context"

	"github.com/Domenick1991/roombooking/internal/api/rpcutil"
	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/service/rooms"
	"google.golang.org/grpc"
)

const ServiceName = "roombooking.Rooms"

type SearchRoomsRequest struct {
	CheckIn          string `json:"checkIn"`
	CheckOut         string `json:"checkOut"`
	Guests           int    `json:"guests"`
	Type             string `json:"type,omitempty"`
	Breakfast        bool   `json:"breakfast"`
	IncludeBreakdown bool   `json:"includeBreakdown"`
	Limit            int    `json:"limit"`
	Cursor           string `json:"cursor,omitempty"`
}

type QuoteRequest struct {
	Type      string `json:"type"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Guests    int    `json:"guests"`
	Breakfast bool   `json:"breakfast"`
}

type RoomsServer interface {
	SearchRooms(ctx context.Context, req *SearchRoomsRequest) (*rooms.SearchResult, error)
	Quote(ctx context.Context, req *QuoteRequest) (*domain.Quote, error)
}

type Server struct {
	rooms rooms.RoomUseCase
}

func NewServer(rooms rooms.RoomUseCase) *Server {
	return &Server{rooms: rooms}
}

func Register(registrar grpc.ServiceRegistrar, srv RoomsServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func (s *Server) SearchRooms(ctx context.Context, req *SearchRoomsRequest) (*rooms.SearchResult, error) {
	in, err := domain.ParseDay(req.CheckIn)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	out, err := domain.ParseDay(req.CheckOut)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	input := rooms.SearchInput{
		CheckIn:          in,
		CheckOut:         out,
		Guests:           req.Guests,
		Breakfast:        req.Breakfast,
		IncludeBreakdown: req.IncludeBreakdown,
		Limit:            req.Limit,
		Cursor:           req.Cursor,
	}
	if req.Type != "" {
		rt, err := domain.ParseRoomType(req.Type)
		if err != nil {
			return nil, rpcutil.ToStatus(err)
		}
		input.Type = &rt
	}

	result, err := s.rooms.Search(ctx, input)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	return result, nil
}

func (s *Server) Quote(ctx context.Context, req *QuoteRequest) (*domain.Quote, error) {
	rt, err := domain.ParseRoomType(req.Type)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	in, err := domain.ParseDay(req.CheckIn)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	out, err := domain.ParseDay(req.CheckOut)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	q, err := s.rooms.Quote(ctx, rooms.QuoteInput{Type: rt, CheckIn: in, CheckOut: out, Guests: req.Guests, Breakfast: req.Breakfast})
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	return q, nil
}

func searchRoomsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SearchRoomsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomsServer).SearchRooms(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/SearchRooms"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RoomsServer).SearchRooms(ctx, req.(*SearchRoomsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func quoteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RoomsServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Quote"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RoomsServer).Quote(ctx, req.(*QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RoomsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchRooms", Handler: searchRoomsHandler},
		{MethodName: "Quote", Handler: quoteHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rooms.json",
}

var _ RoomsServer = (*Server)(nil)
