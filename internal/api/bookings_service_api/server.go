package bookings_service_api

import (
	"context"

	"github.com/Domenick1991/roombooking/internal/api/rpcutil"
	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/service/booking"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "roombooking.Bookings"

type CreateReservationRequest struct {
	RoomID         string `json:"roomId"`
	Type           string `json:"type"`
	CheckIn        string `json:"checkIn"`
	CheckOut       string `json:"checkOut"`
	Guests         int    `json:"guests"`
	Breakfast      bool   `json:"breakfast"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type CreateReservationResponse struct {
	Created     bool                `json:"created"`
	Reservation *domain.Reservation `json:"reservation"`
}

type GetReservationRequest struct {
	ID string `json:"id"`
}

type BookingsServer interface {
	CreateReservation(ctx context.Context, req *CreateReservationRequest) (*CreateReservationResponse, error)
	GetReservation(ctx context.Context, req *GetReservationRequest) (*domain.Reservation, error)
}

// Server exposes the booking use case over gRPC with the JSON codec.
type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func Register(registrar grpc.ServiceRegistrar, srv BookingsServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

func (s *Server) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*CreateReservationResponse, error) {
	if req.IdempotencyKey == "" {
		return nil, status.Error(codes.InvalidArgument, "idempotencyKey is required")
	}
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

	result, err := s.bookings.CreateReservation(ctx, booking.CreateReservationInput{
		RoomID:         req.RoomID,
		Type:           rt,
		CheckIn:        in,
		CheckOut:       out,
		Guests:         req.Guests,
		Breakfast:      req.Breakfast,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	return &CreateReservationResponse{Created: result.Created, Reservation: result.Reservation}, nil
}

func (s *Server) GetReservation(ctx context.Context, req *GetReservationRequest) (*domain.Reservation, error) {
	res, err := s.bookings.GetReservation(ctx, req.ID)
	if err != nil {
		return nil, rpcutil.ToStatus(err)
	}
	return res, nil
}

func createReservationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingsServer).CreateReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CreateReservation"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingsServer).CreateReservation(ctx, req.(*CreateReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getReservationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingsServer).GetReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetReservation"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingsServer).GetReservation(ctx, req.(*GetReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateReservation", Handler: createReservationHandler},
		{MethodName: "GetReservation", Handler: getReservationHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookings.json",
}

var _ BookingsServer = (*Server)(nil)
