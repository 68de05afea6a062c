package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/roombooking/api"
	"github.com/Domenick1991/roombooking/config"
	bookingsapi "github.com/Domenick1991/roombooking/internal/api/bookings_service_api"
	roomsapi "github.com/Domenick1991/roombooking/internal/api/rooms_service_api"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/Domenick1991/roombooking/internal/service/booking"
	"github.com/Domenick1991/roombooking/internal/service/rooms"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const shutdownTimeout = 5 * time.Second

type Services struct {
	Rooms       rooms.RoomUseCase
	Bookings    booking.BookingUseCase
	Reliability api.ReliabilityStats
}

type Servers struct {
	grpcServer *grpc.Server
	health     *health.Server
	httpServer *http.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log *logger.Logger) error {
	s := NewServers(cfg, svc, log)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}

	errCh := make(chan error, 2)
	go func() { errCh <- s.grpcServer.Serve(lis) }()
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Infof("listening: http=%s grpc=%s", cfg.HTTP.Address, cfg.GRPC.Address)

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

func NewServers(cfg *config.Config, svc Services, log *logger.Logger) *Servers {
	grpcSrv := grpc.NewServer()
	bookingsapi.Register(grpcSrv, bookingsapi.NewServer(svc.Bookings))
	roomsapi.Register(grpcSrv, roomsapi.NewServer(svc.Rooms))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(bookingsapi.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(roomsapi.ServiceName, healthpb.HealthCheckResponse_SERVING)

	router := api.NewRouter(api.Handlers{
		Rooms:    api.NewRoomHandler(svc.Rooms),
		Bookings: api.NewBookingHandler(svc.Bookings),
		Metrics:  api.NewMetricsHandler(svc.Reliability, svc.Rooms),
	}, cfg.HTTP.AllowedOrigins, log)

	return &Servers{
		grpcServer: grpcSrv,
		health:     healthSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Servers) Shutdown() error {
	s.health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.grpcServer.GracefulStop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
