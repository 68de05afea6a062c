package bootstrap

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/roombooking/config"
	bookingsapi "github.com/Domenick1991/roombooking/internal/api/bookings_service_api"
	roomsapi "github.com/Domenick1991/roombooking/internal/api/rooms_service_api"
	"github.com/Domenick1991/roombooking/internal/api/rpcutil"
	"github.com/Domenick1991/roombooking/internal/cache"
	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/Domenick1991/roombooking/internal/pricing"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/Domenick1991/roombooking/internal/repository"
	"github.com/Domenick1991/roombooking/internal/service/booking"
	"github.com/Domenick1991/roombooking/internal/service/rooms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestServers(t *testing.T) *Servers {
	t.Helper()
	log := logger.Discard()
	store := repository.NewMemoryStore(repository.SeedRooms()...)
	version := cache.NewAtomicVersion()
	availability := cache.NewAvailabilityCache(store, cache.NewMemoryCache(), version, time.Minute, log)
	rel := reliability.NewManager(reliability.DefaultConfig(), reliability.WithLogger(log))
	engine := pricing.NewEngine()

	svc := Services{
		Rooms:       rooms.NewRoomService(availability, engine, rel, log),
		Bookings:    booking.NewBookingService(availability, store.Reservations(), engine, version, rel, booking.WithLogger(log)),
		Reliability: rel,
	}
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: ":0"}, GRPC: config.GRPCConfig{Address: ":0"}}
	return NewServers(cfg, svc, log)
}

func dialBufconn(t *testing.T, s *Servers) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.grpcServer.Serve(lis) }()
	t.Cleanup(s.grpcServer.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpcutil.CodecName)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPC_ReservationRoundTrip(t *testing.T) {
	conn := dialBufconn(t, newTestServers(t))
	ctx := context.Background()

	req := &bookingsapi.CreateReservationRequest{
		RoomID:         "room-001",
		Type:           "junior",
		CheckIn:        "2025-06-02",
		CheckOut:       "2025-06-04",
		Guests:         2,
		IdempotencyKey: "grpc-key-1",
	}
	var created bookingsapi.CreateReservationResponse
	require.NoError(t, conn.Invoke(ctx, "/roombooking.Bookings/CreateReservation", req, &created))
	assert.True(t, created.Created)
	require.NotNil(t, created.Reservation)
	assert.Equal(t, int64(12000), created.Reservation.TotalCents)

	var replay bookingsapi.CreateReservationResponse
	require.NoError(t, conn.Invoke(ctx, "/roombooking.Bookings/CreateReservation", req, &replay))
	assert.False(t, replay.Created)
	assert.Equal(t, created.Reservation.ID, replay.Reservation.ID)

	var got domain.Reservation
	require.NoError(t, conn.Invoke(ctx, "/roombooking.Bookings/GetReservation",
		&bookingsapi.GetReservationRequest{ID: created.Reservation.ID}, &got))
	assert.Equal(t, "room-001", got.RoomID)

	req.IdempotencyKey = "grpc-key-2"
	err := conn.Invoke(ctx, "/roombooking.Bookings/CreateReservation", req, &created)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	req.IdempotencyKey = ""
	err = conn.Invoke(ctx, "/roombooking.Bookings/CreateReservation", req, &created)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = conn.Invoke(ctx, "/roombooking.Bookings/GetReservation", &bookingsapi.GetReservationRequest{ID: "missing"}, &got)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPC_RoomsQuoteAndSearch(t *testing.T) {
	conn := dialBufconn(t, newTestServers(t))
	ctx := context.Background()

	var q domain.Quote
	require.NoError(t, conn.Invoke(ctx, "/roombooking.Rooms/Quote", &roomsapi.QuoteRequest{
		Type: "king", CheckIn: "2025-06-06", CheckOut: "2025-06-08", Guests: 2, Breakfast: true,
	}, &q))
	assert.Equal(t, 2, q.Nights)
	assert.Equal(t, int64(22250), q.TotalCents)

	var res rooms.SearchResult
	require.NoError(t, conn.Invoke(ctx, "/roombooking.Rooms/SearchRooms", &roomsapi.SearchRoomsRequest{
		CheckIn: "2025-06-02", CheckOut: "2025-06-04", Guests: 5,
	}, &res))
	require.Len(t, res.Rooms, 1)
	assert.Equal(t, "room-006", res.Rooms[0].RoomID)

	err := conn.Invoke(ctx, "/roombooking.Rooms/SearchRooms", &roomsapi.SearchRoomsRequest{
		CheckIn: "2025-06-04", CheckOut: "2025-06-02", Guests: 1,
	}, &res)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_Health(t *testing.T) {
	conn := dialBufconn(t, newTestServers(t))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: bookingsapi.ServiceName}, grpc.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func TestHTTPHandlerMounted(t *testing.T) {
	s := newTestServers(t)

	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}, GRPC: config.GRPCConfig{Address: "127.0.0.1:0"}}
	log := logger.Discard()
	store := repository.NewMemoryStore(repository.SeedRooms()...)
	rel := reliability.NewManager(reliability.DefaultConfig())
	engine := pricing.NewEngine()
	svc := Services{
		Rooms:       rooms.NewRoomService(store, engine, rel, log),
		Bookings:    booking.NewBookingService(store, store.Reservations(), engine, cache.NewAtomicVersion(), rel),
		Reliability: rel,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, svc, log) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
