package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/roombooking/config"
	"github.com/Domenick1991/roombooking/internal/bootstrap"
	"github.com/Domenick1991/roombooking/internal/cache"
	"github.com/Domenick1991/roombooking/internal/kafka"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/Domenick1991/roombooking/internal/pricing"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/Domenick1991/roombooking/internal/repository"
	"github.com/Domenick1991/roombooking/internal/service/booking"
	"github.com/Domenick1991/roombooking/internal/service/rooms"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	l := logger.New(log.Default(), logger.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		roomRepo        repository.RoomRepository
		reservationRepo repository.ReservationRepository
	)
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()

		if cfg.Store.Migrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		if cfg.Store.Seed {
			if err := repository.Seed(ctx, pool, repository.SeedRooms()); err != nil {
				log.Fatalf("seed rooms: %v", err)
			}
		}
		roomRepo = repository.NewRoomRepository(pool)
		reservationRepo = repository.NewReservationRepository(pool)
	default:
		store := repository.NewMemoryStore(repository.SeedRooms()...)
		roomRepo = store
		reservationRepo = store.Reservations()
	}

	var redisClient *redis.Client
	if cfg.Cache.Backend == config.BackendRedis || cfg.Cache.Version == config.BackendRedis {
		redisClient = cache.NewRedisClient(cfg.Redis)
		defer redisClient.Close()
	}

	var backend cache.Backend = cache.NewMemoryCache()
	if cfg.Cache.Backend == config.BackendRedis {
		backend = cache.NewRedisCache(redisClient)
	}
	var version cache.VersionSource = cache.NewAtomicVersion()
	if cfg.Cache.Version == config.BackendRedis {
		version = cache.NewRedisVersion(redisClient)
	}
	availability := cache.NewAvailabilityCache(roomRepo, backend, version, cfg.Cache.TTL(), l)

	rel := reliability.NewManager(bootstrap.ReliabilityConfig(cfg.Reliability), reliability.WithLogger(l))
	engine := pricing.NewEngine()

	opts := []booking.BookingServiceOption{booking.WithLogger(l)}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, l)
		defer producer.Close()
		if err := producer.CheckConnection(ctx); err != nil {
			l.Warnf("kafka unavailable, events may be dropped: %v", err)
		}
		opts = append(opts, booking.WithEventPublisher(producer, cfg.Kafka.ReservationsTopic))
	}

	roomService := rooms.NewRoomService(availability, engine, rel, l)
	bookingService := booking.NewBookingService(availability, reservationRepo, engine, version, rel, opts...)

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Rooms:       roomService,
		Bookings:    bookingService,
		Reliability: rel,
	}, l); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
