package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/kafka"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/Domenick1991/roombooking/internal/pricing"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/Domenick1991/roombooking/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	opRoomLookup        = reliability.OpReservationCreation + ":room"
	opIdempotencyLookup = reliability.OpReservationCreation + ":idempotency"
	opOverlapCheck      = reliability.OpReservationCreation + ":overlap"
	opPersist           = reliability.OpReservationCreation + ":persist"
	opReservationLookup = "reservation-lookup"
	opPublishEvent      = "external-service:kafka"
)

type BookingUseCase interface {
	CreateReservation(ctx context.Context, input CreateReservationInput) (*CreateResult, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
}

type RoomReader interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
}

// VersionBumper invalidates cached availability.
type VersionBumper interface {
	Bump(ctx context.Context) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type CreateReservationInput struct {
	RoomID         string          `json:"roomId" validate:"required"`
	Type           domain.RoomType `json:"type" validate:"required"`
	CheckIn        time.Time       `json:"checkIn" validate:"required"`
	CheckOut       time.Time       `json:"checkOut" validate:"required"`
	Guests         int             `json:"guests" validate:"gte=1"`
	Breakfast      bool            `json:"breakfast"`
	IdempotencyKey string          `json:"idempotencyKey" validate:"max=255"`
}

type CreateResult struct {
	Created     bool                `json:"created"`
	Reservation *domain.Reservation `json:"reservation"`
}

type BookingService struct {
	rooms        RoomReader
	reservations repository.ReservationRepository
	pricing      pricing.Calculator
	version      VersionBumper
	reliability  *reliability.Manager
	validate     *validator.Validate
	producer     EventPublisher
	eventsTopic  string
	log          *logger.Logger
	now          func() time.Time
	newID        func() string
}

type BookingServiceOption func(*BookingService)

func WithEventPublisher(producer EventPublisher, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.eventsTopic = topic
	}
}

func WithLogger(l *logger.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = l
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newID = newID
	}
}

func NewBookingService(
	rooms RoomReader,
	reservations repository.ReservationRepository,
	calc pricing.Calculator,
	version VersionBumper,
	rel *reliability.Manager,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		rooms:        rooms,
		reservations: reservations,
		pricing:      calc,
		version:      version,
		reliability:  rel,
		validate:     validator.New(),
		log:          logger.Default(),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateReservation books a room at most once per idempotency key. A repeated
// key returns the stored reservation with Created=false.
//
// Each store call runs as its own reservation-creation operation, so a retry
// repeats one call and never the version bump or the event.
func (s *BookingService) CreateReservation(ctx context.Context, input CreateReservationInput) (*CreateResult, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	room, err := reliability.Execute(ctx, s.reliability, opRoomLookup, func(ctx context.Context) (*domain.Room, error) {
		return s.rooms.GetByID(ctx, input.RoomID)
	})
	if err != nil {
		return nil, fmt.Errorf("load room %s: %w", input.RoomID, err)
	}
	if room == nil || !room.Active {
		return nil, domain.NewError(domain.KindRoomNotFound, "room "+input.RoomID+" not found")
	}
	if room.Type != input.Type {
		return nil, domain.NewError(domain.KindRoomTypeMismatch,
			fmt.Sprintf("room %s is %s, requested %s", room.ID, room.Type, input.Type))
	}
	if input.Guests > room.Capacity {
		return nil, domain.NewError(domain.KindOverCapacity,
			fmt.Sprintf("room %s fits %d guests, requested %d", room.ID, room.Capacity, input.Guests))
	}
	if domain.Nights(input.CheckIn, input.CheckOut) < 1 {
		return nil, domain.ErrInvalidRange
	}

	if input.IdempotencyKey != "" {
		existing, err := s.findByKey(ctx, input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &CreateResult{Created: false, Reservation: existing}, nil
		}
	}

	overlap, err := reliability.Execute(ctx, s.reliability, opOverlapCheck, func(ctx context.Context) (bool, error) {
		return s.reservations.HasOverlap(ctx, room.ID, input.CheckIn, input.CheckOut)
	})
	if err != nil {
		return nil, fmt.Errorf("check overlap: %w", err)
	}
	if overlap {
		return s.replayOrOverlap(ctx, input.IdempotencyKey)
	}

	quote, err := s.pricing.Quote(room.Type, input.CheckIn, input.CheckOut, input.Guests, input.Breakfast)
	if err != nil {
		return nil, err
	}

	res, created, err := s.persist(ctx, repository.CreateReservationParams{
		ID:             s.newID(),
		RoomID:         room.ID,
		Type:           room.Type,
		Guests:         input.Guests,
		Breakfast:      input.Breakfast,
		CheckIn:        domain.Day(input.CheckIn),
		CheckOut:       domain.Day(input.CheckOut),
		TotalCents:     quote.TotalCents,
		IdempotencyKey: input.IdempotencyKey,
	})
	if errors.Is(err, domain.ErrDateOverlap) {
		return s.replayOrOverlap(ctx, input.IdempotencyKey)
	}
	if err != nil {
		return nil, fmt.Errorf("store reservation: %w", err)
	}
	if !created {
		return &CreateResult{Created: false, Reservation: res}, nil
	}

	if v, err := s.version.Bump(ctx); err != nil {
		s.log.Errorf("bump availability version after reservation %s: %v", res.ID, err)
	} else {
		s.log.Debugf("availability version is now %d", v)
	}
	s.publish(ctx, kafka.EventReservationCreated, res)

	return &CreateResult{Created: true, Reservation: res}, nil
}

type stored struct {
	reservation *domain.Reservation
	created     bool
}

// persist writes the reservation. Every attempt carries the same ID, so a
// write committed by an attempt that timed out is still reported as created.
func (s *BookingService) persist(ctx context.Context, p repository.CreateReservationParams) (*domain.Reservation, bool, error) {
	out, err := reliability.Execute(ctx, s.reliability, opPersist, func(ctx context.Context) (stored, error) {
		res, created, err := s.reservations.Create(ctx, p)
		return stored{reservation: res, created: created}, err
	})
	if errors.Is(err, domain.ErrDateOverlap) {
		own, lookupErr := reliability.Execute(ctx, s.reliability, opPersist, func(ctx context.Context) (*domain.Reservation, error) {
			return s.reservations.GetByID(ctx, p.ID)
		})
		if lookupErr == nil && own != nil {
			return own, true, nil
		}
		return nil, false, err
	}
	if err != nil {
		return nil, false, err
	}
	if !out.created && out.reservation != nil && out.reservation.ID == p.ID {
		return out.reservation, true, nil
	}
	return out.reservation, out.created, nil
}

func (s *BookingService) findByKey(ctx context.Context, key string) (*domain.Reservation, error) {
	res, err := reliability.Execute(ctx, s.reliability, opIdempotencyLookup, func(ctx context.Context) (*domain.Reservation, error) {
		return s.reservations.FindByIdempotencyKey(ctx, key)
	})
	if err != nil {
		return nil, fmt.Errorf("lookup idempotency key: %w", err)
	}
	return res, nil
}

// replayOrOverlap resolves an overlap that may have been caused by a
// concurrent request carrying the same idempotency key.
func (s *BookingService) replayOrOverlap(ctx context.Context, key string) (*CreateResult, error) {
	if key != "" {
		existing, err := s.findByKey(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &CreateResult{Created: false, Reservation: existing}, nil
		}
	}
	return nil, domain.ErrDateOverlap
}

func (s *BookingService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	if id == "" {
		return nil, domain.NewError(domain.KindInvalidInput, "reservation id is required")
	}
	res, err := reliability.Execute(ctx, s.reliability, opReservationLookup,
		func(ctx context.Context) (*domain.Reservation, error) {
			return s.reservations.GetByID(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.NewError(domain.KindReservationNotFound, "reservation "+id+" not found")
	}
	return res, nil
}

func (s *BookingService) validateInput(input CreateReservationInput) error {
	if err := s.validate.Struct(input); err != nil {
		return domain.WrapError(domain.KindInvalidInput, "invalid reservation request", err)
	}
	if !input.Type.Valid() {
		return domain.NewError(domain.KindInvalidInput, "unknown room type "+string(input.Type))
	}
	return nil
}

// publish is best effort: a failed notification never fails the booking.
func (s *BookingService) publish(ctx context.Context, eventType string, res *domain.Reservation) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.NewReservationEvent(eventType, res, s.now())
	_, err := reliability.Execute(ctx, s.reliability, opPublishEvent, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.producer.Publish(ctx, s.eventsTopic, res.ID, event)
	}, reliability.WithMaxRetries(1))
	if err != nil {
		s.log.Warnf("failed to publish %s event for reservation %s: %v", eventType, res.ID, err)
	}
}

var _ BookingUseCase = (*BookingService)(nil)
