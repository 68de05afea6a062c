package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
)

type RoomRepository interface {
	FindAvailable(ctx context.Context, params domain.FindAvailableParams) (domain.RoomPage, error)
	// GetByID returns nil, nil when the room does not exist.
	GetByID(ctx context.Context, id string) (*domain.Room, error)
}

type CreateReservationParams struct {
	ID             string
	RoomID         string
	Type           domain.RoomType
	Guests         int
	Breakfast      bool
	CheckIn        time.Time
	CheckOut       time.Time
	TotalCents     int64
	IdempotencyKey string
}

type ReservationRepository interface {
	// Create re-checks overlap and inserts under a per-room lock. When another
	// request already stored the idempotency key, that reservation is returned
	// with created=false.
	Create(ctx context.Context, params CreateReservationParams) (res *domain.Reservation, created bool, err error)
	// GetByID and FindByIdempotencyKey return nil, nil when nothing matches.
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error)
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
}
