package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/pricing"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS rooms (
    id              TEXT PRIMARY KEY,
    type            TEXT NOT NULL CHECK (type IN ('junior', 'king', 'presidential')),
    capacity        INTEGER NOT NULL CHECK (capacity > 0),
    base_rate_cents BIGINT NOT NULL,
    active          BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS reservations (
    id              TEXT PRIMARY KEY,
    room_id         TEXT NOT NULL REFERENCES rooms(id),
    type            TEXT NOT NULL,
    guests          INTEGER NOT NULL,
    breakfast       BOOLEAN NOT NULL DEFAULT FALSE,
    check_in        DATE NOT NULL,
    check_out       DATE NOT NULL CHECK (check_out > check_in),
    total_cents     BIGINT NOT NULL,
    status          TEXT NOT NULL,
    idempotency_key TEXT UNIQUE,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS reservations_room_dates_idx ON reservations (room_id, check_in, check_out);
`

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// SeedRooms returns the default inventory.
func SeedRooms() []domain.Room {
	rooms := []domain.Room{
		{ID: "room-001", Type: domain.RoomTypeJunior, Capacity: 2},
		{ID: "room-002", Type: domain.RoomTypeJunior, Capacity: 2},
		{ID: "room-003", Type: domain.RoomTypeKing, Capacity: 3},
		{ID: "room-004", Type: domain.RoomTypeKing, Capacity: 3},
		{ID: "room-005", Type: domain.RoomTypeKing, Capacity: 4},
		{ID: "room-006", Type: domain.RoomTypePresidential, Capacity: 6},
	}
	for i := range rooms {
		rooms[i].BaseRateCents, _ = pricing.BaseRate(rooms[i].Type)
		rooms[i].Active = true
	}
	return rooms
}

func Seed(ctx context.Context, db *pgxpool.Pool, rooms []domain.Room) error {
	for _, room := range rooms {
		if _, err := db.Exec(ctx, `
			INSERT INTO rooms (id, type, capacity, base_rate_cents, active)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO NOTHING`,
			room.ID, room.Type, room.Capacity, room.BaseRateCents, room.Active); err != nil {
			return fmt.Errorf("seed room %s: %w", room.ID, err)
		}
	}
	return nil
}
