package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *PGRoomRepository {
	return &PGRoomRepository{db: db}
}

const findAvailableRoomsSQL = `
SELECT r.id, r.type, r.capacity, r.base_rate_cents, r.active
FROM rooms r
WHERE r.active
  AND r.capacity >= $1
  AND ($2::text IS NULL OR r.type = $2)
  AND r.id > $3
  AND NOT EXISTS (
    SELECT 1 FROM reservations s
    WHERE s.room_id = r.id
      AND s.status <> 'CANCELLED'
      AND s.check_in < $5
      AND s.check_out > $4
  )
ORDER BY r.id
LIMIT $6`

// FindAvailable fetches one row past the limit to learn whether another page exists.
func (r *PGRoomRepository) FindAvailable(ctx context.Context, p domain.FindAvailableParams) (domain.RoomPage, error) {
	limit := p.EffectiveLimit()
	var roomType *string
	if p.Type != nil {
		t := string(*p.Type)
		roomType = &t
	}

	rows, err := r.db.Query(ctx, findAvailableRoomsSQL,
		p.Guests, roomType, p.Cursor, domain.Day(p.CheckIn), domain.Day(p.CheckOut), limit+1)
	if err != nil {
		return domain.RoomPage{}, err
	}
	defer rows.Close()

	rooms := make([]domain.Room, 0, limit+1)
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Type, &room.Capacity, &room.BaseRateCents, &room.Active); err != nil {
			return domain.RoomPage{}, err
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return domain.RoomPage{}, err
	}
	return paginate(rooms, limit), nil
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, type, capacity, base_rate_cents, active FROM rooms WHERE id=$1`, id)
	var room domain.Room
	if err := row.Scan(&room.ID, &room.Type, &room.Capacity, &room.BaseRateCents, &room.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func paginate(rooms []domain.Room, limit int) domain.RoomPage {
	if len(rooms) <= limit {
		return domain.RoomPage{Rooms: rooms}
	}
	rooms = rooms[:limit]
	return domain.RoomPage{Rooms: rooms, NextCursor: rooms[len(rooms)-1].ID}
}

var _ RoomRepository = (*PGRoomRepository)(nil)
