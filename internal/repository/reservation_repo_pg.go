package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reservationColumns = `id, room_id, type, guests, breakfast, check_in, check_out, total_cents, status, COALESCE(idempotency_key, ''), created_at`

const overlapSQL = `
SELECT EXISTS (
  SELECT 1 FROM reservations
  WHERE room_id = $1
    AND status <> 'CANCELLED'
    AND check_in < $3
    AND check_out > $2
)`

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txBeginner interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type PGReservationRepository struct {
	db txBeginner
}

func NewReservationRepository(db txBeginner) *PGReservationRepository {
	return &PGReservationRepository{db: db}
}

// Create serialises bookings per room with a row lock on the room, so two
// overlapping requests cannot both pass the overlap check.
func (r *PGReservationRepository) Create(ctx context.Context, p CreateReservationParams) (*domain.Reservation, bool, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	var roomID string
	if err := tx.QueryRow(ctx, `SELECT id FROM rooms WHERE id=$1 AND active FOR UPDATE`, p.RoomID).Scan(&roomID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, domain.ErrRoomNotFound
		}
		return nil, false, err
	}

	if p.IdempotencyKey != "" {
		existing, err := findByKey(ctx, tx, p.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	var overlap bool
	if err := tx.QueryRow(ctx, overlapSQL, p.RoomID, domain.Day(p.CheckIn), domain.Day(p.CheckOut)).Scan(&overlap); err != nil {
		return nil, false, err
	}
	if overlap {
		return nil, false, domain.ErrDateOverlap
	}

	var key *string
	if p.IdempotencyKey != "" {
		key = &p.IdempotencyKey
	}
	res, err := scanReservation(tx.QueryRow(ctx, `
		INSERT INTO reservations (id, room_id, type, guests, breakfast, check_in, check_out, total_cents, status, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING `+reservationColumns,
		p.ID, p.RoomID, p.Type, p.Guests, p.Breakfast, domain.Day(p.CheckIn), domain.Day(p.CheckOut),
		p.TotalCents, domain.ReservationStatusConfirmed, key))
	if err != nil {
		return nil, false, err
	}
	if res == nil {
		// A concurrent request for another room committed the same key first.
		winner, err := findByKey(ctx, tx, p.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if winner == nil {
			return nil, false, errors.New("idempotency conflict without a stored reservation")
		}
		return winner, false, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id))
}

func (r *PGReservationRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	return findByKey(ctx, r.db, key)
}

func (r *PGReservationRepository) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	var overlap bool
	err := r.db.QueryRow(ctx, overlapSQL, roomID, domain.Day(checkIn), domain.Day(checkOut)).Scan(&overlap)
	return overlap, err
}

func findByKey(ctx context.Context, q querier, key string) (*domain.Reservation, error) {
	return scanReservation(q.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE idempotency_key=$1`, key))
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(&res.ID, &res.RoomID, &res.Type, &res.Guests, &res.Breakfast, &res.CheckIn, &res.CheckOut,
		&res.TotalCents, &res.Status, &res.IdempotencyKey, &res.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &res, nil
}

var (
	_ ReservationRepository = (*PGReservationRepository)(nil)
	_ txBeginner            = (*pgxpool.Pool)(nil)
)
