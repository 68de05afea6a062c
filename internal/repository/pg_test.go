package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewRoomRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewRoomRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewReservationRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewReservationRepository(pool)
	assert.NotNil(t, repo)
}

func TestSeedRooms(t *testing.T) {
	rooms := SeedRooms()
	assert.Len(t, rooms, 6)
	for _, r := range rooms {
		assert.True(t, r.Active)
		assert.Positive(t, r.BaseRateCents)
	}
	assert.Equal(t, 6, rooms[5].Capacity)
}

func TestPaginate(t *testing.T) {
	rooms := SeedRooms()
	page := paginate(rooms[:3], 2)
	assert.Len(t, page.Rooms, 2)
	assert.Equal(t, "room-002", page.NextCursor)

	page = paginate(rooms[:2], 2)
	assert.Empty(t, page.NextCursor)
}
