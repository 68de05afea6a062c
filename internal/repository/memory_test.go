package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(d int) time.Time {
	return time.Date(2024, 12, d, 0, 0, 0, 0, time.UTC)
}

func booking(id, roomID string, in, out int, key string) CreateReservationParams {
	return CreateReservationParams{
		ID:             id,
		RoomID:         roomID,
		Type:           domain.RoomTypeJunior,
		Guests:         2,
		CheckIn:        dec(in),
		CheckOut:       dec(out),
		TotalCents:     12000,
		IdempotencyKey: key,
	}
}

func TestMemoryStore_FindAvailable_Filters(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	inactive := domain.Room{ID: "room-007", Type: domain.RoomTypeKing, Capacity: 8, BaseRateCents: 9000}
	store.PutRoom(inactive)
	ctx := context.Background()

	page, err := store.FindAvailable(ctx, domain.FindAvailableParams{CheckIn: dec(1), CheckOut: dec(3), Guests: 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"room-005", "room-006"}, roomIDs(page.Rooms))

	king := domain.RoomTypeKing
	page, err = store.FindAvailable(ctx, domain.FindAvailableParams{CheckIn: dec(1), CheckOut: dec(3), Guests: 1, Type: &king})
	require.NoError(t, err)
	assert.Equal(t, []string{"room-003", "room-004", "room-005"}, roomIDs(page.Rooms))
	assert.Empty(t, page.NextCursor)
}

func TestMemoryStore_FindAvailable_ExcludesBookedRooms(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	ctx := context.Background()

	_, created, err := store.Reservations().Create(ctx, booking("r1", "room-001", 5, 10, ""))
	require.NoError(t, err)
	require.True(t, created)

	junior := domain.RoomTypeJunior
	page, err := store.FindAvailable(ctx, domain.FindAvailableParams{CheckIn: dec(8), CheckOut: dec(12), Guests: 1, Type: &junior})
	require.NoError(t, err)
	assert.Equal(t, []string{"room-002"}, roomIDs(page.Rooms))

	page, err = store.FindAvailable(ctx, domain.FindAvailableParams{CheckIn: dec(10), CheckOut: dec(12), Guests: 1, Type: &junior})
	require.NoError(t, err)
	assert.Equal(t, []string{"room-001", "room-002"}, roomIDs(page.Rooms))
}

func TestMemoryStore_FindAvailable_Pagination(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	ctx := context.Background()
	params := domain.FindAvailableParams{CheckIn: dec(1), CheckOut: dec(2), Guests: 1, Limit: 4}

	page, err := store.FindAvailable(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"room-001", "room-002", "room-003", "room-004"}, roomIDs(page.Rooms))
	assert.Equal(t, "room-004", page.NextCursor)

	params.Cursor = page.NextCursor
	page, err = store.FindAvailable(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, []string{"room-005", "room-006"}, roomIDs(page.Rooms))
	assert.Empty(t, page.NextCursor)
}

func TestMemoryStore_Create_Overlap(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	res := store.Reservations()
	ctx := context.Background()

	_, created, err := res.Create(ctx, booking("r1", "room-001", 5, 10, "k1"))
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = res.Create(ctx, booking("r2", "room-001", 8, 12, "k2"))
	assert.ErrorIs(t, err, domain.ErrDateOverlap)

	_, created, err = res.Create(ctx, booking("r3", "room-001", 10, 15, "k3"))
	require.NoError(t, err)
	assert.True(t, created)

	overlap, err := res.HasOverlap(ctx, "room-001", dec(1), dec(5))
	require.NoError(t, err)
	assert.False(t, overlap)
	overlap, err = res.HasOverlap(ctx, "room-001", dec(14), dec(16))
	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestMemoryStore_Create_IdempotencyKey(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	res := store.Reservations()
	ctx := context.Background()

	first, created, err := res.Create(ctx, booking("r1", "room-001", 5, 10, "same"))
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := res.Create(ctx, booking("r2", "room-002", 1, 3, "same"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	found, err := res.FindByIdempotencyKey(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, first, found)

	missing, err := res.FindByIdempotencyKey(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_Create_UnknownRoom(t *testing.T) {
	store := NewMemoryStore()
	_, _, err := store.Reservations().Create(context.Background(), booking("r1", "room-404", 1, 2, ""))
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestMemoryStore_Create_ConcurrentOverlapping(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	res := store.Reservations()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, ok, err := res.Create(ctx, booking(fmt.Sprintf("r%d", i), "room-003", 5, 10, ""))
			if err == nil && ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestMemoryStore_GetByID(t *testing.T) {
	store := NewMemoryStore(SeedRooms()...)
	ctx := context.Background()

	room, err := store.GetByID(ctx, "room-006")
	require.NoError(t, err)
	assert.Equal(t, int64(15000), room.BaseRateCents)

	room, err = store.GetByID(ctx, "room-999")
	require.NoError(t, err)
	assert.Nil(t, room)

	created, _, err := store.Reservations().Create(ctx, booking("r1", "room-002", 1, 2, ""))
	require.NoError(t, err)
	got, err := store.Reservations().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, domain.ReservationStatusConfirmed, got.Status)
}

func roomIDs(rooms []domain.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}
