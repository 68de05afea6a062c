package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
)

// MemoryStore keeps rooms and reservations in process. One mutex covers both,
// which makes Create's overlap check and insert a single atomic step.
type MemoryStore struct {
	mu           sync.RWMutex
	rooms        map[string]domain.Room
	reservations map[string]*domain.Reservation
	byKey        map[string]string
	byRoom       map[string][]string
	now          func() time.Time
}

func NewMemoryStore(rooms ...domain.Room) *MemoryStore {
	s := &MemoryStore{
		rooms:        make(map[string]domain.Room, len(rooms)),
		reservations: make(map[string]*domain.Reservation),
		byKey:        make(map[string]string),
		byRoom:       make(map[string][]string),
		now:          time.Now,
	}
	for _, r := range rooms {
		s.rooms[r.ID] = r
	}
	return s
}

func (s *MemoryStore) PutRoom(room domain.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

func (s *MemoryStore) FindAvailable(_ context.Context, p domain.FindAvailableParams) (domain.RoomPage, error) {
	limit := p.EffectiveLimit()
	in, out := domain.Day(p.CheckIn), domain.Day(p.CheckOut)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rooms := make([]domain.Room, 0, limit+1)
	for _, id := range ids {
		room := s.rooms[id]
		if !room.Active || room.Capacity < p.Guests || id <= p.Cursor {
			continue
		}
		if p.Type != nil && room.Type != *p.Type {
			continue
		}
		if s.overlapLocked(id, in, out) {
			continue
		}
		rooms = append(rooms, room)
		if len(rooms) > limit {
			break
		}
	}
	return paginate(rooms, limit), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

// Reservations exposes the reservation side of the store.
func (s *MemoryStore) Reservations() ReservationRepository {
	return memoryReservations{s}
}

type memoryReservations struct {
	s *MemoryStore
}

func (m memoryReservations) Create(_ context.Context, p CreateReservationParams) (*domain.Reservation, bool, error) {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if room, ok := s.rooms[p.RoomID]; !ok || !room.Active {
		return nil, false, domain.ErrRoomNotFound
	}
	if p.IdempotencyKey != "" {
		if id, ok := s.byKey[p.IdempotencyKey]; ok {
			existing := *s.reservations[id]
			return &existing, false, nil
		}
	}
	in, out := domain.Day(p.CheckIn), domain.Day(p.CheckOut)
	if s.overlapLocked(p.RoomID, in, out) {
		return nil, false, domain.ErrDateOverlap
	}

	res := &domain.Reservation{
		ID:             p.ID,
		RoomID:         p.RoomID,
		Type:           p.Type,
		Guests:         p.Guests,
		Breakfast:      p.Breakfast,
		CheckIn:        in,
		CheckOut:       out,
		TotalCents:     p.TotalCents,
		Status:         domain.ReservationStatusConfirmed,
		IdempotencyKey: p.IdempotencyKey,
		CreatedAt:      s.now().UTC(),
	}
	s.reservations[res.ID] = res
	s.byRoom[res.RoomID] = append(s.byRoom[res.RoomID], res.ID)
	if res.IdempotencyKey != "" {
		s.byKey[res.IdempotencyKey] = res.ID
	}
	cp := *res
	return &cp, true, nil
}

func (m memoryReservations) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	s := m.s
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.reservations[id]
	if !ok {
		return nil, nil
	}
	cp := *res
	return &cp, nil
}

func (m memoryReservations) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	m.s.mu.RLock()
	id, ok := m.s.byKey[key]
	m.s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return m.GetByID(ctx, id)
}

func (m memoryReservations) HasOverlap(_ context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	return m.s.overlapLocked(roomID, domain.Day(checkIn), domain.Day(checkOut)), nil
}

func (s *MemoryStore) overlapLocked(roomID string, in, out time.Time) bool {
	for _, id := range s.byRoom[roomID] {
		res := s.reservations[id]
		if res.Status == domain.ReservationStatusCancelled {
			continue
		}
		if res.Overlaps(in, out) {
			return true
		}
	}
	return false
}

var (
	_ RoomRepository        = (*MemoryStore)(nil)
	_ ReservationRepository = memoryReservations{}
)
