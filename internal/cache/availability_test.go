package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoomFinder struct {
	mock.Mock
}

func (m *MockRoomFinder) FindAvailable(ctx context.Context, params domain.FindAvailableParams) (domain.RoomPage, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.RoomPage), args.Error(1)
}

func (m *MockRoomFinder) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Bool(1), args.Error(2)
}

func (m *MockBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockBackend) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type failingVersion struct{}

func (failingVersion) Current(context.Context) (int64, error) { return 0, errors.New("redis down") }
func (failingVersion) Bump(context.Context) (int64, error)    { return 0, errors.New("redis down") }

func searchParams() domain.FindAvailableParams {
	return domain.FindAvailableParams{
		CheckIn:  time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC),
		Guests:   2,
	}
}

func samplePage() domain.RoomPage {
	return domain.RoomPage{Rooms: []domain.Room{
		{ID: "room-001", Type: domain.RoomTypeJunior, Capacity: 2, BaseRateCents: 6000, Active: true},
	}}
}

func TestAvailabilityCache_HitAfterMiss(t *testing.T) {
	inner := &MockRoomFinder{}
	c := NewAvailabilityCache(inner, NewMemoryCache(), NewAtomicVersion(), time.Minute, logger.Discard())
	ctx := context.Background()
	params := searchParams()

	inner.On("FindAvailable", ctx, params).Return(samplePage(), nil).Once()

	first, err := c.FindAvailable(ctx, params)
	require.NoError(t, err)
	second, err := c.FindAvailable(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, Stats{Hits: 1, Misses: 1, HitRate: 0.5}, c.Stats())
	inner.AssertExpectations(t)
}

func TestAvailabilityCache_VersionBumpRecomputes(t *testing.T) {
	inner := &MockRoomFinder{}
	backend := NewMemoryCache()
	c := NewAvailabilityCache(inner, backend, NewAtomicVersion(), time.Minute, logger.Discard())
	ctx := context.Background()
	params := searchParams()

	inner.On("FindAvailable", ctx, params).Return(samplePage(), nil).Twice()

	_, err := c.FindAvailable(ctx, params)
	require.NoError(t, err)

	v, err := c.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	_, err = c.FindAvailable(ctx, params)
	require.NoError(t, err)

	assert.Equal(t, 2, backend.Len(), "stale entry is left to expire")
	assert.Equal(t, int64(2), c.Stats().Misses)
	inner.AssertExpectations(t)
}

func TestAvailabilityCache_DistinctParamsDistinctKeys(t *testing.T) {
	p := searchParams()
	king := domain.RoomTypeKing
	q := p
	q.Type = &king
	r := p
	r.Cursor = "room-002"

	assert.NotEqual(t, AvailabilityKey(1, p), AvailabilityKey(1, q))
	assert.NotEqual(t, AvailabilityKey(1, p), AvailabilityKey(1, r))
	assert.NotEqual(t, AvailabilityKey(1, p), AvailabilityKey(2, p))
	assert.Equal(t, AvailabilityKey(3, p), AvailabilityKey(3, p))
	assert.Contains(t, AvailabilityKey(3, p), "avail:v3:")

	explicit := p
	explicit.Limit = domain.DefaultSearchLimit
	assert.Equal(t, AvailabilityKey(1, p), AvailabilityKey(1, explicit))
}

func TestAvailabilityCache_BackendErrorsFallBackToStore(t *testing.T) {
	inner := &MockRoomFinder{}
	backend := &MockBackend{}
	c := NewAvailabilityCache(inner, backend, NewAtomicVersion(), time.Minute, logger.Discard())
	ctx := context.Background()
	params := searchParams()

	backend.On("Get", ctx, mock.Anything).Return(nil, false, errors.New("timeout")).Once()
	backend.On("Set", ctx, mock.Anything, mock.Anything, time.Minute).Return(errors.New("timeout")).Once()
	inner.On("FindAvailable", ctx, params).Return(samplePage(), nil).Once()

	page, err := c.FindAvailable(ctx, params)
	require.NoError(t, err)
	assert.Len(t, page.Rooms, 1)

	backend.AssertExpectations(t)
	inner.AssertExpectations(t)
}

func TestAvailabilityCache_VersionErrorBypassesCache(t *testing.T) {
	inner := &MockRoomFinder{}
	backend := &MockBackend{}
	c := NewAvailabilityCache(inner, backend, failingVersion{}, time.Minute, logger.Discard())
	ctx := context.Background()
	params := searchParams()

	inner.On("FindAvailable", ctx, params).Return(samplePage(), nil).Once()

	_, err := c.FindAvailable(ctx, params)
	require.NoError(t, err)

	backend.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	assert.Equal(t, Stats{}, c.Stats())
}

func TestAvailabilityCache_StoreErrorIsNotCached(t *testing.T) {
	inner := &MockRoomFinder{}
	backend := NewMemoryCache()
	c := NewAvailabilityCache(inner, backend, NewAtomicVersion(), time.Minute, logger.Discard())
	ctx := context.Background()
	params := searchParams()

	inner.On("FindAvailable", ctx, params).Return(domain.RoomPage{}, errors.New("db down")).Once()

	_, err := c.FindAvailable(ctx, params)
	assert.EqualError(t, err, "db down")
	assert.Equal(t, 0, backend.Len())
}

func TestAvailabilityCache_GetByIDPassesThrough(t *testing.T) {
	inner := &MockRoomFinder{}
	c := NewAvailabilityCache(inner, NewMemoryCache(), NewAtomicVersion(), 0, logger.Discard())
	ctx := context.Background()

	room := &domain.Room{ID: "room-006", Type: domain.RoomTypePresidential, Capacity: 6}
	inner.On("GetByID", ctx, "room-006").Return(room, nil).Once()

	got, err := c.GetByID(ctx, "room-006")
	require.NoError(t, err)
	assert.Equal(t, room, got)
	assert.Equal(t, DefaultAvailabilityTTL, c.ttl)
}

func TestStats_EmptyHitRate(t *testing.T) {
	c := NewAvailabilityCache(&MockRoomFinder{}, NewMemoryCache(), NewAtomicVersion(), time.Minute, logger.Discard())
	assert.Equal(t, 0.0, c.Stats().HitRate)
}
