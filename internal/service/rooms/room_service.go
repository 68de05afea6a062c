package rooms

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/roombooking/internal/cache"
	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/Domenick1991/roombooking/internal/pricing"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/Domenick1991/roombooking/internal/repository"
	"github.com/go-playground/validator/v10"
)

const (
	MaxStayNights = 30
	MaxPageLimit  = 100
)

type RoomUseCase interface {
	Search(ctx context.Context, input SearchInput) (*SearchResult, error)
	Quote(ctx context.Context, input QuoteInput) (*domain.Quote, error)
	CacheStats() cache.Stats
}

type SearchInput struct {
	CheckIn          time.Time        `validate:"required"`
	CheckOut         time.Time        `validate:"required"`
	Guests           int              `validate:"gte=1"`
	Type             *domain.RoomType `validate:"omitempty"`
	Breakfast        bool
	IncludeBreakdown bool
	Limit            int `validate:"gte=0,lte=100"`
	Cursor           string
}

type QuoteInput struct {
	Type      domain.RoomType `json:"type" validate:"required"`
	CheckIn   time.Time       `json:"checkIn" validate:"required"`
	CheckOut  time.Time       `json:"checkOut" validate:"required"`
	Guests    int             `json:"guests" validate:"gte=1"`
	Breakfast bool            `json:"breakfast"`
}

type AvailableRoom struct {
	RoomID             string                  `json:"roomId"`
	Type               domain.RoomType         `json:"type"`
	Capacity           int                     `json:"capacity"`
	BaseRateCents      int64                   `json:"baseRate"`
	PricePerNightCents int64                   `json:"pricePerNight"`
	TotalCents         int64                   `json:"totalPrice"`
	Nights             int                     `json:"nights"`
	Currency           string                  `json:"currency"`
	Breakdown          []domain.NightBreakdown `json:"breakdown,omitempty"`
}

type SearchResult struct {
	Rooms      []AvailableRoom `json:"rooms"`
	Limit      int             `json:"limit"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

type statsProvider interface {
	Stats() cache.Stats
}

type RoomService struct {
	finder      repository.RoomRepository
	pricing     pricing.Calculator
	reliability *reliability.Manager
	validate    *validator.Validate
	log         *logger.Logger
}

// NewRoomService takes the room finder, normally the availability cache
// wrapping the room store.
func NewRoomService(finder repository.RoomRepository, calc pricing.Calculator, rel *reliability.Manager, log *logger.Logger) *RoomService {
	return &RoomService{
		finder:      finder,
		pricing:     calc,
		reliability: rel,
		validate:    validator.New(),
		log:         log,
	}
}

func (s *RoomService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.WrapError(domain.KindInvalidInput, "invalid search request", err)
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, domain.NewError(domain.KindInvalidInput, "unknown room type "+string(*input.Type))
	}
	nights, err := stayNights(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	params := domain.FindAvailableParams{
		CheckIn:  domain.Day(input.CheckIn),
		CheckOut: domain.Day(input.CheckOut),
		Guests:   input.Guests,
		Type:     input.Type,
		Limit:    input.Limit,
		Cursor:   input.Cursor,
	}
	page, err := reliability.Execute(ctx, s.reliability, reliability.OpRoomSearch,
		func(ctx context.Context) (domain.RoomPage, error) {
			return s.finder.FindAvailable(ctx, params)
		})
	if err != nil {
		return nil, err
	}

	result := &SearchResult{
		Rooms:      make([]AvailableRoom, 0, len(page.Rooms)),
		Limit:      params.EffectiveLimit(),
		NextCursor: page.NextCursor,
	}
	for _, room := range page.Rooms {
		q, err := s.pricing.Quote(room.Type, params.CheckIn, params.CheckOut, input.Guests, input.Breakfast)
		if err != nil {
			return nil, fmt.Errorf("price room %s: %w", room.ID, err)
		}
		available := AvailableRoom{
			RoomID:             room.ID,
			Type:               room.Type,
			Capacity:           room.Capacity,
			BaseRateCents:      room.BaseRateCents,
			PricePerNightCents: perNight(q.TotalCents, nights),
			TotalCents:         q.TotalCents,
			Nights:             q.Nights,
			Currency:           q.Currency,
		}
		if input.IncludeBreakdown {
			available.Breakdown = q.PerNight
		}
		result.Rooms = append(result.Rooms, available)
	}
	return result, nil
}

func (s *RoomService) Quote(ctx context.Context, input QuoteInput) (*domain.Quote, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.WrapError(domain.KindInvalidInput, "invalid quote request", err)
	}
	if _, err := stayNights(input.CheckIn, input.CheckOut); err != nil {
		return nil, err
	}
	q, err := reliability.Execute(ctx, s.reliability, reliability.OpPricingCalculation,
		func(context.Context) (domain.Quote, error) {
			return s.pricing.Quote(input.Type, input.CheckIn, input.CheckOut, input.Guests, input.Breakfast)
		})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *RoomService) CacheStats() cache.Stats {
	if sp, ok := s.finder.(statsProvider); ok {
		return sp.Stats()
	}
	return cache.Stats{}
}

func stayNights(checkIn, checkOut time.Time) (int, error) {
	nights := domain.Nights(checkIn, checkOut)
	if nights < 1 {
		return 0, domain.ErrInvalidRange
	}
	if nights > MaxStayNights {
		return 0, domain.NewError(domain.KindInvalidInput, fmt.Sprintf("stay cannot exceed %d nights", MaxStayNights))
	}
	return nights, nil
}

func perNight(total int64, nights int) int64 {
	n := int64(nights)
	return (total + n/2) / n
}

var _ RoomUseCase = (*RoomService)(nil)
