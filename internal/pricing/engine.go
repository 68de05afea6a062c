package pricing

import (
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
)

const (
	weekendUpliftPercent   = 25
	breakfastPerGuestCents = 500
)

var baseRates = map[domain.RoomType]int64{
	domain.RoomTypeJunior:       6000,
	domain.RoomTypeKing:         9000,
	domain.RoomTypePresidential: 15000,
}

// Calculator quotes stays. Engine is the only implementation; the interface
// lets services be tested without the real tariff.
type Calculator interface {
	Quote(roomType domain.RoomType, checkIn, checkOut time.Time, guests int, breakfast bool) (domain.Quote, error)
}

// Engine is stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// BaseRate returns the nightly rate for the tier in cents.
func BaseRate(roomType domain.RoomType) (int64, error) {
	rate, ok := baseRates[roomType]
	if !ok {
		return 0, domain.NewError(domain.KindInvalidInput, "unknown room type "+string(roomType))
	}
	return rate, nil
}

// LengthDiscount is the per-night discount for a stay of the given length.
func LengthDiscount(nights int) int64 {
	switch {
	case nights >= 10:
		return 1200
	case nights >= 7:
		return 800
	case nights >= 4:
		return 400
	default:
		return 0
	}
}

func weekendUplift(base int64) int64 {
	return (base*weekendUpliftPercent + 50) / 100
}

func (e *Engine) Quote(roomType domain.RoomType, checkIn, checkOut time.Time, guests int, breakfast bool) (domain.Quote, error) {
	base, err := BaseRate(roomType)
	if err != nil {
		return domain.Quote{}, err
	}

	in := domain.Day(checkIn)
	nights := domain.Nights(in, checkOut)
	if nights < 1 {
		return domain.Quote{}, domain.ErrInvalidRange
	}

	discount := LengthDiscount(nights)
	var breakfastCents int64
	if breakfast && guests > 0 {
		breakfastCents = breakfastPerGuestCents * int64(guests)
	}

	q := domain.Quote{
		Nights:   nights,
		Currency: domain.CurrencyUSD,
		PerNight: make([]domain.NightBreakdown, 0, nights),
	}
	for i := 0; i < nights; i++ {
		night := in.AddDate(0, 0, i)
		var uplift int64
		if wd := night.Weekday(); wd == time.Saturday || wd == time.Sunday {
			uplift = weekendUplift(base)
		}
		subtotal := base + uplift - discount + breakfastCents
		q.PerNight = append(q.PerNight, domain.NightBreakdown{
			Date:                night.Format(domain.DateLayout),
			BaseCents:           base,
			WeekendUpliftCents:  uplift,
			LengthDiscountCents: discount,
			BreakfastCents:      breakfastCents,
			SubtotalCents:       subtotal,
		})
		q.TotalCents += subtotal
	}
	return q, nil
}

var _ Calculator = (*Engine)(nil)
