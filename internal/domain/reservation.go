package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// Reservation occupies [CheckIn, CheckOut) of one room. CheckOut is exclusive.
type Reservation struct {
	ID             string            `json:"id"`
	RoomID         string            `json:"roomId"`
	Type           RoomType          `json:"type"`
	Guests         int               `json:"guests"`
	Breakfast      bool              `json:"breakfast"`
	CheckIn        time.Time         `json:"checkIn"`
	CheckOut       time.Time         `json:"checkOut"`
	TotalCents     int64             `json:"totalCents"`
	Status         ReservationStatus `json:"status"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Overlaps reports whether the stay [in, out) intersects this reservation.
// Back-to-back stays (out == CheckIn or in == CheckOut) do not overlap.
func (r Reservation) Overlaps(in, out time.Time) bool {
	return r.CheckIn.Before(out) && r.CheckOut.After(in)
}
