package email

import (
	"context"

	"github.com/Domenick1991/roombooking/internal/kafka"
	"github.com/Domenick1991/roombooking/internal/logger"
)

// Sender stands in for a mail gateway: it only logs what would be sent.
type Sender struct {
	log *logger.Logger
}

func NewSender(log *logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(_ context.Context, event kafka.ReservationEvent) error {
	s.log.Infof("notify guest about %s: reservation %s, room %s, %s to %s, total %d cents",
		event.Type, event.ReservationID, event.RoomID, event.CheckIn, event.CheckOut, event.TotalCents)
	return nil
}
