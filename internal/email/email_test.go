package email

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/Domenick1991/roombooking/internal/kafka"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/stretchr/testify/assert"
)

func TestSender_Send(t *testing.T) {
	var buf bytes.Buffer
	s := NewSender(logger.New(log.New(&buf, "", 0), logger.LevelInfo))

	err := s.Send(context.Background(), kafka.ReservationEvent{
		Type:          kafka.EventReservationCreated,
		ReservationID: "res-1",
		RoomID:        "room-001",
		CheckIn:       "2024-12-05",
		CheckOut:      "2024-12-08",
		TotalCents:    18000,
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "reservation res-1, room room-001, 2024-12-05 to 2024-12-08")
}
