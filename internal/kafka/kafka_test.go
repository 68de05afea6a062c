package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWriter struct {
	mock.Mock
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockWriter) Close() error {
	return m.Called().Error(0)
}

type stubReader struct {
	msgs []kafka.Message
}

func (r *stubReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *stubReader) Close() error { return nil }

func sampleReservation() *domain.Reservation {
	return &domain.Reservation{
		ID:         "res-1",
		RoomID:     "room-003",
		Type:       domain.RoomTypeKing,
		Guests:     2,
		CheckIn:    time.Date(2024, 12, 5, 0, 0, 0, 0, time.UTC),
		CheckOut:   time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC),
		TotalCents: 27000,
		Status:     domain.ReservationStatusConfirmed,
	}
}

func TestProducer_Publish(t *testing.T) {
	w := &MockWriter{}
	p := &Producer{writer: w, log: logger.Discard()}
	ctx := context.Background()
	event := NewReservationEvent(EventReservationCreated, sampleReservation(), time.Now())

	w.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || msgs[0].Topic != "reservations" || string(msgs[0].Key) != "res-1" {
			return false
		}
		var got ReservationEvent
		return json.Unmarshal(msgs[0].Value, &got) == nil && got.CheckIn == "2024-12-05"
	})).Return(nil).Once()

	require.NoError(t, p.Publish(ctx, "reservations", "res-1", event))
	w.AssertExpectations(t)
}

func TestProducer_PublishError(t *testing.T) {
	w := &MockWriter{}
	p := &Producer{writer: w, log: logger.Discard()}

	w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := p.Publish(context.Background(), "reservations", "k", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "failed to write message to Kafka")
}

func TestProducer_CheckConnectionWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, logger.Discard())
	assert.Error(t, p.CheckConnection(context.Background()))
}

func TestConsumer_ConsumeReservations(t *testing.T) {
	good, _ := json.Marshal(NewReservationEvent(EventReservationCreated, sampleReservation(), time.Now()))
	c := &Consumer{
		reader: &stubReader{msgs: []kafka.Message{{Value: []byte("not json")}, {Value: good}}},
		log:    logger.Discard(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	var got []ReservationEvent
	err := c.ConsumeReservations(ctx, func(_ context.Context, e ReservationEvent) error {
		got = append(got, e)
		cancel()
		return nil
	})

	assert.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "res-1", got[0].ReservationID)
	assert.Equal(t, "king", got[0].RoomType)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	c := &Consumer{reader: &stubReader{msgs: []kafka.Message{{Value: []byte("{}")}}}, log: logger.Discard()}

	err := c.Consume(context.Background(), func(context.Context, kafka.Message) error {
		return errors.New("smtp down")
	})
	assert.EqualError(t, err, "smtp down")
}
