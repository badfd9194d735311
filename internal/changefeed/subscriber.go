package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"screen-star/internal/availability"
	"screen-star/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Subscriber struct {
	sub message.Subscriber
	log *zap.Logger
}

func NewSubscriber(sub message.Subscriber, log *zap.Logger) *Subscriber {
	return &Subscriber{sub: sub, log: log.With(zap.String("component", "changefeed"))}
}

// BookedSeats streams booked-seat inserts for one showtime as hints. The
// channel closes when ctx is done or the underlying subscription ends.
func (s *Subscriber) BookedSeats(ctx context.Context, showtimeID uuid.UUID) (<-chan availability.Notification, error) {
	topic := BookedSeatsTopic(showtimeID)
	messages, err := s.sub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
	}

	out := make(chan availability.Notification)
	go func() {
		defer close(out)
		for msg := range messages {
			hint, ok := s.decodeBookedSeat(msg)
			// malformed payloads are acked so they are not redelivered forever
			msg.Ack()
			if !ok {
				continue
			}
			metrics.ChangeReceived(TableBookedSeats)

			select {
			case out <- hint:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (s *Subscriber) decodeBookedSeat(msg *message.Message) (availability.Hint, bool) {
	var change Change
	if err := json.Unmarshal(msg.Payload, &change); err != nil {
		s.log.Warn("Dropping malformed change", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return availability.Hint{}, false
	}
	if change.Table != TableBookedSeats || change.Op != OpInsert {
		return availability.Hint{}, false
	}

	var row BookedSeatRow
	if err := json.Unmarshal(change.Row, &row); err != nil {
		s.log.Warn("Dropping malformed booked seat row", zap.String("message_uuid", msg.UUID), zap.Error(err))
		return availability.Hint{}, false
	}
	return row.Hint(), true
}

func (s *Subscriber) Close() error {
	return s.sub.Close()
}
