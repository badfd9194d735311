package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"screen-star/internal/data/entity"
	"screen-star/pkg/metrics"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type Publisher struct {
	pub message.Publisher
	now func() time.Time
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub, now: time.Now}
}

// PublishBookedSeats emits one insert per seat on the seat's showtime topic.
func (p *Publisher) PublishBookedSeats(ctx context.Context, seats []*entity.BookedSeat) error {
	for _, seat := range seats {
		if err := p.publish(ctx, BookedSeatsTopic(seat.ShowtimeID), TableBookedSeats, OpInsert, NewBookedSeatRow(seat)); err != nil {
			return err
		}
	}
	return nil
}

// PublishShowtimes emits one change per showtime on its screen topic.
func (p *Publisher) PublishShowtimes(ctx context.Context, op Op, showtimes []*entity.Showtime) error {
	for _, s := range showtimes {
		if err := p.publish(ctx, ShowtimesTopic(s.ScreenID), TableShowtimes, op, NewShowtimeRow(s)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publish(ctx context.Context, topic, table string, op Op, row any) error {
	rowJSON, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal %s row: %w", table, err)
	}
	payload, err := json.Marshal(Change{Table: table, Op: op, At: p.now().UTC(), Row: rowJSON})
	if err != nil {
		return fmt.Errorf("marshal %s change: %w", table, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := p.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	metrics.ChangePublished(table)
	return nil
}

func (p *Publisher) Close() error {
	return p.pub.Close()
}
