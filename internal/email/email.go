package email

import (
	"context"

	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/kafka"
)

// Sender delivers booking notifications. The delivery itself is stubbed out
// to the log; the worker wiring around it is real.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	s.log.Info("sending booking notification",
		zap.String("type", event.Type),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("flight_id", event.FlightID),
		zap.Int64("customer_id", event.CustomerID),
		zap.Int("seat_count", event.SeatCount))
	return nil
}
