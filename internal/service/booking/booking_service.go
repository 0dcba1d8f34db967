package booking

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/kafka"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/validate"
)

type BookingUseCase interface {
	IsBookable(ctx context.Context, flightID int64, seatCount int) (bool, string, error)
	Book(ctx context.Context, input BookInput) (domain.Record, domain.FieldErrors, error)
	Cancel(ctx context.Context, ticketID int64) (domain.Record, error)
	TicketsByCustomer(ctx context.Context, customerID int64, pg *repository.Paginator) ([]domain.Record, error)
}

// Store is the slice of the repository the booking service depends on.
type Store interface {
	IsBookable(ctx context.Context, flightID int64, seatCount int) (bool, string, error)
	BookTicket(ctx context.Context, flightID, customerID int64, seatCount int) (domain.Record, domain.FieldErrors, error)
	CancelTicket(ctx context.Context, ticketID int64) (domain.Record, error)
	GetTicketsByCustomer(ctx context.Context, customerID int64, pg *repository.Paginator) ([]domain.Record, error)
}

type Cache interface {
	AcquireBookingLock(ctx context.Context, flightID, customerID int64, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, flightID, customerID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookInput struct {
	FlightID   int64 `json:"flight_id" validate:"required,gt=0"`
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
	SeatCount  int   `json:"seat_count" validate:"required,gt=0"`
}

type Service struct {
	store    Store
	cache    Cache
	producer Producer
	topic    string
	lockTTL  time.Duration
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(store Store, cache Cache, producer Producer, topic string, lockTTL time.Duration, log *zap.Logger) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		producer: producer,
		topic:    topic,
		lockTTL:  lockTTL,
		validate: validate.New(),
		log:      log,
	}
}

func (s *Service) IsBookable(ctx context.Context, flightID int64, seatCount int) (bool, string, error) {
	return s.store.IsBookable(ctx, flightID, seatCount)
}

// Book reserves seats for a customer. The redis lock rejects rapid duplicate
// submissions early; the repository transaction enforces the capacity
// invariant and the one-ticket-per-customer constraint.
func (s *Service) Book(ctx context.Context, input BookInput) (domain.Record, domain.FieldErrors, error) {
	if ferrs := validate.Fields(s.validate, input); ferrs != nil {
		return nil, ferrs, nil
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, input.FlightID, input.CustomerID, s.lockTTL)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			ferrs := domain.FieldErrors{}
			ferrs.Add(domain.NonFieldErrors, "a booking for this flight is already in progress")
			return nil, ferrs, nil
		}
		locked = true
	}

	ticket, ferrs, err := s.store.BookTicket(ctx, input.FlightID, input.CustomerID, input.SeatCount)
	if err != nil || ferrs != nil {
		if locked {
			_ = s.cache.ReleaseBookingLock(ctx, input.FlightID, input.CustomerID)
		}
		return nil, ferrs, err
	}

	s.publish(ctx, "ticket_booked", ticket)
	if locked {
		_ = s.cache.ReleaseBookingLock(ctx, input.FlightID, input.CustomerID)
	}
	return ticket, nil, nil
}

func (s *Service) Cancel(ctx context.Context, ticketID int64) (domain.Record, error) {
	ticket, err := s.store.CancelTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "ticket_cancelled", ticket)
	return ticket, nil
}

func (s *Service) TicketsByCustomer(ctx context.Context, customerID int64, pg *repository.Paginator) ([]domain.Record, error) {
	return s.store.GetTicketsByCustomer(ctx, customerID, pg)
}

func (s *Service) publish(ctx context.Context, eventType string, ticket domain.Record) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.TicketEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		TicketID:   recordInt(ticket, "id"),
		FlightID:   recordInt(ticket, "flight_id"),
		CustomerID: recordInt(ticket, "customer_id"),
		SeatCount:  int(recordInt(ticket, "seat_count")),
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.topic, event.EventID, event); err != nil {
		s.log.Warn("failed to publish ticket event",
			zap.String("type", eventType),
			zap.Int64("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

func recordInt(rec domain.Record, field string) int64 {
	switch v := rec[field].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	default:
		return 0
	}
}

var _ BookingUseCase = (*Service)(nil)
