package flights

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
	"github.com/orenshv/flightsdb/internal/validate"
)

type FlightUseCase interface {
	List(ctx context.Context, pg *repository.Paginator) ([]domain.Record, error)
	GetByID(ctx context.Context, id int64) (domain.Record, error)
	Search(ctx context.Context, query repository.FlightQuery, pg *repository.Paginator) ([]domain.Record, error)
	Create(ctx context.Context, input CreateFlightInput) (domain.Record, domain.FieldErrors, error)
	Cancel(ctx context.Context, id int64) (domain.Record, error)
	ArrivalsBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
	DeparturesBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
}

// Store is the slice of the repository the flight service depends on.
type Store interface {
	ListAll(ctx context.Context, kind domain.Kind, pg *repository.Paginator) ([]domain.Record, error)
	GetByID(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error)
	Create(ctx context.Context, kind domain.Kind, fields domain.Record) (domain.Record, domain.FieldErrors, error)
	CancelFlight(ctx context.Context, flightID int64) (domain.Record, error)
	GetFlightsByParameters(ctx context.Context, q repository.FlightQuery, pg *repository.Paginator) ([]domain.Record, error)
	GetArrivalFlights(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
	GetDepartureFlights(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error)
	InstanceExists(ctx context.Context, kind domain.Kind, id int64) (bool, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Record, error)
	SetFlights(ctx context.Context, flights []domain.Record) error
	InvalidateFlights(ctx context.Context) error
}

type CreateFlightInput struct {
	AirlineID            int64     `json:"airline_id" validate:"required,gt=0"`
	OriginCountryID      int64     `json:"origin_country_id" validate:"required,gt=0"`
	DestinationCountryID int64     `json:"destination_country_id" validate:"required,gt=0"`
	DepartureAt          time.Time `json:"departure_at" validate:"required"`
	ArrivalAt            time.Time `json:"arrival_at" validate:"required,gtfield=DepartureAt"`
	TotalSeats           int       `json:"total_seats" validate:"required,gt=0"`
}

type Service struct {
	store    Store
	cache    Cache
	validate *validator.Validate
	log      *zap.Logger
}

func NewService(store Store, cache Cache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, validate: validate.New(), log: log}
}

// List returns all flights. The unpaginated list is served from the cache
// when possible; paginated requests always hit the store so Total stays exact.
func (s *Service) List(ctx context.Context, pg *repository.Paginator) ([]domain.Record, error) {
	if s.cache != nil && !pg.Bounded() {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			if pg != nil {
				pg.Total = int64(len(cached))
			}
			return cached, nil
		}
	}

	flights, err := s.store.ListAll(ctx, domain.KindFlight, pg)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && !pg.Bounded() {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	return s.store.GetByID(ctx, domain.KindFlight, id)
}

func (s *Service) Search(ctx context.Context, query repository.FlightQuery, pg *repository.Paginator) ([]domain.Record, error) {
	return s.store.GetFlightsByParameters(ctx, query, pg)
}

// Create validates the input shape, verifies the referenced airline and
// countries exist, then persists the flight.
func (s *Service) Create(ctx context.Context, input CreateFlightInput) (domain.Record, domain.FieldErrors, error) {
	if ferrs := validate.Fields(s.validate, input); ferrs != nil {
		return nil, ferrs, nil
	}

	ferrs := domain.FieldErrors{}
	for field, ref := range map[string]struct {
		kind domain.Kind
		id   int64
	}{
		"airline_id":             {domain.KindAirline, input.AirlineID},
		"origin_country_id":      {domain.KindCountry, input.OriginCountryID},
		"destination_country_id": {domain.KindCountry, input.DestinationCountryID},
	} {
		exists, err := s.store.InstanceExists(ctx, ref.kind, ref.id)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			ferrs.Add(field, "referenced instance does not exist")
		}
	}
	if len(ferrs) > 0 {
		return nil, ferrs, nil
	}

	flight, ferrs, err := s.store.Create(ctx, domain.KindFlight, domain.Record{
		"airline_id":             input.AirlineID,
		"origin_country_id":      input.OriginCountryID,
		"destination_country_id": input.DestinationCountryID,
		"departure_at":           input.DepartureAt,
		"arrival_at":             input.ArrivalAt,
		"total_seats":            input.TotalSeats,
	})
	if err != nil || ferrs != nil {
		return nil, ferrs, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return flight, nil, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (domain.Record, error) {
	flight, err := s.store.CancelFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	s.log.Info("flight cancelled", zap.Int64("flight_id", id))
	return flight, nil
}

func (s *Service) ArrivalsBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	return s.store.GetArrivalFlights(ctx, countryID, pg)
}

func (s *Service) DeparturesBoard(ctx context.Context, countryID int64, pg *repository.Paginator) ([]domain.Record, error) {
	return s.store.GetDepartureFlights(ctx, countryID, pg)
}

var _ FlightUseCase = (*Service)(nil)
