package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/orenshv/flightsdb/internal/domain"
)

// Entity-specific read helpers. Each one is a filter over the base list
// operation with the same pagination contract.

// FlightQuery filters flights by any combination of parameters; zero values
// are ignored.
type FlightQuery struct {
	OriginCountryID      int64
	DestinationCountryID int64
	AirlineID            int64
	Date                 time.Time
	AllowCancelled       bool
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (domain.Record, error) {
	return r.firstRecord(ctx, domain.KindUser, "SELECT * FROM users WHERE username = $1", username)
}

func (r *Repository) GetAirlineByUsername(ctx context.Context, username string) (domain.Record, error) {
	return r.firstRecord(ctx, domain.KindAirline,
		"SELECT airlines.* FROM airlines JOIN users ON users.id = airlines.user_id WHERE users.username = $1", username)
}

func (r *Repository) GetCustomerByUsername(ctx context.Context, username string) (domain.Record, error) {
	return r.firstRecord(ctx, domain.KindCustomer,
		"SELECT customers.* FROM customers JOIN users ON users.id = customers.user_id WHERE users.username = $1", username)
}

// GetProfileByUserID fetches the profile of the given kind owned by a user.
// Only the profile kinds carry a user reference.
func (r *Repository) GetProfileByUserID(ctx context.Context, kind domain.Kind, userID int64) (domain.Record, error) {
	if kind != domain.KindAdmin && kind != domain.KindAirline && kind != domain.KindCustomer {
		return nil, fmt.Errorf("%w: %s has no user reference", domain.ErrUnknownKind, kind)
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, userID)
	}
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return r.firstRecord(ctx, kind, fmt.Sprintf("SELECT * FROM %s WHERE user_id = $1", d.Table), userID)
}

func (r *Repository) GetFlightsByParameters(ctx context.Context, q FlightQuery, pg *Paginator) ([]domain.Record, error) {
	where := "WHERE TRUE"
	args := make([]any, 0, 4)
	if q.OriginCountryID > 0 {
		args = append(args, q.OriginCountryID)
		where += fmt.Sprintf(" AND origin_country_id = $%d", len(args))
	}
	if q.DestinationCountryID > 0 {
		args = append(args, q.DestinationCountryID)
		where += fmt.Sprintf(" AND destination_country_id = $%d", len(args))
	}
	if q.AirlineID > 0 {
		args = append(args, q.AirlineID)
		where += fmt.Sprintf(" AND airline_id = $%d", len(args))
	}
	if !q.Date.IsZero() {
		args = append(args, q.Date)
		where += fmt.Sprintf(" AND departure_at::date = $%d::date", len(args))
	}
	if !q.AllowCancelled {
		where += " AND NOT is_cancelled"
	}
	return r.listFlights(ctx, pg, where, args)
}

func (r *Repository) GetFlightsByAirline(ctx context.Context, airlineID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg, "WHERE airline_id = $1", []any{airlineID})
}

func (r *Repository) GetFlightsByOrigin(ctx context.Context, countryID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg, "WHERE origin_country_id = $1", []any{countryID})
}

func (r *Repository) GetFlightsByDestination(ctx context.Context, countryID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg, "WHERE destination_country_id = $1", []any{countryID})
}

func (r *Repository) GetFlightsByDepartureDate(ctx context.Context, date time.Time, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg, "WHERE departure_at::date = $1::date", []any{date})
}

func (r *Repository) GetFlightsByArrivalDate(ctx context.Context, date time.Time, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg, "WHERE arrival_at::date = $1::date", []any{date})
}

func (r *Repository) GetFlightsByCustomer(ctx context.Context, customerID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg,
		"JOIN tickets ON tickets.flight_id = flights.id WHERE tickets.customer_id = $1", []any{customerID})
}

// GetArrivalFlights returns flights arriving in a country within the next
// twelve hours.
func (r *Repository) GetArrivalFlights(ctx context.Context, countryID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg,
		"WHERE destination_country_id = $1 AND arrival_at >= now() AND arrival_at <= now() + interval '12 hours'",
		[]any{countryID})
}

// GetDepartureFlights returns flights leaving a country within the next
// twelve hours.
func (r *Repository) GetDepartureFlights(ctx context.Context, countryID int64, pg *Paginator) ([]domain.Record, error) {
	return r.listFlights(ctx, pg,
		"WHERE origin_country_id = $1 AND departure_at >= now() AND departure_at <= now() + interval '12 hours'",
		[]any{countryID})
}

func (r *Repository) GetTicketsByCustomer(ctx context.Context, customerID int64, pg *Paginator) ([]domain.Record, error) {
	d, err := domain.Lookup(domain.KindTicket)
	if err != nil {
		return nil, err
	}
	return r.listRecords(ctx, d, pg, "ORDER BY id", "WHERE customer_id = $1", []any{customerID})
}

func (r *Repository) GetTicketsByFlight(ctx context.Context, flightID int64) ([]domain.Record, error) {
	d, err := domain.Lookup(domain.KindTicket)
	if err != nil {
		return nil, err
	}
	return r.listRecords(ctx, d, nil, "ORDER BY id", "WHERE flight_id = $1", []any{flightID})
}

func (r *Repository) GetAirlinesByCountry(ctx context.Context, countryID int64, pg *Paginator) ([]domain.Record, error) {
	d, err := domain.Lookup(domain.KindAirline)
	if err != nil {
		return nil, err
	}
	return r.listRecords(ctx, d, pg, "ORDER BY id", "WHERE country_id = $1", []any{countryID})
}

// GetAirlinesByName searches airlines by name substring. The term matches
// literally; LIKE metacharacters in it carry no wildcard meaning. Airlines
// whose user account is deactivated are excluded unless allowDeactivated is set.
func (r *Repository) GetAirlinesByName(ctx context.Context, name string, allowDeactivated bool, pg *Paginator) ([]domain.Record, error) {
	d, err := domain.Lookup(domain.KindAirline)
	if err != nil {
		return nil, err
	}
	where := "WHERE airlines.name ILIKE '%' || $1 || '%'"
	if !allowDeactivated {
		where = "JOIN users ON users.id = airlines.user_id " + where + " AND users.is_active"
	}
	return r.listRecords(ctx, d, pg, "ORDER BY airlines.id", where, []any{escapeLike(name)})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE pattern metacharacters in a search term.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *Repository) listFlights(ctx context.Context, pg *Paginator, where string, args []any) ([]domain.Record, error) {
	d, err := domain.Lookup(domain.KindFlight)
	if err != nil {
		return nil, err
	}
	return r.listRecords(ctx, d, pg, "ORDER BY departure_at, flights.id", where, args)
}

// firstRecord returns the first row of a query as a public Record, or an empty
// Record when nothing matches.
func (r *Repository) firstRecord(ctx context.Context, kind domain.Kind, sql string, args ...any) (domain.Record, error) {
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, err
	}
	recs, err := queryRecords(ctx, r.db, sql+" LIMIT 1", args...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return domain.Record{}, nil
	}
	return d.Public(recs[0]), nil
}
