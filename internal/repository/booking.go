package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
)

const (
	reasonNoFlight  = "the flight does not exist"
	reasonCancelled = "the flight was cancelled"
	reasonDeparted  = "the flight has already taken off"
	reasonBookable  = "the flight can be booked"
)

// IsBookable reports whether seatCount seats can currently be booked on a
// flight, with a caller-facing reason. This is an advisory read; BookTicket
// repeats the check under a row lock before inserting.
func (r *Repository) IsBookable(ctx context.Context, flightID int64, seatCount int) (bool, string, error) {
	if flightID <= 0 || seatCount <= 0 {
		return false, "", fmt.Errorf("%w: flight %d, %d seat(s)", ErrInputOutOfRange, flightID, seatCount)
	}
	return bookable(ctx, r.db, flightID, seatCount, false)
}

// BookTicket checks bookability and inserts the ticket inside one transaction,
// locking the flight row so concurrent bookings cannot oversell the flight.
// A rejected booking surfaces as *NotBookableError; a duplicate (flight,
// customer) pair surfaces as FieldErrors like any other uniqueness violation.
func (r *Repository) BookTicket(ctx context.Context, flightID, customerID int64, seatCount int) (domain.Record, domain.FieldErrors, error) {
	if flightID <= 0 || customerID <= 0 || seatCount <= 0 {
		return nil, nil, fmt.Errorf("%w: flight %d, customer %d, %d seat(s)", ErrInputOutOfRange, flightID, customerID, seatCount)
	}
	d, err := domain.Lookup(domain.KindTicket)
	if err != nil {
		return nil, nil, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	ok, reason, err := bookable(ctx, tx, flightID, seatCount, true)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &NotBookableError{Reason: reason}
	}

	rec, ferrs, err := createIn(ctx, tx, d, domain.Record{
		"flight_id":   flightID,
		"customer_id": customerID,
		"seat_count":  seatCount,
	})
	if err != nil || ferrs != nil {
		return nil, ferrs, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	r.log.Info("ticket booked",
		zap.Int64("flight_id", flightID),
		zap.Int64("customer_id", customerID),
		zap.Int("seat_count", seatCount))
	return rec, nil, nil
}

// CancelTicket soft-deletes a ticket, freeing its seats. Cancelling an already
// cancelled ticket is a no-op.
func (r *Repository) CancelTicket(ctx context.Context, ticketID int64) (domain.Record, error) {
	if ticketID <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, ticketID)
	}
	recs, err := queryRecords(ctx, r.db,
		"UPDATE tickets SET is_cancelled = true, updated_at = now() WHERE id = $1 RETURNING *", ticketID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: ticket #%d", ErrNotFound, ticketID)
	}
	return recs[0], nil
}

// CancelFlight soft-deletes a flight. Existing tickets keep their state; the
// capacity check rejects further bookings.
func (r *Repository) CancelFlight(ctx context.Context, flightID int64) (domain.Record, error) {
	if flightID <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, flightID)
	}
	recs, err := queryRecords(ctx, r.db,
		"UPDATE flights SET is_cancelled = true, updated_at = now() WHERE id = $1 RETURNING *", flightID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: flight #%d", ErrNotFound, flightID)
	}
	return recs[0], nil
}

// bookable runs the capacity checks in strict order: existence, cancellation,
// departure time, remaining seats. With forUpdate it locks the flight row for
// the duration of the surrounding transaction.
func bookable(ctx context.Context, q querier, flightID int64, seatCount int, forUpdate bool) (bool, string, error) {
	sql := "SELECT is_cancelled, departure_at, total_seats FROM flights WHERE id = $1"
	if forUpdate {
		sql += " FOR UPDATE"
	}

	var (
		cancelled   bool
		departureAt time.Time
		totalSeats  int
	)
	err := q.QueryRow(ctx, sql, flightID).Scan(&cancelled, &departureAt, &totalSeats)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, reasonNoFlight, nil
	}
	if err != nil {
		return false, "", err
	}
	if cancelled {
		return false, reasonCancelled, nil
	}
	if !departureAt.After(time.Now()) {
		return false, reasonDeparted, nil
	}

	var booked int
	err = q.QueryRow(ctx,
		"SELECT COALESCE(SUM(seat_count), 0) FROM tickets WHERE flight_id = $1 AND NOT is_cancelled", flightID).
		Scan(&booked)
	if err != nil {
		return false, "", err
	}
	if booked+seatCount > totalSeats {
		return false, fmt.Sprintf("the flight only has %d seat(s) left", totalSeats-booked), nil
	}
	return true, reasonBookable, nil
}
