package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the generic CRUD
// helpers run identically inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// database adds transaction support on top of querier. *pgxpool.Pool is the
// production implementation.
type database interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Repository performs typed CRUD over the fixed set of entity kinds. It holds
// no state besides the connection pool and is safe for concurrent use.
type Repository struct {
	db  database
	log *zap.Logger
}

func New(db *pgxpool.Pool, log *zap.Logger) *Repository {
	return &Repository{db: db, log: log}
}

// FailedCreate pairs a rejected bulk-create element with its field errors.
type FailedCreate struct {
	Fields domain.Record      `json:"fields"`
	Errors domain.FieldErrors `json:"errors"`
}

// GetByID returns the row with the given id, or an empty Record if no row
// matches. Ids at or below zero fail with ErrInputOutOfRange.
func (r *Repository) GetByID(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, id)
	}
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, err
	}
	recs, err := queryRecords(ctx, r.db, fmt.Sprintf("SELECT * FROM %s WHERE id = $1", d.Table), id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return domain.Record{}, nil
	}
	return d.Public(recs[0]), nil
}

// ListAll returns all rows of a kind ordered by id, sliced by the paginator.
// The paginator's Total is set to the unsliced count.
func (r *Repository) ListAll(ctx context.Context, kind domain.Kind, pg *Paginator) ([]domain.Record, error) {
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return r.listRecords(ctx, d, pg, "ORDER BY id", "", nil)
}

// Create validates fields against the kind's schema and persists a new row.
// Validation and uniqueness failures come back as FieldErrors with a nil error;
// the row is either fully persisted or not at all.
func (r *Repository) Create(ctx context.Context, kind domain.Kind, fields domain.Record) (domain.Record, domain.FieldErrors, error) {
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, nil, err
	}
	return createIn(ctx, r.db, d, fields)
}

func createIn(ctx context.Context, q querier, d domain.Descriptor, fields domain.Record) (domain.Record, domain.FieldErrors, error) {
	conformed, ferrs := d.ConformNew(fields)
	if ferrs != nil {
		return nil, ferrs, nil
	}
	sql, args := insertSQL(d, conformed)
	recs, err := queryRecords(ctx, q, sql, args...)
	if err != nil {
		if ferrs := constraintErrors(d, err); ferrs != nil {
			return nil, ferrs, nil
		}
		return nil, nil, err
	}
	return d.Public(recs[0]), nil, nil
}

// Update applies a partial update to the row with the given id. Missing rows
// fail with ErrNotFound; bad field names or values come back as FieldErrors.
// When both apply, absence wins.
func (r *Repository) Update(ctx context.Context, kind domain.Kind, id int64, fields domain.Record) (domain.Record, domain.FieldErrors, error) {
	if id <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, id)
	}
	d, err := domain.Lookup(kind)
	if err != nil {
		return nil, nil, err
	}
	conformed, ferrs := d.ConformPatch(fields)
	if ferrs != nil {
		exists, err := r.InstanceExists(ctx, kind, id)
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			return nil, nil, fmt.Errorf("%w: %s #%d", ErrNotFound, kind, id)
		}
		return nil, ferrs, nil
	}
	sql, args := updateSQL(d, id, conformed)
	recs, err := queryRecords(ctx, r.db, sql, args...)
	if err != nil {
		if ferrs := constraintErrors(d, err); ferrs != nil {
			return nil, ferrs, nil
		}
		return nil, nil, err
	}
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("%w: %s #%d", ErrNotFound, kind, id)
	}
	return d.Public(recs[0]), nil, nil
}

// Delete removes the row with the given id and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, kind domain.Kind, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: got %d", ErrInputOutOfRange, id)
	}
	d, err := domain.Lookup(kind)
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", d.Table), id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// BulkCreate attempts each element independently; one failure does not block
// the others and there is no overall transaction.
func (r *Repository) BulkCreate(ctx context.Context, kind domain.Kind, elements []domain.Record) ([]domain.Record, []FailedCreate, error) {
	if _, err := domain.Lookup(kind); err != nil {
		return nil, nil, err
	}
	created := make([]domain.Record, 0, len(elements))
	failed := make([]FailedCreate, 0)
	for _, fields := range elements {
		rec, ferrs, err := r.Create(ctx, kind, fields)
		if err != nil {
			return created, failed, err
		}
		if ferrs != nil {
			failed = append(failed, FailedCreate{Fields: fields, Errors: ferrs})
			continue
		}
		created = append(created, rec)
	}
	return created, failed, nil
}

// InstanceExists reports whether a row exists, used to validate foreign
// references before a dependent create.
func (r *Repository) InstanceExists(ctx context.Context, kind domain.Kind, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: got %d", ErrInputOutOfRange, id)
	}
	d, err := domain.Lookup(kind)
	if err != nil {
		return false, err
	}
	var exists bool
	err = r.db.QueryRow(ctx, fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", d.Table), id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// listRecords runs a filtered, paginated SELECT * and publishes the unsliced
// count through the paginator.
func (r *Repository) listRecords(ctx context.Context, d domain.Descriptor, pg *Paginator, orderBy, where string, args []any) ([]domain.Record, error) {
	from := d.Table
	if where != "" {
		from += " " + where
	}
	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", from), args...).Scan(&total); err != nil {
		return nil, err
	}
	pg.setTotal(total)

	sql := fmt.Sprintf("SELECT %s.* FROM %s %s%s", d.Table, from, orderBy, pg.clause())
	recs, err := queryRecords(ctx, r.db, sql, args...)
	if err != nil {
		return nil, err
	}
	for i, rec := range recs {
		recs[i] = d.Public(rec)
	}
	return recs, nil
}

// queryRecords executes a query and scans every row into a Record keyed by the
// result set's column names.
func queryRecords(ctx context.Context, q querier, sql string, args ...any) ([]domain.Record, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.Record, 0)
	fields := rows.FieldDescriptions()
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		rec := make(domain.Record, len(fields))
		for i, fd := range fields {
			rec[string(fd.Name)] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// constraintErrors converts a unique or foreign-key violation into FieldErrors
// so callers can render it like any other validation failure.
func constraintErrors(d domain.Descriptor, err error) domain.FieldErrors {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	field := constraintField(d, pgErr.ConstraintName)
	ferrs := domain.FieldErrors{}
	switch pgErr.Code {
	case "23505":
		ferrs.Add(field, "must be unique")
	case "23503":
		ferrs.Add(field, "referenced instance does not exist")
	case "23514":
		ferrs.Add(field, "violates a value constraint")
	default:
		return nil
	}
	return ferrs
}
