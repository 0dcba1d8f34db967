package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/orenshv/flightsdb/internal/domain"
)

// GetOrCreateRole returns the role with the given name, creating it if needed.
// Concurrent calls for the same name collapse to a single stored row.
func (r *Repository) GetOrCreateRole(ctx context.Context, name string) (domain.Record, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: role name must not be empty", ErrInputOutOfRange)
	}
	return getOrCreateRole(ctx, r.db, name)
}

func getOrCreateRole(ctx context.Context, q querier, name string) (domain.Record, error) {
	if _, err := q.Exec(ctx, "INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
		return nil, err
	}
	recs, err := queryRecords(ctx, q, "SELECT * FROM roles WHERE name = $1", name)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: role %q", ErrNotFound, name)
	}
	return recs[0], nil
}

// AssignRole joins a user to a named role, atomically per user: the "already
// has a role" check and the join run under a lock on the user row. An empty
// role name clears the user's role instead.
func (r *Repository) AssignRole(ctx context.Context, userID int64, roleName string) (domain.Record, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInputOutOfRange, userID)
	}
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec, err := assignRole(ctx, tx, userID, roleName)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func assignRole(ctx context.Context, tx pgx.Tx, userID int64, roleName string) (domain.Record, error) {
	var currentRole *int64
	err := tx.QueryRow(ctx, "SELECT role_id FROM users WHERE id = $1 FOR UPDATE", userID).Scan(&currentRole)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: user #%d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, err
	}

	if roleName == "" {
		if _, err := tx.Exec(ctx, "UPDATE users SET role_id = NULL, updated_at = now() WHERE id = $1", userID); err != nil {
			return nil, err
		}
		return userRecord(ctx, tx, userID)
	}

	if currentRole != nil {
		return nil, fmt.Errorf("%w: user #%d", ErrAlreadyAssigned, userID)
	}

	role, err := getOrCreateRole(ctx, tx, roleName)
	if err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, "UPDATE users SET role_id = $1, updated_at = now() WHERE id = $2", role["id"], userID); err != nil {
		return nil, err
	}
	return userRecord(ctx, tx, userID)
}

func userRecord(ctx context.Context, q querier, userID int64) (domain.Record, error) {
	d, err := domain.Lookup(domain.KindUser)
	if err != nil {
		return nil, err
	}
	recs, err := queryRecords(ctx, q, "SELECT * FROM users WHERE id = $1", userID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: user #%d", ErrNotFound, userID)
	}
	return d.Public(recs[0]), nil
}
