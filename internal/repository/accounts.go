package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orenshv/flightsdb/internal/domain"
)

// AccountInput describes one multi-entity account creation: a user row, the
// role it joins, and its profile row. The profile's user_id is filled in from
// the created user.
type AccountInput struct {
	User        domain.Record
	RoleName    string
	ProfileKind domain.Kind
	Profile     domain.Record
}

// CreateAccount creates the user, assigns the role and creates the profile as
// one transaction. A failure at any step rolls back the whole unit, so a user
// without a profile can never be observed.
func (r *Repository) CreateAccount(ctx context.Context, in AccountInput) (user, profile domain.Record, ferrs domain.FieldErrors, err error) {
	if in.ProfileKind != domain.KindAdmin && in.ProfileKind != domain.KindAirline && in.ProfileKind != domain.KindCustomer {
		return nil, nil, nil, fmt.Errorf("%w: %s is not a profile kind", domain.ErrUnknownKind, in.ProfileKind)
	}
	userDesc, err := domain.Lookup(domain.KindUser)
	if err != nil {
		return nil, nil, nil, err
	}
	profileDesc, err := domain.Lookup(in.ProfileKind)
	if err != nil {
		return nil, nil, nil, err
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, nil, err
	}
	defer tx.Rollback(ctx)

	user, ferrs, err = createIn(ctx, tx, userDesc, in.User)
	if err != nil || ferrs != nil {
		return nil, nil, ferrs, err
	}
	userID, ok := user["id"].(int64)
	if !ok {
		return nil, nil, nil, fmt.Errorf("created user has no integer id")
	}

	if in.RoleName != "" {
		if user, err = assignRole(ctx, tx, userID, in.RoleName); err != nil {
			return nil, nil, nil, err
		}
	}

	fields := make(domain.Record, len(in.Profile)+1)
	for k, v := range in.Profile {
		fields[k] = v
	}
	fields["user_id"] = userID
	profile, ferrs, err = createIn(ctx, tx, profileDesc, fields)
	if err != nil || ferrs != nil {
		return nil, nil, ferrs, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, nil, err
	}
	r.log.Info("account created",
		zap.Int64("user_id", userID),
		zap.String("role", in.RoleName),
		zap.Stringer("profile_kind", in.ProfileKind))
	return user, profile, nil, nil
}
