package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orenshv/flightsdb/internal/domain"
)

func TestInsertSQL_DescriptorColumnOrder(t *testing.T) {
	d, err := domain.Lookup(domain.KindCountry)
	require.NoError(t, err)

	sql, args := insertSQL(d, domain.Record{
		"flag":   "il.png",
		"name":   "Israel",
		"symbol": "IL",
	})
	assert.Equal(t, "INSERT INTO countries (name, symbol, flag) VALUES ($1, $2, $3) RETURNING *", sql)
	assert.Equal(t, []any{"Israel", "IL", "il.png"}, args)
}

func TestInsertSQL_SkipsAbsentColumns(t *testing.T) {
	d, err := domain.Lookup(domain.KindUser)
	require.NoError(t, err)

	sql, args := insertSQL(d, domain.Record{
		"username":      "yoni",
		"email":         "yoni@example.com",
		"password_hash": "hash",
	})
	assert.Equal(t, "INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING *", sql)
	assert.Len(t, args, 3)
}

func TestUpdateSQL_AlwaysTouchesUpdatedAt(t *testing.T) {
	d, err := domain.Lookup(domain.KindCountry)
	require.NoError(t, err)

	sql, args := updateSQL(d, 7, domain.Record{"name": "Italy"})
	assert.Equal(t, "UPDATE countries SET updated_at = now(), name = $1 WHERE id = $2 RETURNING *", sql)
	assert.Equal(t, []any{"Italy", int64(7)}, args)
}

func TestUpdateSQL_EmptyPatch(t *testing.T) {
	d, err := domain.Lookup(domain.KindCountry)
	require.NoError(t, err)

	sql, args := updateSQL(d, 3, domain.Record{})
	assert.Equal(t, "UPDATE countries SET updated_at = now() WHERE id = $1 RETURNING *", sql)
	assert.Equal(t, []any{int64(3)}, args)
}

func TestConstraintField(t *testing.T) {
	users, err := domain.Lookup(domain.KindUser)
	require.NoError(t, err)
	tickets, err := domain.Lookup(domain.KindTicket)
	require.NoError(t, err)

	testCases := []struct {
		name       string
		descriptor domain.Descriptor
		constraint string
		expected   string
	}{
		{"unique column", users, "users_username_key", "username"},
		{"foreign key", users, "users_role_id_fkey", "role_id"},
		{"composite constraint", tickets, "tickets_flight_id_customer_id_key", domain.NonFieldErrors},
		{"unparseable", users, "something_else", domain.NonFieldErrors},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, constraintField(tc.descriptor, tc.constraint))
		})
	}
}
