package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Seats int    `json:"seats" validate:"gt=0"`
}

func TestFields_Valid(t *testing.T) {
	v := New()
	ferrs := Fields(v, sample{Name: "a", Email: "a@b.com", Seats: 1})
	assert.Nil(t, ferrs)
}

func TestFields_ReportsJSONNames(t *testing.T) {
	v := New()
	ferrs := Fields(v, sample{Seats: -1})
	require.NotNil(t, ferrs)

	assert.Equal(t, []string{"this field is required"}, ferrs["name"])
	assert.Equal(t, []string{"this field is required"}, ferrs["email"])
	assert.Equal(t, []string{"must be a positive number"}, ferrs["seats"])
}

func TestFields_EmailMessage(t *testing.T) {
	v := New()
	ferrs := Fields(v, sample{Name: "a", Email: "nope", Seats: 1})
	require.NotNil(t, ferrs)
	assert.Equal(t, []string{"must be a valid email address"}, ferrs["email"])
}
