package domain

import "fmt"

// ColumnType is the storage type of a settable column.
type ColumnType int

const (
	ColInt ColumnType = iota
	ColText
	ColBool
	ColTime
)

func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "integer"
	case ColText:
		return "text"
	case ColBool:
		return "boolean"
	case ColTime:
		return "timestamp"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Column describes one settable column of an entity table. The synthetic id and
// the created_at/updated_at timestamps are managed by the database and are not listed.
type Column struct {
	Name      string
	Type      ColumnType
	Required  bool
	Unique    bool
	Sensitive bool
}

// Descriptor couples an entity kind's storage schema with its wire behaviour.
type Descriptor struct {
	Table   string
	Columns []Column
}

var descriptors = map[Kind]Descriptor{
	KindCountry: {
		Table: "countries",
		Columns: []Column{
			{Name: "name", Type: ColText, Required: true, Unique: true},
			{Name: "symbol", Type: ColText, Required: true, Unique: true},
			{Name: "flag", Type: ColText, Required: true, Unique: true},
		},
	},
	KindRole: {
		Table: "roles",
		Columns: []Column{
			{Name: "name", Type: ColText, Required: true, Unique: true},
		},
	},
	KindUser: {
		Table: "users",
		Columns: []Column{
			{Name: "username", Type: ColText, Required: true, Unique: true},
			{Name: "email", Type: ColText, Required: true, Unique: true},
			{Name: "password_hash", Type: ColText, Required: true, Sensitive: true},
			{Name: "is_active", Type: ColBool},
			{Name: "role_id", Type: ColInt},
		},
	},
	KindAdmin: {
		Table: "admins",
		Columns: []Column{
			{Name: "first_name", Type: ColText, Required: true},
			{Name: "last_name", Type: ColText, Required: true},
			{Name: "user_id", Type: ColInt, Required: true, Unique: true},
		},
	},
	KindAirline: {
		Table: "airlines",
		Columns: []Column{
			{Name: "name", Type: ColText, Required: true},
			{Name: "country_id", Type: ColInt, Required: true},
			{Name: "user_id", Type: ColInt, Required: true, Unique: true},
		},
	},
	KindCustomer: {
		Table: "customers",
		Columns: []Column{
			{Name: "first_name", Type: ColText, Required: true},
			{Name: "last_name", Type: ColText, Required: true},
			{Name: "address", Type: ColText, Required: true},
			{Name: "phone_number", Type: ColText, Required: true, Unique: true},
			{Name: "credit_card_number", Type: ColText, Required: true, Unique: true, Sensitive: true},
			{Name: "user_id", Type: ColInt, Required: true, Unique: true},
		},
	},
	KindFlight: {
		Table: "flights",
		Columns: []Column{
			{Name: "airline_id", Type: ColInt, Required: true},
			{Name: "origin_country_id", Type: ColInt, Required: true},
			{Name: "destination_country_id", Type: ColInt, Required: true},
			{Name: "departure_at", Type: ColTime, Required: true},
			{Name: "arrival_at", Type: ColTime, Required: true},
			{Name: "total_seats", Type: ColInt, Required: true},
			{Name: "is_cancelled", Type: ColBool},
		},
	},
	KindTicket: {
		Table: "tickets",
		Columns: []Column{
			{Name: "flight_id", Type: ColInt, Required: true},
			{Name: "customer_id", Type: ColInt, Required: true},
			{Name: "seat_count", Type: ColInt, Required: true},
			{Name: "is_cancelled", Type: ColBool},
		},
	},
}

// Lookup returns the descriptor for a kind. Every valid kind has exactly one
// descriptor; anything else fails closed with ErrUnknownKind.
func Lookup(k Kind) (Descriptor, error) {
	d, ok := descriptors[k]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return d, nil
}

// Field resolves a column by name.
func (d Descriptor) Field(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
